package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/lzip-tools/lziprecover/internal/app"
	"github.com/lzip-tools/lziprecover/internal/config"
	"github.com/lzip-tools/lziprecover/internal/logging"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

var (
	version = "dev"
	meta    = config.Meta{
		ID:     "lziprecover",
		Name:   "Lziprecover",
		Desc:   "Data recovery tool for lzip compressed files",
		URL:    "https://github.com/lzip-tools/lziprecover",
		Author: "lzip-tools",
	}
)

func main() {
	meta.Version = version

	var cli config.Cli
	_ = kong.Parse(&cli,
		kong.Name(meta.ID),
		kong.Description(fmt.Sprintf("%s. More info: %s", meta.Desc, meta.URL)),
		kong.UsageOnError(),
		kong.Vars{
			"version": meta.Version,
		})

	logging.Configure(cli.Verbosity())

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("internal error: %v", r)
			os.Exit(int(rerr.Internal))
		}
	}()

	a, err := app.New(meta, cli)
	if err != nil {
		exitOn(err)
	}

	if err := a.Run(); err != nil {
		exitOn(err)
	}
}

// exitOn logs err at error level, unless it is nil, and terminates the
// process with the exit code its classification carries.
func exitOn(err error) {
	if err != nil {
		log.Error().Msg(err.Error())
	}
	os.Exit(int(rerr.ExitCode(err)))
}
