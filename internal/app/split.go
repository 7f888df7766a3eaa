package app

import (
	"io"

	"github.com/rs/zerolog/log"

	"github.com/lzip-tools/lziprecover/internal/recover/split"
)

func (a *App) runSplit() error {
	in, _, err := openInput(a.cli.Files[0])
	if err != nil {
		return err
	}
	defer in.Close()

	suffix := a.cli.Output
	if suffix == "" {
		suffix = a.cli.Files[0]
	}
	namer := split.NewNamer(suffix)

	newOutput := func(name string) (io.WriteCloser, error) {
		f, err := createOutput(name, a.cli.Force)
		if err != nil {
			return nil, err
		}
		log.Debug().Msgf("Creating member file %q", name)
		return f, nil
	}

	if err := split.Run(in, namer, newOutput); err != nil {
		return err
	}

	log.Info().Msg("Input file split successfully.")
	return nil
}
