// Package app wires the recovery engine (internal/recover/...) to the
// CLI: it owns file-level preconditions, default output filenames,
// diagnostics and exit-code classification. The recovery packages
// themselves assume their preconditions already hold and stay pure
// algorithms over already-open files.
package app

import (
	"github.com/rs/zerolog/log"

	"github.com/lzip-tools/lziprecover/internal/config"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

// App is a single recovery invocation, configured from parsed CLI flags.
type App struct {
	meta config.Meta
	cli  config.Cli
}

// New validates the mode/file-count preconditions spec.md §6 assigns to
// the CLI surface and returns a ready-to-run App.
func New(meta config.Meta, cli config.Cli) (*App, error) {
	switch cli.Mode() {
	case config.ModeMerge:
		if len(cli.Files) < 2 {
			return nil, rerr.New(rerr.Environmental, "you must specify at least 2 files")
		}
	case config.ModeRepair, config.ModeSplit:
		if len(cli.Files) != 1 {
			return nil, rerr.New(rerr.Environmental, "you must specify exactly 1 file")
		}
	default:
		return nil, rerr.New(rerr.Environmental, "you must specify the operation to be performed on file")
	}
	return &App{meta: meta, cli: cli}, nil
}

// Run dispatches to the selected recovery strategy.
func (a *App) Run() error {
	log.Debug().Msgf("%s %s", a.meta.Name, a.meta.Version)

	switch a.cli.Mode() {
	case config.ModeMerge:
		return a.runMerge()
	case config.ModeRepair:
		return a.runRepair()
	case config.ModeSplit:
		return a.runSplit()
	default:
		return rerr.New(rerr.Internal, "uncaught mode")
	}
}

