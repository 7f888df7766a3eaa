package app

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/lzip-tools/lziprecover/internal/lzip"
	"github.com/lzip-tools/lziprecover/internal/progress"
	"github.com/lzip-tools/lziprecover/internal/recover/merge"
	"github.com/lzip-tools/lziprecover/internal/recover/oracle"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

func (a *App) runMerge() error {
	files := make([]*os.File, len(a.cli.Files))
	var size int64
	for i, name := range a.cli.Files {
		f, sz, err := openInput(name)
		if err != nil {
			return err
		}
		files[i] = f
		defer f.Close()

		if i == 0 {
			size = sz
		} else if sz != size {
			return rerr.New(rerr.Environmental, "sizes of input files are different")
		}
	}
	if size < lzip.MinMemberSize {
		return rerr.New(rerr.Invalid, "input file is too short")
	}

	for i, f := range files {
		if err := lzip.VerifySingleMember(f, size); err != nil {
			return rerr.Wrap(rerr.Invalid, err, a.cli.Files[i])
		}
	}

	for i, f := range files {
		verdict := oracle.TryDecompress(f, size)
		if verdict.Fatal != nil {
			return rerr.Wrap(rerr.Environmental, verdict.Fatal, "not enough memory, find a machine with more memory")
		}
		if verdict.Accepted {
			log.Info().Msgf("File %q has no errors. Recovery is not needed.", a.cli.Files[i])
			return nil
		}
	}

	outputName := a.cli.Output
	if outputName == "" {
		outputName = insertFixed(a.cli.Files[0])
	}
	out, err := createOutput(outputName, a.cli.Force)
	if err != nil {
		return err
	}

	sources := make([]merge.Source, len(files))
	for i, f := range files {
		sources[i] = f
	}

	prog := progress.New(os.Stdout, a.cli.Verbosity())
	err = merge.Run(sources, out, size, prog.Variation)
	prog.Done()

	closeErr := out.Close()
	if err != nil {
		// Only remove the output on search exhaustion; a plain I/O
		// failure mid-search leaves the partially-assembled output in
		// place for inspection, as the original does.
		if rerr.ExitCode(err) == rerr.Invalid {
			os.Remove(outputName)
		}
		return err
	}
	if closeErr != nil {
		return rerr.Wrap(rerr.Environmental, closeErr, "closing output file")
	}

	log.Info().Msg("Input files merged successfully.")
	return nil
}
