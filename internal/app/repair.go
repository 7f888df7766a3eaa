package app

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/lzip-tools/lziprecover/internal/lzip"
	"github.com/lzip-tools/lziprecover/internal/progress"
	"github.com/lzip-tools/lziprecover/internal/recover/oracle"
	"github.com/lzip-tools/lziprecover/internal/recover/repair"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

func (a *App) runRepair() error {
	in, size, err := openInput(a.cli.Files[0])
	if err != nil {
		return err
	}
	defer in.Close()

	if size < lzip.MinMemberSize {
		return rerr.New(rerr.Invalid, "input file is too short")
	}
	if err := lzip.VerifySingleMember(in, size); err != nil {
		return rerr.Wrap(rerr.Invalid, err, a.cli.Files[0])
	}

	verdict := oracle.TryDecompress(in, size)
	if verdict.Fatal != nil {
		return rerr.Wrap(rerr.Environmental, verdict.Fatal, "not enough memory, find a machine with more memory")
	}
	if verdict.Accepted {
		log.Info().Msg("Input file has no errors. Recovery is not needed.")
		return nil
	}

	outputName := a.cli.Output
	if outputName == "" {
		outputName = insertFixed(a.cli.Files[0])
	}
	out, err := createOutput(outputName, a.cli.Force)
	if err != nil {
		return err
	}

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		out.Close()
		return rerr.Wrap(rerr.Environmental, err, "seeking input file")
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return rerr.Wrap(rerr.Environmental, err, "copying input file")
	}

	prog := progress.New(os.Stdout, a.cli.Verbosity())
	runErr := repair.Run(out, size, verdict.FailurePos, prog.Position)
	prog.Done()

	closeErr := out.Close()
	if runErr != nil {
		// Only remove the output when repair is known to be impossible
		// (search exhaustion, or the failure position falling outside
		// the repairable window); a plain I/O failure mid-search leaves
		// the partially-mutated output in place for inspection, as the
		// original does.
		if rerr.ExitCode(runErr) == rerr.Invalid {
			os.Remove(outputName)
		}
		return runErr
	}
	if closeErr != nil {
		return rerr.Wrap(rerr.Environmental, closeErr, "closing output file")
	}

	log.Info().Msg("Copy of input file repaired successfully.")
	return nil
}
