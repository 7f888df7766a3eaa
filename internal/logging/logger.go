// Package logging configures the process-wide zerolog logger used for
// every diagnostic the recovery engine emits — errors, warnings, and
// the "no errors, recovery not needed" notices. The legacy
// carriage-return progress lines are handled separately by
// internal/progress, since they are not structured records.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Configure sets up the global zerolog logger from the process-wide
// verbosity level: -1 (quiet) suppresses everything, 0 is the default
// (warnings and errors only), 1 adds informational messages, and 2 or
// more adds debug messages.
func Configure(verbosity int) {
	_, noColor := os.LookupEnv("NO_COLOR")

	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(levelFor(verbosity))
}

// levelFor maps the recovery engine's verbosity scale to a zerolog
// level. Verbosity < 0 ("quiet") disables logging outright, matching
// spec.md §7's "all user-visible messages are suppressed when verbosity
// < 0".
func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity < 0:
		return zerolog.Disabled
	case verbosity == 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity >= 2:
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}
