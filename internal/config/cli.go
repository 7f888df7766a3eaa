package config

import "github.com/alecthomas/kong"

// Cli is the command-line surface, parsed by github.com/alecthomas/kong.
type Cli struct {
	Version kong.VersionFlag `kong:"short=V,help='output version information and exit'"`

	Force  bool   `kong:"short=f,help='overwrite existing output files'"`
	Merge  bool   `kong:"short=m,help='correct errors in file using several copies'"`
	Output string `kong:"short=o,type=path,help='place the output into <file>'"`
	Quiet  bool   `kong:"short=q,help='suppress all messages'"`
	Repair bool   `kong:"short=R,help='try to repair a small error in file'"`
	Split  bool   `kong:"short=s,help='split a multimember file in single-member files'"`

	Verbose int `kong:"short=v,type=counter,help='be verbose (a 2nd -v gives more)'"`

	Files []string `kong:"arg,optional,name=file,help='input file(s)'"`
}

// Mode identifies which of the three recovery strategies was selected.
type Mode int

const (
	ModeNone Mode = iota
	ModeMerge
	ModeRepair
	ModeSplit
)

// Mode resolves the selected mode from the parsed flags. It does not
// validate file counts; see internal/app.
func (c Cli) Mode() Mode {
	switch {
	case c.Merge:
		return ModeMerge
	case c.Repair:
		return ModeRepair
	case c.Split:
		return ModeSplit
	default:
		return ModeNone
	}
}

// Verbosity maps the parsed flags to the process-wide verbosity level:
// -1 when quiet, else the verbose count clamped to 4.
func (c Cli) Verbosity() int {
	if c.Quiet {
		return -1
	}
	if c.Verbose > 4 {
		return 4
	}
	return c.Verbose
}
