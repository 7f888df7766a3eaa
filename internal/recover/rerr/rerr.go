// Package rerr classifies recovery-engine failures into the exit-code
// taxonomy the tool exposes: 0 success, 1 environmental failure, 2
// corrupt/unrecoverable input, 3 internal consistency error.
package rerr

import "github.com/pkg/errors"

// Code is one of the four exit codes the tool ever returns.
type Code int

const (
	Success       Code = 0
	Environmental Code = 1
	Invalid       Code = 2
	Internal      Code = 3
)

type classified struct {
	code Code
	err  error
}

func (c *classified) Error() string { return c.err.Error() }
func (c *classified) Unwrap() error { return c.err }

// Wrap annotates err with an exit code and message, adding the message
// as context with github.com/pkg/errors.Wrap.
func Wrap(code Code, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &classified{code: code, err: errors.Wrap(err, msg)}
}

// New creates a classified error from a message alone.
func New(code Code, msg string) error {
	return &classified{code: code, err: errors.New(msg)}
}

// ExitCode returns the exit code associated with err, or Internal (3)
// if err was never classified — an unclassified error reaching the top
// of main is itself a bug in the classification, not in the recovery.
func ExitCode(err error) Code {
	if err == nil {
		return Success
	}
	var c *classified
	if errors.As(err, &c) {
		return c.code
	}
	return Internal
}
