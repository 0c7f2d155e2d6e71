package process

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// ProcessError reports an external command that did not exit cleanly.
// ExitCode is -1 when the process could not be started or was killed by a signal.
type ProcessError struct {
	Command  []string
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	line := shellquote.Join(e.Command...)
	if e.ExitCode >= 0 {
		return fmt.Sprintf("command %q failed: exit status %d", line, e.ExitCode)
	}
	return fmt.Sprintf("command %q failed: %v", line, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// AsProcessError extracts a *ProcessError from err's chain.
func AsProcessError(err error) (*ProcessError, bool) {
	var pe *ProcessError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsProcessFailure reports whether err came from an external command failure.
func IsProcessFailure(err error) bool {
	_, ok := AsProcessError(err)
	return ok
}

func newProcessError(argv []string, err error) *ProcessError {
	code := -1
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code = ee.ExitCode()
	}
	return &ProcessError{Command: append([]string(nil), argv...), ExitCode: code, Err: err}
}
