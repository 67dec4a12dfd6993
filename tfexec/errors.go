package tfexec

import (
	"errors"
	"fmt"
)

// ErrCaptureRequired is returned by the output helpers when the exec
// configuration does not capture stdout. It is a configuration error and is
// reported before any process is spawned.
var ErrCaptureRequired = errors.New("tfexec: reading outputs requires captured stdout")

// CommandError reports a child process that exited with a nonzero code. The
// captured streams are empty when the invocation did not capture.
type CommandError struct {
	ExitCode int
	Command  string
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("tfexec: %q exited with code %d", e.Command, e.ExitCode)
}
