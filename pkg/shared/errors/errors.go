package errors

import (
	"errors"
)

const (
	ExitCodeConfig  = 1 // invalid arguments, configuration, catalog or boundaries
	ExitCodeRuntime = 2 // the scan ran but its results could not be delivered
)

// CommandError represents an error that occurred during command execution, carrying the process exit code.
type CommandError struct {
	ExitCode    int
	CommonError string
	Args        interface{}
	err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.err
}

// NewCommandError creates a new CommandError instance, encapsulating args and the error message.
func NewCommandError(args interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Args:        args,
		err:         err,
	}
}

// ExitCode extracts the exit code from err. Errors that are not a CommandError map to ExitCodeConfig.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return ExitCodeConfig
}
