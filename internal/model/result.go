package model

import "errors"

// ErrNoSession is returned when a command needs an authenticated user.
var ErrNoSession = errors.New("no active session")

// Result is the outcome of a store command. Reason is the user-facing
// message; Err carries the underlying cause for logging and errors.Is checks.
type Result struct {
	OK     bool
	Reason string
	Err    error
}

// Success returns a successful Result with an optional message.
func Success(reason string) Result {
	return Result{OK: true, Reason: reason}
}

// Failure returns a failed Result.
func Failure(reason string, err error) Result {
	return Result{Reason: reason, Err: err}
}

// String renders the Result for logs and CLI output.
func (r Result) String() string {
	if r.OK {
		return r.Reason
	}
	if r.Err != nil && r.Reason != "" {
		return r.Reason + ": " + r.Err.Error()
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Reason
}
