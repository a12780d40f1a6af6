package services

import "errors"

// ErrNotFound is returned when a referenced project or fiscal period does
// not exist. Handlers map it to 404.
var ErrNotFound = errors.New("record not found")

// postCheckError marks a failed post-creation consistency check inside the
// creation transaction. It forces a rollback like any other error, but the
// orchestrator reports it to the caller as a validation issue rather than an
// internal failure.
type postCheckError struct {
	msg string
}

func (e postCheckError) Error() string { return e.msg }
