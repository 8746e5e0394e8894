package domain

import "errors"

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord signals a record that failed validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrInvalidFilter signals a malformed search request.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnknownModule signals a module name outside the citizen/criminal table.
	ErrUnknownModule = errors.New("unknown module")

	// ErrEmptyCommand signals blank command text.
	ErrEmptyCommand = errors.New("empty command")
	// ErrCommandInFlight signals that a previous command has not resolved yet.
	ErrCommandInFlight = errors.New("command already in flight")
	// ErrInterpreterUnavailable signals a failed call to the command interpreter.
	ErrInterpreterUnavailable = errors.New("command interpreter unavailable")
)
