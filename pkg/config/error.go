package config

import "fmt"

// Error is a fatal configuration problem: a malformed config file, a
// bad enum value, or a reference to an unknown rule id. Configuration
// errors abort the run before any checking happens.
type Error struct {
	// File is the configuration file the problem came from, when known.
	File string

	// Message describes the problem.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with a formatted message.
func NewError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// NewFileError creates an Error attributed to a configuration file.
func NewFileError(file string, err error) *Error {
	return &Error{File: file, Err: err}
}
