package commafix

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is returned with --require-match when a target's glob
	// matches no files.
	ErrNoMatch = errors.New("no files matched")
	// ErrFilesFailed is returned after a run in which at least one file
	// could not be read or written.
	ErrFilesFailed = errors.New("some files could not be fixed")
)

// ReadError wraps a failure to read a target file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a failure to rewrite a target file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error { return e.Err }

// StackTrace returns the stack captured when the panic was recovered.
func (e *DetailedError) StackTrace() []byte { return e.Stack }
