// Package errs carries the error categories reported at the file boundary.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the category of a failure.
type Kind string

const (
	KindConfig Kind = "config"
	KindRead   Kind = "read"
	KindSplit  Kind = "split"
	KindWrite  Kind = "write"
)

// Error is a categorized failure for one operation, usually on one file.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind, operation and path. A nil err yields nil.
func E(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Errorf builds an Error from a formatted message.
func Errorf(kind Kind, op, path, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }
