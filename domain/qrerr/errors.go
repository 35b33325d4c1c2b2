// Package qrerr defines the error taxonomy shared by formatters, the renderer
// and the generation pipeline.
package qrerr

import (
	"errors"
	"fmt"

	"github.com/prasetyowira/qr-utils/constant"
)

// Sentinel kinds. Use errors.Is to classify an error returned anywhere in the
// pipeline.
var (
	ErrValidation  = errors.New("validation error")
	ErrCapacity    = errors.New("capacity error")
	ErrResource    = errors.New("resource error")
	ErrPersistence = errors.New("persistence error")
)

// Error carries the failing operation and, for file related failures, the path.
type Error struct {
	Kind error
	Op   string
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel kind of e.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// Validation returns a validation error for op.
func Validation(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Capacity returns a capacity error wrapping err.
func Capacity(op, msg string, err error) error {
	return &Error{Kind: ErrCapacity, Op: op, Msg: msg, Err: err}
}

// Resource returns a resource error for the file at path.
func Resource(op, path string, err error) error {
	return &Error{Kind: ErrResource, Op: op, Path: path, Err: err}
}

// Persistence returns a persistence error for the file at path.
func Persistence(op, path string, err error) error {
	return &Error{Kind: ErrPersistence, Op: op, Path: path, Err: err}
}

// Type maps err to the log error type used across the codebase.
func Type(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return constant.ErrTypeValidation
	case errors.Is(err, ErrCapacity):
		return constant.ErrTypeCapacity
	case errors.Is(err, ErrResource):
		return constant.ErrTypeResource
	case errors.Is(err, ErrPersistence):
		return constant.ErrTypePersistence
	default:
		return constant.ErrTypeDomain
	}
}
