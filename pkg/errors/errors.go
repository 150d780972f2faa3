package errors

import (
	pkgerrors "github.com/pkg/errors"
)

// New returns a plain error with a recorded stack.
func New(message string) error {
	return pkgerrors.New(message)
}

// Errorf formats an error with a recorded stack.
func Errorf(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}

// ErrorfAndReport formats an error, reports it, and returns it.
func ErrorfAndReport(format string, args ...interface{}) error {
	err := pkgerrors.Errorf(format, args...)
	report(err)
	return err
}

// Wrap annotates err with message. Returns nil when err is nil.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message. Returns nil when err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// WrapAndReport annotates err, reports the wrapped error, and returns it.
// Returns nil when err is nil.
func WrapAndReport(err error, message string) error {
	wrapped := pkgerrors.Wrap(err, message)
	report(wrapped)
	return wrapped
}

// WrapfAndReport annotates err with a formatted message and reports it.
func WrapfAndReport(err error, format string, args ...interface{}) error {
	wrapped := pkgerrors.Wrapf(err, format, args...)
	report(wrapped)
	return wrapped
}

func Is(err, target error) bool {
	return pkgerrors.Is(err, target)
}

func Cause(err error) error {
	return pkgerrors.Cause(err)
}
