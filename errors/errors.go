// Package errors holds the error taxonomy shared by every store.
// Callers only ever see two kinds: ArgumentError for bad input and
// DatabaseError for a failing or unreachable backend.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrArgument = fmt.Errorf("invalid argument")
	ErrDatabase = fmt.Errorf("database failure")

	ErrNotConnected       = fmt.Errorf("store is not connected")
	ErrUserAlreadyExists  = fmt.Errorf("username already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrInvalidID          = fmt.Errorf("invalid id")
	ErrInvalidMessage     = fmt.Errorf("invalid message")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnknownField       = fmt.Errorf("unknown field")
)

// ArgumentError reports input the caller can fix.
type ArgumentError struct {
	Reason string
	Err    error
}

func NewArgumentError(reason string, err error) *ArgumentError {
	return &ArgumentError{Reason: reason, Err: err}
}

func (e *ArgumentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrArgument, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrArgument, e.Reason, e.Err)
}

func (e *ArgumentError) Unwrap() []error {
	return unwrap(ErrArgument, e.Err)
}

// DatabaseError wraps whatever the storage backend returned. Nothing is retried.
type DatabaseError struct {
	Op  string
	Err error
}

func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrDatabase, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrDatabase, e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() []error {
	return unwrap(ErrDatabase, e.Err)
}

func IsArgument(err error) bool {
	var target *ArgumentError
	return stderrors.As(err, &target)
}

func IsDatabase(err error) bool {
	var target *DatabaseError
	return stderrors.As(err, &target)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func unwrap(kind, cause error) []error {
	if cause == nil {
		return []error{kind}
	}
	return []error{kind, cause}
}
