package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every error surfaced by a usecase unwraps to exactly one of these.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrDuplicateVote    = errors.New("duplicate vote")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConflict         = errors.New("transaction conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error carries a human-readable message for direct display plus its kind.
type Error struct {
	Kind error
	Msg  string
	Err  error // underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error   { return newf(ErrValidation, format, args...) }
func NotFound(format string, args ...any) error     { return newf(ErrNotFound, format, args...) }
func InvalidState(format string, args ...any) error { return newf(ErrInvalidState, format, args...) }
func DuplicateVote(format string, args ...any) error {
	return newf(ErrDuplicateVote, format, args...)
}
func Unauthorized(format string, args ...any) error { return newf(ErrUnauthorized, format, args...) }

// Conflict wraps a store-level cause that lost a concurrency race.
func Conflict(cause error) error {
	return &Error{Kind: ErrConflict, Msg: "concurrent update, please retry", Err: cause}
}

// Unavailable wraps an unexpected store failure.
func Unavailable(cause error) error {
	return &Error{Kind: ErrStoreUnavailable, Msg: "store temporarily unavailable, please retry", Err: cause}
}

// IsRetryable reports whether the caller may safely retry the operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStoreUnavailable)
}

// Tagged reports whether err already belongs to the taxonomy.
func Tagged(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
