package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies every error the lifecycle services can return.
type Kind int

const (
	KindForbidden Kind = iota + 1
	KindInvalidState
	KindConflict
	KindValidation
	KindNotFound
	KindPreconditionFailed
	KindPaymentFailed
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two *Error values by kind, so tests can assert
// against a bare constructor result.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }

func PreconditionFailed(msg string) *Error {
	return &Error{Kind: KindPreconditionFailed, Message: msg}
}

// PaymentFailed is the only retryable kind; callers retry with the same
// gateway reference.
func PaymentFailed(msg string, err error) *Error {
	return &Error{Kind: KindPaymentFailed, Message: msg, Err: err}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// StatusCode maps an error to the HTTP status handlers respond with.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindPaymentFailed:
		return fiber.StatusPaymentRequired
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindInvalidState, KindConflict:
		return fiber.StatusConflict
	case KindPreconditionFailed:
		return fiber.StatusPreconditionFailed
	default:
		return fiber.StatusInternalServerError
	}
}
