package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindAuthentication Kind = "authentication"
	KindNotFound       Kind = "not_found"
	KindDelivery       Kind = "delivery"
	KindUpload         Kind = "upload"
	KindInternal       Kind = "internal"
)

// Error carries a client-facing message and an optional cause that is only logged.
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

func newErr(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Message: msg, Err: cause}
}

func Validation(msg string) error            { return newErr(KindValidation, msg, nil) }
func Conflict(msg string, cause error) error { return newErr(KindConflict, msg, cause) }
func Authentication(msg string) error        { return newErr(KindAuthentication, msg, nil) }
func NotFound(msg string) error              { return newErr(KindNotFound, msg, nil) }
func Delivery(msg string, cause error) error { return newErr(KindDelivery, msg, cause) }
func Upload(msg string, cause error) error   { return newErr(KindUpload, msg, cause) }
func Internal(msg string, cause error) error { return newErr(KindInternal, msg, cause) }

// KindOf returns the kind of the first *Error in the chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Message returns the client-facing message; unknown errors get a generic one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Server error"
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
