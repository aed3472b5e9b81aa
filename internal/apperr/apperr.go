// Package apperr defines the application error taxonomy and its mapping to
// HTTP responses.
//
// Every error that reaches a handler is either an *Error carrying a Kind or
// an unexpected error, which is treated as KindInternal. Render is the only
// place where kinds become status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindDatabase
	KindUnauthorized
	KindInvalidToken
	KindTokenExpired
	KindInvalidCredentials
	KindValidation
	KindNotFound
	KindConflict
	KindBadRequest
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindDatabase:
		return "database"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidToken:
		return "invalid_token"
	case KindTokenExpired:
		return "token_expired"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindRateLimited:
		return "rate_limited"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, apperr.Unauthorized())
// works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Unauthorized() *Error       { return &Error{Kind: KindUnauthorized, Message: "Unauthorized"} }
func InvalidToken() *Error       { return &Error{Kind: KindInvalidToken, Message: "Invalid token"} }
func TokenExpired() *Error       { return &Error{Kind: KindTokenExpired, Message: "Token expired"} }
func InvalidCredentials() *Error { return &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"} }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFound names the missing resource, e.g. NotFound("Novel").
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

func Database(err error) *Error {
	return &Error{Kind: KindDatabase, Message: "database error", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// FromDB classifies a storage error. Unique violations become Conflict with
// conflictMsg, missing rows become NotFound for resource, and everything else
// is an opaque database failure. Errors that are already classified pass
// through unchanged.
func FromDB(err error, resource, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if conflictMsg == "" {
			conflictMsg = "Unique constraint violation"
		}
		return &Error{Kind: KindConflict, Message: conflictMsg, Err: err}
	default:
		return Database(err)
	}
}

// KindOf returns the kind of err, treating unclassified errors as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Envelope is the wire format of every error response.
type Envelope struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Render maps err to its HTTP status and response body. With redact set,
// database and internal failures carry a generic message.
func Render(err error, redact bool) (int, Envelope) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}

	var status int
	message := appErr.Message

	switch appErr.Kind {
	case KindValidation, KindBadRequest:
		status = http.StatusBadRequest
	case KindUnauthorized, KindInvalidToken, KindTokenExpired, KindInvalidCredentials:
		status = http.StatusUnauthorized
	case KindNotFound:
		status = http.StatusNotFound
	case KindConflict:
		status = http.StatusConflict
	case KindRateLimited:
		status = http.StatusTooManyRequests
	case KindDatabase:
		status = http.StatusInternalServerError
		message = "Database error"
		if !redact && appErr.Err != nil {
			message = "Database error: " + appErr.Err.Error()
		}
	case KindInternal:
		status = http.StatusInternalServerError
		message = "Internal server error"
		if !redact && appErr.Err != nil {
			message = "Internal error: " + appErr.Err.Error()
		}
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	return status, Envelope{Error: message, Status: status}
}
