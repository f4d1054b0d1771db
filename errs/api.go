package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common error sentinel values
var (
	ErrBadRequest   = errors.New("malformed request")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("operation not allowed")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate field value")
	ErrInternal     = errors.New("internal server error")
)

// ApiErr is an error carrying the HTTP status code the response should
// use. Anything that does not unwrap to an ApiErr is treated as a 500 by
// the responder.
type ApiErr struct {
	StatusCode int
	err        error
	Field      string // field that caused the error (for validation errors)
	Cause      error  // the underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr
// as an argument of type `error`
func (e *ApiErr) Error() string {
	return e.err.Error()
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		if apiErr, ok := e.Cause.(*ApiErr); ok {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// Common error constructors with appropriate HTTP status codes

func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: fmt.Errorf("%s: %w", message, ErrNotFound)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: fmt.Errorf("%s: %w", message, ErrBadRequest)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: fmt.Errorf("%s: %w", message, ErrUnauthorized)}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: fmt.Errorf("%s: %w", message, ErrForbidden)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: fmt.Errorf("%s: %w", message, ErrInternal)}
}

// NewValidationError joins all rule failures into a single 400, preserving
// rule order.
func NewValidationError(messages ...string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s: %w", strings.Join(messages, ", "), ErrValidation),
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// Message returns the client-visible message for err: the ApiErr text
// without the wrapped sentinel suffix, or a generic message for anything
// unexpected.
func Message(err error) string {
	var apiErr *ApiErr
	if !errors.As(err, &apiErr) {
		return "Server Error"
	}
	msg := apiErr.Error()
	if idx := strings.LastIndex(msg, ": "); idx > 0 {
		return msg[:idx]
	}
	return msg
}
