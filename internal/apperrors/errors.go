package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found
// or lies outside the caller's organization.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks or a
// business policy (locked date, disallowed category, wrong status) rejected it.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the action was already performed (already reversed, already resolved).
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates the caller's role or membership is insufficient.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the cause and the sentinel matching Code, so that
// errors.Is(err, ErrNotFound) keeps working through an AppError.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := sentinelFor(e.Code); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func sentinelFor(code int) error {
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusConflict:
		return ErrConflict
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusInternalServerError:
		return ErrInternal
	}
	return nil
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a 404 error for the named resource.
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found", nil)
}

// NewValidationError builds a 400 error.
func NewValidationError(format string, args ...any) *AppError {
	return NewAppError(http.StatusBadRequest, fmt.Sprintf(format, args...), nil)
}

// NewConflictError builds a 409 error.
func NewConflictError(format string, args ...any) *AppError {
	return NewAppError(http.StatusConflict, fmt.Sprintf(format, args...), nil)
}

// NewForbiddenError builds a 403 error.
func NewForbiddenError(format string, args ...any) *AppError {
	return NewAppError(http.StatusForbidden, fmt.Sprintf(format, args...), nil)
}

// HTTPStatus maps an error chain to a response status code.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
