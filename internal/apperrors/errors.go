package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
// Resources outside the caller's tenant scope are reported the same way.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller lacks the required role or scope.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates that the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrProfilUnprovisioned indicates an authenticated account without a
// ProfilUtilisateur row. Kept distinct from ErrUnauthorized so callers can
// log the misconfiguration instead of silently treating it as anonymous.
var ErrProfilUnprovisioned = errors.New("user profile not provisioned")

// AppError carries an HTTP status code alongside a message and an optional wrapped cause.
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

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets AppError values match the package sentinels via errors.Is.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrValidation:
		return e.Code == http.StatusBadRequest
	case ErrDuplicate:
		return e.Code == http.StatusConflict
	case ErrForbidden:
		return e.Code == http.StatusForbidden
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	}
	return false
}

// NewAppError creates an AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError with a 404 status.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError with a 409 status.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

// NewValidationFailedError creates an AppError with a 400 status.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewForbiddenError creates an AppError with a 403 status.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// StatusCode resolves the HTTP status to report for err, defaulting to 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrProfilUnprovisioned),
		errors.Is(err, ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
