package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type handlers render. Services return it when a
// failure has a client-facing meaning; anything else becomes a 500.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	// RetryAfter is sent as the Retry-After header when positive.
	RetryAfter int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func (e *AppError) WithRetryAfter(seconds int) *AppError {
	e.RetryAfter = seconds
	return e
}

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeUnprocessable   = "UNPROCESSABLE_ENTITY"
	ErrCodeThirdPartyError = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
)

type constructor func(message string) *AppError

func kind(code string, statusCode int) constructor {
	return func(message string) *AppError {
		return NewAppError(code, message, statusCode)
	}
}

var (
	ValidationError   = kind(ErrCodeValidation, http.StatusBadRequest)
	BadRequestError   = kind(ErrCodeBadRequest, http.StatusBadRequest)
	NotFoundError     = kind(ErrCodeNotFound, http.StatusNotFound)
	UnauthorizedError = kind(ErrCodeUnauthorized, http.StatusUnauthorized)
	ForbiddenError    = kind(ErrCodeForbidden, http.StatusForbidden)
	InternalError     = kind(ErrCodeInternal, http.StatusInternalServerError)
	DatabaseError     = kind(ErrCodeDatabaseError, http.StatusInternalServerError)
	ConflictError     = kind(ErrCodeConflict, http.StatusConflict)
	// UnprocessableError reports a well-formed request the current state cannot satisfy.
	UnprocessableError   = kind(ErrCodeUnprocessable, http.StatusUnprocessableEntity)
	ThirdPartyError      = kind(ErrCodeThirdPartyError, http.StatusBadGateway)
	TooManyRequestsError = kind(ErrCodeTooManyRequests, http.StatusTooManyRequests)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}

// InvalidField is a validation error naming the offending request field.
func InvalidField(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
