package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope every storefront endpoint replies with.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", slog.Int("status", statusCode), slog.String("error", err.Error()))
		return err
	}

	return nil
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	_ = WriteJson(w, statusCode, APIResponse{Success: true, Data: data})
}

func fail(w http.ResponseWriter, statusCode int, body *ErrorResponse) {
	_ = WriteJson(w, statusCode, APIResponse{Success: false, Error: body})
}

// Error renders err. Errors that are not *errors.AppError are hidden
// behind a generic 500 so internals never reach the client.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		fail(w, http.StatusInternalServerError, &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occurred",
		})
		return
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	if appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
	}

	fail(w, appErr.StatusCode, body)
}

var tagMessages = map[string]string{
	"required": "Field %s is required",
	"email":    "Field %s must be a valid email address",
	"min":      "Field %s must be at least %s",
	"max":      "Field %s must be at most %s",
	"gt":       "Field %s must be greater than %s",
	"gte":      "Field %s must be at least %s",
	"gtfield":  "Field %s must be after %s",
	"oneof":    "Field %s must be one of [%s]",
	"len":      "Field %s must have length %s",
	"iso4217":  "Field %s must be an ISO 4217 currency code",
}

func fieldMessage(fe validator.FieldError) string {
	format, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Field %s is invalid: %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}

	if fe.Param() == "" {
		return fmt.Sprintf(format, fe.Field())
	}

	return fmt.Sprintf(format, fe.Field(), fe.Param())
}

// ValidationError sends one detail line per failed field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fieldMessage(fe))
	}

	fail(w, http.StatusBadRequest, &ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "Validation failed",
		Details: details,
	})
}
