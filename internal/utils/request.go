package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

var (
	errEmptyBody    = errors.New("request body cannot be empty")
	errTrailingData = errors.New("request body must contain a single JSON object")
)

// DecodeJSONBody reads at most 1 MiB and rejects bodies carrying more than one JSON value.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return fmt.Errorf("invalid JSON format: %w", err)
	}

	if dec.More() {
		return errTrailingData
	}

	return nil
}

func ValidateStruct(validate *validator.Validate, data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fmt.Errorf("validation error: %w", validationErrs)
	}

	return fmt.Errorf("unexpected validation error: %w", err)
}

// ParseAndValidate writes the error response itself and reports whether the handler may continue.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request body", slog.String("endpoint", r.URL.Path), slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.Error(w, appErrors.BadRequestError("Invalid input data"))
		return false
	}

	return true
}

func ParseID(r *http.Request) (uuid.UUID, error) {

	idStr := r.PathValue("id")
	if idStr == "" {
		return uuid.Nil, appErrors.BadRequestError("ID is required")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, appErrors.BadRequestError("Invalid ID format").WithError(err)
	}

	return id, nil
}

// ParseProductID reads a positive integer {id} path value.
func ParseProductID(r *http.Request) (int64, error) {

	raw := r.PathValue("id")
	if raw == "" {
		return 0, appErrors.BadRequestError("ID is required")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.BadRequestError("Invalid product ID").WithDetail(raw)
	}

	return id, nil
}

// ParsePagination reads page/pageSize query params, falling back to 1 and 10.
func ParsePagination(r *http.Request) (int, int) {

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

// ClientIP prefers the first X-Forwarded-For hop.
func ClientIP(r *http.Request) string {

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
