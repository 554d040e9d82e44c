package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

const TestSessionID = "session-123"

func newRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	return req
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateShopperRequest builds a request as it looks after the Session middleware ran.
func CreateShopperRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := newRequest(method, target, body, pathParams)

	ctx := middleware.WithLogger(req.Context(), discardLogger())
	ctx = middleware.WithSession(ctx, TestSessionID)

	return req.WithContext(ctx)
}

// CreateAdminRequest builds a request carrying admin claims, as after RequireAdmin.
func CreateAdminRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := newRequest(method, target, body, pathParams)

	claims := &models.Claims{Email: "admin@example.com", Role: models.RoleAdmin}

	ctx := middleware.WithClaims(req.Context(), claims)
	ctx = middleware.WithLogger(ctx, discardLogger())

	return req.WithContext(ctx)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := newRequest(method, target, body, pathParams)

	return req.WithContext(middleware.WithLogger(req.Context(), discardLogger()))
}
