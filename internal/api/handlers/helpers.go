package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
)

// sessionID returns the shopper session set by middleware.Session.
func sessionID(r *http.Request) (string, error) {
	id, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return "", errors.BadRequestError("Session is required")
	}

	return id, nil
}
