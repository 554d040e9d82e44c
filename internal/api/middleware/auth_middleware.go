package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

type claimsContextKey struct{}

// AuthMiddleware guards the operator routes with HS256 bearer tokens
// issued by the admin login.
type AuthMiddleware struct {
	jwtKey []byte
	parser *jwt.Parser
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{
		jwtKey: jwtKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(models.TokenIssuer),
			jwt.WithAudience(models.AdminAudience),
			jwt.WithExpirationRequired(),
		),
	}
}

func bearerToken(r *http.Request) (string, *appErrors.AppError) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", appErrors.UnauthorizedError("Authorization header is required")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", appErrors.UnauthorizedError("Invalid authorization format")
	}

	return strings.TrimSpace(token), nil
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		raw, authErr := bearerToken(r)
		if authErr != nil {
			logger.Warn("Rejected admin request", slog.String("reason", authErr.Message))
			response.Error(w, authErr)
			return
		}

		claims := &models.Claims{}
		if _, err := m.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return m.jwtKey, nil
		}); err != nil {
			logger.Warn("JWT validation failed", slog.String("error", err.Error()))
			response.Error(w, appErrors.UnauthorizedError("Invalid or expired token"))
			return
		}

		ctx := WithClaims(r.Context(), claims)
		ctx = WithLogger(ctx, logger.With(slog.String("admin", claims.Email)))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin authenticates the request and rejects tokens without the admin role.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != models.RoleAdmin {
			LoggerFromContext(r.Context()).Warn("Non-admin token on admin route")
			response.Error(w, appErrors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}

func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*models.Claims)
	return claims, ok
}
