package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const SessionHeader = "X-Session-ID"

type sessionContextKey struct{}

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// Session resolves the shopper session from X-Session-ID, issuing a new one
// when the header is absent or malformed. The id is echoed on the response.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		sessionID := r.Header.Get(SessionHeader)
		if !sessionIDPattern.MatchString(sessionID) {
			sessionID = uuid.NewString()
		}

		w.Header().Set(SessionHeader, sessionID)

		ctx := context.WithValue(r.Context(), sessionContextKey{}, sessionID)
		ctx = context.WithValue(ctx, LoggerKey, LoggerFromContext(ctx).With(slog.String("session_id", sessionID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionContextKey{}).(string)
	return sessionID, ok && sessionID != ""
}

func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sessionID)
}
