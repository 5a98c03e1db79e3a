package middleware

import (
	"context"
	"net/http"

	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/internal/service"
	"stockflow-pos-api/pkg/apierror"
)

// SessionKey is the key for storing session data in request context.
const SessionKey contextKey = "session_data"

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Sessions *service.TokenService
}

// NewAuthMiddleware creates a session authentication middleware with
// injected dependencies. Requests carry the opaque token in X-Session.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Sessions == nil {
				writeError(w, apierror.ServiceUnavailable("session service unavailable"))
				return
			}

			token := r.Header.Get("X-Session")
			if token == "" {
				writeError(w, apierror.Unauthorized("X-Session header required"))
				return
			}

			session, err := cfg.Sessions.ValidateToken(r.Context(), token)
			if err != nil {
				writeError(w, apierror.Unauthorized("Invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the authenticated session, or nil.
func SessionFromContext(ctx context.Context) *model.SessionData {
	if session, ok := ctx.Value(SessionKey).(*model.SessionData); ok {
		return session
	}
	return nil
}

func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}
