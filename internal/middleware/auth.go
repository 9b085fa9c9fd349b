package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/notesapi/notesapi/internal/auth"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Codec  *auth.Codec
}

// Auth returns a middleware that authenticates API requests.
// It decodes the token in the Authorization header and injects the
// caller's user id into the request context. It does not check that
// the user exists.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := cfg.Codec.Decode(r.Header.Get("Authorization"))
			if err != nil {
				reason := "invalid_format"
				switch {
				case errors.Is(err, auth.ErrTokenMissing):
					reason = "missing_token"
				case errors.Is(err, auth.ErrTokenBadID):
					reason = "invalid_id"
				}

				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, err)
				return
			}

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError writes 401 for a missing token and 403 for a rejected one.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusForbidden
	detail := "Invalid authorization token format"
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		status = http.StatusUnauthorized
		detail = "Authorization header is missing"
	case errors.Is(err, auth.ErrTokenBadID):
		detail = "Invalid authorization token"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
