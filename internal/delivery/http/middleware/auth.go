package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	h "crmsync/internal/delivery/http"
	"crmsync/internal/domain"
)

// RequireSignupToken returns a wrapper that validates the Bearer token and sets the caller in the request context.
// If the token is missing or invalid, it responds with 401 and a {"reason"} body and does not call next.
// OPTIONS requests pass through so CORS preflights keep working.
func RequireSignupToken(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteReason(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteReason(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteReason(w, http.StatusUnauthorized, "missing token")
				return
			}
			caller, err := verifier.Verify(token)
			if err != nil {
				logger.Info("rejected signup token", "path", r.URL.Path, "error", err)
				h.WriteReason(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(h.WithCaller(r.Context(), caller))
			next(w, r)
		}
	}
}
