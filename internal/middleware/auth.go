package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"dendrite/internal/auth"
	"dendrite/internal/httputil"
)

// Auth verifies the bearer token on moderation endpoints and stashes the
// moderator ID in the request context. Requests without a valid token are
// rejected; submission and reader endpoints stay outside this wrapper.
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithModeratorID(r, claims.GetModeratorID()))
		})
	}
}

// OptionalAuth attaches the moderator ID when a valid bearer token is
// present and passes the request through untouched otherwise. Submission
// endpoints accept anonymous posts but credit signed-in authors.
func OptionalAuth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if claims, err := verifier.VerifyToken(token); err == nil {
					r = httputil.WithModeratorID(r, claims.GetModeratorID())
				} else {
					logger.Debug("token ignored on anonymous endpoint",
						"path", r.URL.Path, "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
