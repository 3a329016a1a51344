package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const moderatorIDKey contextKey = "moderatorID"

// WithModeratorID adds the authenticated moderator ID to the request context
func WithModeratorID(r *http.Request, moderatorID string) *http.Request {
	ctx := context.WithValue(r.Context(), moderatorIDKey, moderatorID)
	return r.WithContext(ctx)
}

// GetModeratorID retrieves the moderator ID from context, returns empty
// string when the request is unauthenticated
func GetModeratorID(r *http.Request) string {
	moderatorID, _ := r.Context().Value(moderatorIDKey).(string)
	return moderatorID
}
