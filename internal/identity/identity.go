package identity

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey struct{}

// DefaultUserID is assumed when no X-User-ID header is present, which is
// the common case for a single-household deployment.
const DefaultUserID int64 = 1

// Middleware resolves the acting user from the X-User-ID header set by
// the upstream gateway. Authentication itself happens before requests
// reach this service.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := DefaultUserID
		if raw := r.Header.Get("X-User-ID"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				userID = id
			}
		}

		ctx := context.WithValue(r.Context(), contextKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the acting user's id
func FromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(contextKey{}).(int64); ok {
		return id
	}
	return DefaultUserID
}
