package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// UserHeader carries the authenticated user id, set by the gateway in front
// of the API.
const UserHeader = "X-User-ID"

const maxUserIDLen = 128

type userKey struct{}

// RequireUser rejects requests without a usable UserHeader with 401 and
// stores the user id in the request context for UserID.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserHeader))
		if id == "" || len(id) > maxUserIDLen {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "unauthorized", "message": "missing " + UserHeader + " header"},
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

// WithUserID returns a copy of ctx carrying id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserID returns the user id stored by RequireUser, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}
