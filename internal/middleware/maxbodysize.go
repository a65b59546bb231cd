package middleware

import (
	"encoding/json"
	"net/http"
)

// tooLargeBody matches the error shape the API handlers write.
var tooLargeBody, _ = json.Marshal(map[string]any{
	"error": map[string]string{"code": "body_too_large", "message": "request body is too large"},
})

// NewMaxBodySizeHandler caps request bodies at limit bytes. A request whose
// Content-Length is already over the limit gets a JSON 413 without reaching
// next; a body of unknown length fails on read once it passes the limit,
// which the handlers report the same way.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write(tooLargeBody)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
