package transport

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenAuth requires requests to carry token as a bearer token.
// It returns nil when token is empty, which leaves the routes open.
func TokenAuth(token string) func(http.Handler) http.Handler {
	if token == "" {
		return nil
	}
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			got := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if got == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
