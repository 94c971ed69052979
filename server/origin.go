package server

import (
	"net/http"
	"slices"
)

// originMiddleware rejects browser requests from origins outside the allow list.
// Requests without an Origin header pass.
func originMiddleware(allowed []string) Middleware {
	anyOrigin := slices.Contains(allowed, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || anyOrigin || slices.Contains(allowed, origin) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "origin not allowed", http.StatusForbidden)
		})
	}
}
