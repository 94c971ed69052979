package server

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/cors"
)

// Middleware is a function that takes an http.Handler and returns an http.Handler
type Middleware func(next http.Handler) http.Handler

// ChainMiddlewareHandlers applies middlewares so that the first one is outermost
func ChainMiddlewareHandlers(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func corsMiddleware(origins []string) Middleware {
	options := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}

// jwtMiddleware rejects requests without a valid HS256 bearer token
func jwtMiddleware(secret []byte) Middleware {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="mcp-bridge"`)
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			if _, err := parser.Parse(raw, keyFunc); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
