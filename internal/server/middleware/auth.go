// Package middleware provides HTTP middleware for authenticating API requests.
package middleware

import (
	"net/http"
	"strings"
)

// TokenVerifier checks a presented access token against a stored hash.
// Implemented by config.TokenConfig.
type TokenVerifier interface {
	VerifyToken(token, storedHash string) bool
}

// Auth creates middleware that requires a bearer access token matching
// tokenHash. The plain token never crosses the config boundary; only its
// bcrypt hash is configured.
func Auth(verifier TokenVerifier, tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok || !verifier.VerifyToken(token, tokenHash) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the bearer token from the Authorization header.
// The "Bearer" prefix is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
