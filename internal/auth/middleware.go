package auth

import (
	"net/http"
	"strings"

	"github.com/sungwon/mailvet/internal/metrics"
)

// BearerAuth returns an HTTP middleware that validates Bearer API keys
// against the keychain. An empty keychain disables the check so local
// development does not need credentials.
func BearerAuth(keys *Keychain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !keys.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, `{"error":"authorization header required"}`)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, `{"error":"invalid authorization format, expected Bearer <token>"}`)
				return
			}

			apiKey := parts[1]
			if apiKey == "" {
				unauthorized(w, `{"error":"empty API key"}`)
				return
			}

			if !keys.Verify(apiKey) {
				unauthorized(w, `{"error":"invalid API key"}`)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, body string) {
	metrics.APIAuthFailuresTotal.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(body))
}
