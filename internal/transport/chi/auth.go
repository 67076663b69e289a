package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var valid [][]byte
	for _, k := range apiKeys {
		if k != "" {
			valid = append(valid, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(valid) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeFailure(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeFailure(w, http.StatusUnauthorized, CodeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			if !knownKey(valid, []byte(auth[len(bearerPrefix):])) {
				writeFailure(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func knownKey(valid [][]byte, token []byte) bool {
	found := 0
	for _, k := range valid {
		found |= subtle.ConstantTimeCompare(k, token)
	}
	return found == 1
}
