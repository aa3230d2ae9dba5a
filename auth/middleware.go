package auth

import (
	"net/http"
	"strings"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/config"
)

// JWTMiddleware returns middleware that authenticates each request from its
// Authorization header. On success the verified claims are placed in the
// request context; any failure short-circuits with 401.
func JWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Authorization header is missing", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				// The parse error stays server-side; the client only learns
				// that the token did not validate.
				WriteError(w, r, apperror.NewAuthError("Invalid or expired token", err))
				return
			}

			ctx := NewContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
