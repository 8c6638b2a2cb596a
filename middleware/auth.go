package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/DipakKumarChauhan/foodie-eyes/util"
)

type contextKey string

const userContextKey contextKey = "user_id"

// Authenticator validates the Bearer token and puts the user id in the
// request context. Requests without a valid token get a 401.
func Authenticator(jwtSecretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized: No Authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Unauthorized: Invalid Authorization format", http.StatusUnauthorized)
				return
			}

			claims, err := util.ValidateJWT(parts[1], jwtSecretKey)
			if err != nil {
				http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userContextKey).(uint)
	return id, ok
}
