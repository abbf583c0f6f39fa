package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/paharnama-dev/paharnama/internal/jwt"
	"github.com/paharnama-dev/paharnama/internal/utils"
)

// Key to store the user claims in the request context
type key int

const userClaimsKey key = 0

// Auth validates the Bearer access token and stores the decoded claims
// in the request context.
func Auth(jwtService jwt.TokenService, adminOnly bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}
			tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenStr == "" {
				http.Error(w, "Invalid Authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.DecodeAccessToken(tokenStr)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			if adminOnly && !claims.Role.IsAdmin() {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// Helper functions for admin and regular auth
func AdminOnly(jwtService jwt.TokenService) func(http.HandlerFunc) http.HandlerFunc {
	return Auth(jwtService, true)
}

func NeedAuth(jwtService jwt.TokenService) func(http.HandlerFunc) http.HandlerFunc {
	return Auth(jwtService, false)
}

// GetClaimsFromContext retrieves the decoded token claims stored by Auth.
func GetClaimsFromContext(r *http.Request) *jwt.Claims {
	claims, ok := r.Context().Value(userClaimsKey).(*jwt.Claims)
	if !ok {
		return nil
	}
	return claims
}
