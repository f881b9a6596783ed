package http

import (
	"context"
	"net/http"
	"strings"

	"perpusum-backend/internal/security"
)

type contextKey string

const adminClaimsKey contextKey = "admin_claims"

// AuthMiddleware guards admin routes with a Bearer token check.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "Token tidak ditemukan")
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Token tidak valid atau sudah expired")
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the claims stored by AuthMiddleware, or nil.
func AdminFromContext(ctx context.Context) *security.AdminClaims {
	claims, _ := ctx.Value(adminClaimsKey).(*security.AdminClaims)
	return claims
}
