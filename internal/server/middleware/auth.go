package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/petrotech/siteapi/internal/model"
	"github.com/petrotech/siteapi/internal/service"
	"github.com/petrotech/siteapi/internal/store"
)

type contextKeyAuth string

// adminKey is the context key for the authenticated admin.
const adminKey contextKeyAuth = "auth_admin"

// Authenticate returns an HTTP middleware that guards admin-only routes.
// Per request it extracts the Bearer token from the Authorization header,
// verifies it cryptographically, and resolves the claimed identity against
// the store. Each failure is terminal: missing or malformed header, invalid
// or expired token, and unknown or deactivated admin all produce a 401 JSON
// response with the same generic message. On success the resolved Admin is
// attached to the request context.
func Authenticate(authSvc *service.AuthService, s store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, "Authentication required")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := authSvc.VerifyToken(token)
			if err != nil {
				writeAuthError(w, "Invalid or expired token")
				return
			}

			admin, err := s.FindAdminByID(r.Context(), claims.AdminID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeAuthError(w, "Invalid or expired token")
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message":"Server error"}`))
				return
			}
			if !admin.Active {
				writeAuthError(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext extracts the authenticated admin from the context.
// Returns nil for unauthenticated requests.
func AdminFromContext(ctx context.Context) *model.Admin {
	if a, ok := ctx.Value(adminKey).(*model.Admin); ok {
		return a
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	// Manually construct JSON to avoid an import cycle with the handler package
	w.Write([]byte(`{"message":"` + message + `"}`))
}
