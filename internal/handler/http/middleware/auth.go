package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/jwt"
)

type ctxKey string

const (
	ctxKeyUID     ctxKey = "uid"
	ctxKeyIsAdmin ctxKey = "is_admin"
)

// AuthRequired verifies the bearer token carries an "access" token, has
// not been revoked via Logout, and threads the resolved uid/isAdmin
// claims onto the request context for handlers to read.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "missing bearer token")
				return
			}
			if raw := BearerToken(r); raw != "" && jwtService.IsTokenRevoked(raw) {
				response.Unauthorized(w, "token has been revoked")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "invalid token claims")
				return
			}

			tokenType, _ := claims["type"].(string)
			if tokenType != "access" {
				response.Unauthorized(w, "invalid token type")
				return
			}

			uid, _ := claims["uid"].(string)
			if uid == "" {
				response.Unauthorized(w, "token missing uid claim")
				return
			}
			isAdmin, _ := claims["is_admin"].(bool)

			ctx := context.WithValue(r.Context(), ctxKeyUID, uid)
			ctx = context.WithValue(ctx, ctxKeyIsAdmin, isAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminRequired gates a route to callers whose token carries isAdmin.
// Must run after AuthRequired.
func AdminRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			response.Forbidden(w, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UID reads the authenticated caller's uid from the request context.
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(ctxKeyUID).(string)
	return uid
}

// IsAdmin reads the authenticated caller's admin flag from the request
// context.
func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(ctxKeyIsAdmin).(bool)
	return isAdmin
}

// BearerToken extracts the raw bearer token string from the Authorization
// header, for callers (e.g. Logout) that need to revoke it.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
