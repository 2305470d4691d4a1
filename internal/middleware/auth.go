package middleware

import (
	"context"
	"net/http"
	"strings"

	"doctor-booking-api/internal/auth"
	"doctor-booking-api/internal/respond"
)

type ctxKey string

const principalKey ctxKey = "principal"

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgBadToken      = "Given token not valid for any token type"
	msgForbidden     = "You do not have permission to perform this action."
)

// Principal is the authenticated caller.
type Principal struct {
	UserID int64
	Staff  bool
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Authenticate attaches the principal when a valid Bearer token is present.
// A missing token passes through anonymous; a malformed one is rejected.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// token from Authorization: Bearer <jwt>
			h := r.Header.Get("Authorization")
			if h == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || raw == "" {
				respond.Detail(w, http.StatusUnauthorized, msgBadToken)
				return
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				respond.Detail(w, http.StatusUnauthorized, msgBadToken)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: claims.UserID, Staff: claims.Staff})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous callers before the handler runs.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			respond.Detail(w, http.StatusUnauthorized, msgNoCredentials)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff admits only staff principals.
func RequireStaff(next http.Handler) http.Handler {
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, _ := PrincipalFrom(r.Context()); !p.Staff {
			respond.Detail(w, http.StatusForbidden, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
