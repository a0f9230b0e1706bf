package web

import (
	"context"
	"net/http"
)

// User is the authenticated caller, forwarded by the dashboard's auth
// gateway in identity headers. The pipeline itself never reads ambient
// user state; whoever needs the caller takes it from the request context.
type User struct {
	Email string
	Role  string
}

type contextKey string

const ctxKeyUser contextKey = "user"

// identityHeaders extracts the forwarded identity into the context.
// Requests without identity headers carry no user; route guards decide
// what that means.
func identityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get("X-User-Email")
		role := r.Header.Get("X-User-Role")
		if email != "" || role != "" {
			ctx := context.WithValue(r.Context(), ctxKeyUser, User{Email: email, Role: role})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(User)
	return u, ok
}

// requireRole rejects requests whose user role is not in the allowed set.
func requireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeErrorJSON(w, http.StatusUnauthorized, "missing identity", "AUTH001")
				return
			}
			if !allowed[user.Role] {
				writeErrorJSON(w, http.StatusForbidden, "role not allowed to import", "AUTH002")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
