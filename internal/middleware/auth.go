package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/skald/internal/auth"
	"github.com/dukerupert/skald/internal/domain"
)

// WithIdentity verifies a Bearer token when one is present and attaches the
// caller's identity to the request context. Requests without a token pass
// through unauthenticated; RequireAuth decides whether that is acceptable.
func WithIdentity(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := auth.VerifyToken(token, jwtSecret)
			if err != nil {
				// A token was presented but is bad; reject rather than
				// silently downgrading to anonymous.
				respondUnauthorized(w, r, "Invalid or expired token")
				return
			}

			ctx := domain.NewContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without an admin role with 403
// (401 when unauthenticated).
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := domain.IdentityFromContext(r.Context())
		if identity == nil {
			respondUnauthorized(w, r, "Authentication required")
			return
		}
		if !identity.Role.IsAdmin() {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects callers whose role is not the given one.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := domain.IdentityFromContext(r.Context())
			if identity == nil {
				respondUnauthorized(w, r, "Authentication required")
				return
			}
			if identity.Role != role {
				respondForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
