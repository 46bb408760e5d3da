package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/auth"
	"github.com/idilsaglam/rate/internal/store"
)

type contextKey string

const identityKey = contextKey("identity")

// Identity is the caller resolved from the bearer token.
type Identity struct {
	UserID   string
	Verified bool
}

// IdentityFrom returns the caller stored by Authenticate.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Authenticate resolves the caller from an HS256 bearer token. With an
// empty secret every request acts as the verified local user.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				ctx := context.WithValue(r.Context(), identityKey, Identity{UserID: store.LocalUser, Verified: true})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, r, http.StatusUnauthorized, "Authorization header is required")
				return
			}
			parts := strings.Fields(header)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}
			claims, err := auth.Verify(parts[1], secret)
			if err != nil || claims.Subject == "" {
				logrus.WithError(err).Debug("rejected token")
				writeError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, Identity{
				UserID:   claims.Subject,
				Verified: claims.EmailVerified,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
