package middleware

import (
	"net/http"
	"strings"

	"github.com/bcardz/bcard-backend/api/responses"
	pkgAuth "github.com/bcardz/bcard-backend/pkg/auth"
	"github.com/bcardz/bcard-backend/pkg/config"
	pkgerrors "github.com/bcardz/bcard-backend/pkg/errors"
	"github.com/bcardz/bcard-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			identity := Identity{
				UserID:     claims.UserID.String(),
				IsAdmin:    claims.IsAdmin,
				IsBusiness: claims.IsBusiness,
			}
			ctx := WithIdentity(r.Context(), identity)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":     identity.UserID,
					"is_admin":    identity.IsAdmin,
					"is_business": identity.IsBusiness,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
