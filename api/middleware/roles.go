package middleware

import (
	"net/http"

	"github.com/webcodesigner/pricemanager-backend/api/responses"
	pkgAuth "github.com/webcodesigner/pricemanager-backend/pkg/auth"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// RequireAdmin guards the price management surface. A non-admin actor gets
// the security check rejection, which aborts uploads before any file is read.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != string(pkgAuth.RoleAdmin) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeSecurityCheck, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
