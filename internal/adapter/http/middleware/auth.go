package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"fleetmaster/internal/domain/models"
	wrap "fleetmaster/pkg/logger/wrapper"
)

// --- base auth middleware ---

// Auth resolves the bearer token into an identity and injects it into
// the request context. The Authorization header wins; without it the
// token is read from the access cookies (owner first, then driver).
// A missing token is an anonymous request, not a 401; protected
// endpoints reject anonymous identities in their gates.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := requestToken(r)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		identity, err := h.identity.Resolve(ctx, token)
		if err != nil {
			h.log.Error(wrap.ErrorCtx(ctx, err), "failed to authenticate request", err)
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		switch identity.Kind {
		case models.IdentityOwner:
			ctx = wrap.WithProfileID(ctx, identity.ProfileID().String())
		case models.IdentityDriver:
			ctx = wrap.WithDriverID(ctx, identity.DriverID().String())
		}

		next.ServeHTTP(w, r.WithContext(models.WithIdentity(ctx, identity)))
	})
}

// RequireOwner allows only requests resolved to an owner identity.
func (h *Middleware) RequireOwner(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := models.IdentityFromContext(r.Context())
		if identity.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if identity.Kind != models.IdentityOwner {
			errorResponse(w, http.StatusForbidden, "owner access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireDriver allows only requests resolved to a driver identity.
func (h *Middleware) RequireDriver(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := models.IdentityFromContext(r.Context())
		if identity.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if identity.Kind != models.IdentityDriver {
			errorResponse(w, http.StatusForbidden, "driver access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestToken extracts the bearer token from the Authorization header,
// falling back to the access cookies. Empty means anonymous.
func requestToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		return extractBearerToken(header)
	}

	for _, name := range []string{"access", "driver_access"} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	return "", nil
}

// --- header parser ---
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
