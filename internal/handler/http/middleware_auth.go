// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, authorization, rate limiting, logging
// and tracing concerns are all handled at this layer before requests are
// forwarded to the service layer.
package http

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/service"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It extracts the token from the "Authorization" header, authenticates it
// via [service.AuthService.Authenticate] (which also re-checks that the
// owner is still active), and on success stores the resulting
// [models.AuthUser] in the request context under [utils.AuthUserCtxKey].
//
// Every credential rejection (missing or malformed header, bad signature,
// expiry, deactivated owner) produces the same 401 body, so the response
// never reveals which check failed. The specific cause is logged. A store
// failure during the owner re-fetch is reported as 500 instead; the token
// may well be valid and the client should retry, not discard it.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			h.unauthorized(w)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			h.unauthorized(w)
			return
		}

		ctx := r.Context()
		authUser, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			// A store outage while re-fetching the token's owner is not a
			// credential failure; it must not tell the client its token is bad.
			if !errors.Is(err, service.ErrTokenIsExpiredOrInvalid) {
				h.handleError(w, r, err)
				return
			}

			log.Err(err).Msg("token authentication failed")
			h.unauthorized(w)
			return
		}

		ctx = context.WithValue(ctx, utils.AuthUserCtxKey, authUser)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route on a closed set of roles. Roles are flat: an
// ADMIN is not implicitly allowed through an ENFORCER-only route, and vice
// versa. Missing identity reads as 401; a known identity with the wrong role
// as 403.
func (h *Handler) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			authUser, ok := utils.GetAuthUserFromContext(r.Context())
			if !ok {
				log.Error().Msg("no authenticated identity in context")
				h.unauthorized(w)
				return
			}

			if !slices.Contains(roles, authUser.Role) {
				log.Warn().
					Int64("id", authUser.UserID).
					Str("role", string(authUser.Role)).
					Msg("role not allowed for route")
				utils.WriteMessage(w, "insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// unauthorized writes the uniform bearer-token failure body.
func (h *Handler) unauthorized(w http.ResponseWriter) {
	utils.WriteMessage(w, service.ErrTokenIsExpiredOrInvalid.Error(), http.StatusUnauthorized)
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the standard "<scheme> <token>" form.
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] if the header contains fewer than
//     two space-separated parts, i.e. the token is missing entirely.
//   - [ErrEmptyToken] if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
