package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"roombook/config"
	"roombook/infras/jwt"
	"roombook/infras/otel"
	"roombook/permissions"
	"roombook/shared/constant"
	"roombook/shared/failure"
	"roombook/transport/http/response"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// trustedCallerKey marks a request that presented the service API key.
type trustedCallerKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRole struct {
	verifier jwt.JWT
	otel     otel.Otel
	rules    *permissions.PermissionData
	apiKey   []byte
}

// NewAuthRoleMiddleware guards the booking API. A nil rule set denies every
// route that is not reached through the API key.
func NewAuthRoleMiddleware(verifier jwt.JWT, otel otel.Otel, rules *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRole{
		verifier: verifier,
		otel:     otel,
		rules:    rules,
		apiKey:   []byte(cfg.App.APIKey),
	}
}

func trusted(ctx context.Context) bool {
	ok, _ := ctx.Value(trustedCallerKey{}).(bool)

	return ok
}

// APIKey lets internal jobs and services act as the system role. Requests
// without the header fall through to bearer authentication.
func (m *authRole) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			next.ServeHTTP(w, r)

			return
		}

		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "middleware.APIKey")
		defer scope.End()

		if len(m.apiKey) == 0 || subtle.ConstantTimeCompare([]byte(key), m.apiKey) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(w, failure.ForbiddenError)

			return
		}

		ctx := context.WithValue(r.Context(), trustedCallerKey{}, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.RoleSystem)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleSystem)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth resolves the bearer token into the caller's id and role. Routes marked
// skip in the rule set are public.
func (m *authRole) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pattern := routePattern(r)

		if trusted(r.Context()) || (m.rules != nil && m.rules.FindPermissions(pattern, r.Method).Skip) {
			next.ServeHTTP(w, r)

			return
		}

		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "middleware.Auth")
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"http.route":  pattern,
			"http.method": r.Method,
		})

		token, err := jwt.BearerToken(r.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			m.reject(w, scope, failure.Unauthorized("Missing or malformed bearer token"))

			return
		}

		claims, err := m.verifier.ValidateToken(token, jwt.AccessToken)
		if err != nil {
			log.Debug().Err(err).Str("route", pattern).Msg("bearer token rejected")

			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token has expired"
			}

			m.reject(w, scope, failure.Unauthorized(message))

			return
		}

		ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RBAC admits the caller when its role is listed for the route. Routes with no
// listed roles are open to any authenticated caller.
func (m *authRole) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rules == nil {
			response.WithError(w, failure.ForbiddenError)

			return
		}

		rule := m.rules.FindPermissions(routePattern(r), r.Method)
		if m.rules.Skip || rule.Skip || len(rule.Permissions) == 0 {
			next.ServeHTTP(w, r)

			return
		}

		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		if slices.Contains(rule.Permissions, role) {
			next.ServeHTTP(w, r)

			return
		}

		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "middleware.RBAC")
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"user.role":     role,
			"allowed_roles": rule.Permissions,
		})

		m.reject(w, scope, failure.ForbiddenError)
	})
}

func (m *authRole) reject(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(w, err)
}

// routePattern resolves the chi pattern a request will hit, e.g. "/v1/bookings/{id}".
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path); pattern != "" {
		return pattern
	}

	return r.URL.Path
}
