/*
Package gate implements the per-request session refresh gate.

Every inbound page request passes through it: a fresh auth service client is
bound to the request's cookies, the service validates (and refreshes) the
session, the path is classified against the route table, and the request is
either redirected or passed through with the claims in context. Set-Cookie
instructions from the service are propagated on both paths.
*/
package gate

import (
	"context"
	"net/http"

	"lumeo/internal/app/authsvc"
	"lumeo/internal/configs"
	"lumeo/internal/pkg/logx"
	"lumeo/internal/routes"
)

type contextKey string

// claimsContextKey stores the validated *authsvc.Claims in the request context.
const claimsContextKey contextKey = "auth_claims"

// ClaimsFromContext extracts the authenticated claims from the request context.
// A nil return means the request is unauthenticated.
func ClaimsFromContext(r *http.Request) *authsvc.Claims {
	claims, ok := r.Context().Value(claimsContextKey).(*authsvc.Claims)
	if !ok {
		return nil
	}
	return claims
}

// NewRequestClient constructs an auth service client bound to the request's
// cookies, using the application's backend configuration.
func NewRequestClient(cfg *configs.AppConfig, r *http.Request) *authsvc.Client {
	return authsvc.New(authsvc.Config{
		BaseURL: cfg.BackendURL,
		AnonKey: cfg.BackendAnonKey,
	}, r.Cookies())
}

// propagateCookies copies the auth service's Set-Cookie instructions onto the
// outgoing response. Dropping them desynchronizes browser and server sessions
// and causes logout loops.
func propagateCookies(w http.ResponseWriter, client *authsvc.Client) {
	for _, setCookie := range client.SetCookies() {
		w.Header().Add("Set-Cookie", setCookie)
	}
}

// Middleware returns the session refresh gate. Backend configuration is
// validated at startup; an empty value here means the process is misconfigured
// and the gate fails closed.
func Middleware(cfg *configs.AppConfig) func(next http.Handler) http.Handler {
	if cfg.BackendURL == "" || cfg.BackendAnonKey == "" {
		panic("gate: backend URL and anon key are required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := NewRequestClient(cfg, r)

			// The claims call must come first and must never be skipped:
			// it is what refreshes the session server-side. Skipping or
			// reordering it causes silent session expiry.
			claims, err := client.Claims(r.Context())
			if err != nil {
				logx.Warn("Session validation failed, treating as unauthenticated", "error", err.Error())
				claims = nil
			}

			propagateCookies(w, client)

			currentPath := r.URL.Path
			isAuthRoute := routes.PathInCategory(routes.Auth, currentPath)
			isProtectedRoute := routes.PathInCategory(routes.Protected, currentPath)

			// Authenticated users have no business on auth screens.
			if claims != nil && isAuthRoute {
				http.Redirect(w, r, routes.FirstProtected().Path, http.StatusTemporaryRedirect)
				return
			}

			// Unauthenticated users are sent to login for protected paths.
			if claims == nil && isProtectedRoute {
				http.Redirect(w, r, routes.LoginRoute(), http.StatusTemporaryRedirect)
				return
			}

			ctx := r.Context()
			if claims != nil {
				ctx = context.WithValue(ctx, claimsContextKey, claims)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
