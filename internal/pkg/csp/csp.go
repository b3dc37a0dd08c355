/*
Package csp injects the per-request Content-Security-Policy header and nonce.

A fresh 16-byte nonce is generated for every request, interpolated into the
script-src clause, forwarded as the X-Nonce request header, and stored in the
request context so server-rendered templates can stamp matching nonce
attributes onto the inline scripts they emit. Nonces are never reused and
never logged.
*/
package csp

import (
	"context"
	"net/http"
	"strings"

	"lumeo/internal/configs"
	"lumeo/internal/pkg/logx"
	"lumeo/internal/pkg/randx"
)

// NonceHeader carries the nonce to downstream rendering.
const NonceHeader = "X-Nonce"

type contextKey string

const nonceContextKey contextKey = "csp_nonce"

// NonceFromContext returns the request's CSP nonce, or "" when the middleware
// did not run.
func NonceFromContext(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceContextKey).(string)
	return nonce
}

// BuildHeader assembles the CSP header value around the nonce. The backend
// origin clauses are added only when an origin is configured. unsafeEval
// appends 'unsafe-eval' to script-src for local development tooling and must
// be off in production builds.
func BuildHeader(nonce, backendOrigin, backendHost string, unsafeEval bool) string {
	scriptSrc := "script-src 'strict-dynamic' 'nonce-" + nonce + "'"
	if unsafeEval {
		scriptSrc += " 'unsafe-eval'"
	}

	imgSrc := "img-src 'self' blob: data:"
	if backendOrigin != "" {
		imgSrc += " " + backendOrigin
	}

	connectSrc := "connect-src 'self'"
	if backendOrigin != "" {
		connectSrc += " " + backendOrigin + " wss://" + backendHost
	}

	directives := []string{
		"default-src 'self'",
		scriptSrc,
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
		imgSrc,
		"font-src 'self'",
		connectSrc,
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"upgrade-insecure-requests",
	}

	return strings.Join(directives, "; ") + ";"
}

// Middleware returns the security header injector. It must wrap the session
// gate: headers are written before the gate runs, so a gate redirect carries
// the CSP header and nonce without a response rebuild that would drop its
// Location header.
func Middleware(cfg *configs.AppConfig) func(next http.Handler) http.Handler {
	backendOrigin := cfg.BackendOrigin()
	backendHost := cfg.BackendHost()
	unsafeEval := !cfg.IsProduction()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce, err := randx.Nonce()
			if err != nil {
				// Without a nonce no inline script can be authorized; fail
				// the request rather than serving without a policy.
				logx.Error(err, "CSP nonce generation failed")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			header := BuildHeader(nonce, backendOrigin, backendHost, unsafeEval)

			w.Header().Set("Content-Security-Policy", header)
			w.Header().Set(NonceHeader, nonce)

			// Forward the nonce on the request as well so downstream
			// rendering can emit matching nonce attributes.
			r.Header.Set(NonceHeader, nonce)
			ctx := context.WithValue(r.Context(), nonceContextKey, nonce)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
