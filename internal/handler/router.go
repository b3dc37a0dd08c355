/*
Package handler provides the HTTP handlers and routing setup for the Lumeo web server.

This file defines the main Router, applying middleware like logging, CORS, the
security header injector, the session refresh gate, and IP-based rate limiting
before delegating requests to the page and API handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"lumeo/internal/pkg/csp"
	"lumeo/internal/pkg/gate"
	"lumeo/internal/pkg/limiter"
	"lumeo/internal/pkg/logx"
	"lumeo/internal/pkg/resp"
)

const (
	ProfileWriteRate  = 0.5
	ProfileWriteBurst = 5
	AuthRate          = 0.2
	AuthBurst         = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global
// and per-route middleware. Every page and profile API route passes through the
// security header injector and then the session refresh gate, in that order, so
// gate redirects carry the CSP header.
func Router(deps *AppDeps) http.Handler {
	profileWriteLimiter := limiter.NewIPRateLimiter(rate.Limit(ProfileWriteRate), ProfileWriteBurst)
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{csp.NonceHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Lumeo",
		}
		resp.RespondSuccess(w, r, "Service healthy", data)
	})

	r.Get("/robots.txt", HandleRobots(deps))
	r.Get("/sitemap.xml", HandleSitemap(deps))

	r.Handle("/static/*", staticHandler())

	r.Group(func(g chi.Router) {
		g.Use(csp.Middleware(deps.Config))
		g.Use(gate.Middleware(deps.Config))

		g.Get("/", HandleHome(deps))

		g.Get("/docs", HandleDocsIndex(deps))
		g.Get("/docs/{slug}", HandleDocPage(deps))

		g.Get("/customers/{slug}", HandleCustomerPage(deps))

		g.Get("/auth/login", HandleLoginPage(deps))
		g.With(authLimiter.Middleware).Post("/auth/login", HandleRequestOTP(deps))

		g.Get("/auth/confirm", HandleConfirmCode(deps))
		g.With(authLimiter.Middleware).Post("/auth/confirm", HandleVerifyOTP(deps))

		g.Get("/auth/error", HandleAuthErrorPage(deps))

		g.Get("/profile", HandleProfilePage(deps))
		g.Get("/profile/get-profile", HandleGetProfile(deps))
		g.With(profileWriteLimiter.Middleware).Post("/profile/update-profile", HandleUpdateProfile(deps))
	})

	// Unmatched paths get the rendered 404 page with security headers applied.
	notFound := csp.Middleware(deps.Config)(HandleNotFound(deps))
	r.NotFound(notFound.ServeHTTP)

	return r
}
