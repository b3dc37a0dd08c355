/*
Package handler provides the HTTP handlers and routing setup for the Lumeo web server.

This file contains the auth confirmation endpoints: OAuth/PKCE code exchange on
GET and OTP verification on POST, plus the OTP request endpoint backing the
login form. All of them only relay to the hosted auth service; no credential
is ever validated locally.
*/
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"lumeo/internal/app/authsvc"
	"lumeo/internal/pkg/errs"
	"lumeo/internal/pkg/gate"
	"lumeo/internal/pkg/req"
	"lumeo/internal/pkg/resp"
	"lumeo/internal/routes"
)

// authErrorRedirect points the browser at the auth error page with a display message.
func authErrorRedirect(w http.ResponseWriter, r *http.Request, message string) {
	target := "/auth/error?error=" + url.QueryEscape(message)
	http.Redirect(w, r, target, http.StatusFound)
}

// safeNextPath accepts only same-site absolute paths as post-login targets,
// falling back to the first protected route.
func safeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return routes.FirstProtected().Path
	}
	return next
}

// HandleConfirmCode exchanges an OAuth/OTP confirmation code for a session and
// redirects to the next page. The session lands in cookies the auth service
// issues during the exchange.
func HandleConfirmCode(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		next := safeNextPath(r.URL.Query().Get("next"))

		if code != "" {
			client := gate.NewRequestClient(deps.Config, r)
			err := client.ExchangeCode(r.Context(), code)

			for _, setCookie := range client.SetCookies() {
				w.Header().Add("Set-Cookie", setCookie)
			}

			if err == nil {
				http.Redirect(w, r, next, http.StatusFound)
				return
			}
		}

		authErrorRedirect(w, r, "No token hash or type")
	}
}

// HandleVerifyOTP verifies an emailed one-time password against the auth
// service. The upstream call is bounded by the client's 10 second timeout,
// surfaced as a distinguishable error.
func HandleVerifyOTP(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupForm(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
		otp := strings.TrimSpace(r.FormValue("otp"))
		if email == "" || otp == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		client := gate.NewRequestClient(deps.Config, r)
		session, err := client.VerifyOTP(r.Context(), email, otp)

		for _, setCookie := range client.SetCookies() {
			w.Header().Add("Set-Cookie", setCookie)
		}

		if err != nil {
			if errors.Is(err, authsvc.ErrVerifyTimeout) {
				resp.RespondError(w, r, errs.NewError(errs.ErrOTPTimeout))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrOTPRejected, err.Error()))
			return
		}

		resp.RespondJSON(w, r, http.StatusOK, map[string]any{"data": session})
	}
}

// HandleRequestOTP asks the auth service to email a one-time password,
// creating the user on first sign-in. The emailed magic link lands on the
// confirmation endpoint.
func HandleRequestOTP(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupForm(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
		if email == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		client := gate.NewRequestClient(deps.Config, r)
		err := client.RequestOTP(r.Context(), email, absoluteURL(deps.Config, "/auth/confirm"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrOTPRejected, err.Error()))
			return
		}

		resp.RespondSuccess(w, r, "Check your email for a sign-in code", nil)
	}
}
