/*
Package authsvc is the HTTP client for the hosted auth platform.

A Client is constructed per request, bound to that request's cookies, and talks
to the service's REST endpoints: session validation/refresh, OTP issuance and
verification, and OAuth/PKCE code exchange. Set-Cookie instructions issued by
the service are captured so callers can propagate them onto the outgoing
response; losing them causes logout loops.
*/
package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lumeo/internal/pkg/logx"
)

const (
	// VerifyOTPTimeout bounds the OTP verification call. No other call in this
	// client carries a timeout; verification is the only one a user actively
	// waits on with a code in hand.
	VerifyOTPTimeout = 10 * time.Second

	anonKeyHeader = "apikey"
)

// ErrVerifyTimeout reports that OTP verification exceeded VerifyOTPTimeout.
// Callers distinguish it from a rejected code.
var ErrVerifyTimeout = errors.New("authsvc: OTP verification timed out")

// Config carries the connection settings for the hosted auth service.
type Config struct {
	// BaseURL is the root URL of the hosted platform.
	BaseURL string

	// AnonKey is the public (anonymous) API key sent with every call.
	AnonKey string

	// HTTPClient overrides the transport, mainly for tests. Defaults to a
	// plain http.Client.
	HTTPClient *http.Client
}

// Client is a request-scoped handle on the auth service. It is not safe for
// concurrent use; construct one per inbound request.
type Client struct {
	cfg        Config
	httpClient *http.Client

	// cookies are the inbound request's cookies, forwarded on every call so
	// the service can validate and refresh the session they carry.
	cookies []*http.Cookie

	// setCookies accumulates raw Set-Cookie header values issued by the
	// service across calls made through this client.
	setCookies []string
}

// New constructs a Client bound to the given request cookies.
func New(cfg Config, cookies []*http.Cookie) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		cookies:    cookies,
	}
}

// SetCookies returns the raw Set-Cookie header values captured so far, in the
// order the service issued them.
func (c *Client) SetCookies() []string {
	return c.setCookies
}

// do sends the request with the anon key and session cookies attached, records
// any Set-Cookie instructions from the response, and returns it unread.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set(anonKeyHeader, c.cfg.AnonKey)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.setCookies = append(c.setCookies, res.Header.Values("Set-Cookie")...)

	return res, nil
}

// Claims asks the service to validate (and, if needed, refresh) the session the
// bound cookies carry. A nil Claims with nil error means no valid session.
//
// This call must not be skipped even when the result goes unused: it is what
// triggers server-side refresh, and skipping it causes silent session expiry.
func (c *Client) Claims(ctx context.Context) (*Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("authsvc: build claims request: %w", err)
	}

	res, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("authsvc: claims request failed: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		var claims Claims
		if err := json.NewDecoder(res.Body).Decode(&claims); err != nil {
			return nil, fmt.Errorf("authsvc: decode claims: %w", err)
		}
		if claims.Subject == "" {
			return nil, nil
		}
		return &claims, nil
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		// No session, or one the service declined to refresh.
		return nil, nil
	default:
		return nil, fmt.Errorf("authsvc: claims request returned status %d", res.StatusCode)
	}
}

// serviceError extracts the display message from an auth service error body.
func serviceError(body io.Reader, status int) error {
	var payload struct {
		Msg         string `json:"msg"`
		Description string `json:"error_description"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Msg != "" {
			return errors.New(payload.Msg)
		}
		if payload.Description != "" {
			return errors.New(payload.Description)
		}
	}
	return fmt.Errorf("auth service returned status %d", status)
}

// RequestOTP asks the service to email a one-time password to the address,
// creating the user on first sign-in. redirectTo is where the emailed magic
// link lands.
func (c *Client) RequestOTP(ctx context.Context, email, redirectTo string) error {
	body, err := json.Marshal(map[string]any{
		"email":       email,
		"create_user": true,
		"redirect_to": redirectTo,
	})
	if err != nil {
		return fmt.Errorf("authsvc: encode OTP request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/v1/otp", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("authsvc: build OTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		return fmt.Errorf("authsvc: OTP request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return serviceError(res.Body, res.StatusCode)
	}

	return nil
}

// VerifyOTP exchanges an emailed one-time password for a session. The call is
// bounded by VerifyOTPTimeout; on expiry ErrVerifyTimeout is returned so the
// caller can surface a distinguishable timeout error.
func (c *Client) VerifyOTP(ctx context.Context, email, token string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, VerifyOTPTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"type":  "email",
		"email": email,
		"token": token,
	})
	if err != nil {
		return nil, fmt.Errorf("authsvc: encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/v1/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("authsvc: build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrVerifyTimeout
		}
		return nil, fmt.Errorf("authsvc: verify request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, serviceError(res.Body, res.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("authsvc: decode session: %w", err)
	}

	return &session, nil
}

// ExchangeCode trades an OAuth/PKCE authorization code for a session. The
// session lands in Set-Cookie instructions the caller must propagate.
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	body, err := json.Marshal(map[string]string{
		"auth_code": code,
	})
	if err != nil {
		return fmt.Errorf("authsvc: encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/v1/token?grant_type=pkce", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("authsvc: build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		return fmt.Errorf("authsvc: exchange request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err := serviceError(res.Body, res.StatusCode)
		logx.Warn("Auth code exchange rejected", "status", res.StatusCode, "error", err.Error())
		return err
	}

	return nil
}
