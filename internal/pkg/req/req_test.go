package req

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumeo/internal/pkg/errs"
)

func TestCheckSameOrigin(t *testing.T) {
	tests := []struct {
		name          string
		host          string
		forwardedHost string
		origin        string
		referer       string
		wantErrCode   int
	}{
		{
			name:   "matching origin passes",
			host:   "app.example.com",
			origin: "https://app.example.com",
		},
		{
			name:        "mismatched origin rejected",
			host:        "app.example.com",
			origin:      "https://evil.example.com",
			wantErrCode: errs.ErrInvalidOrigin,
		},
		{
			name:    "referer used when origin absent",
			host:    "app.example.com",
			referer: "https://app.example.com/profile",
		},
		{
			name:        "mismatched referer rejected",
			host:        "app.example.com",
			referer:     "https://evil.example.com/profile",
			wantErrCode: errs.ErrInvalidOrigin,
		},
		{
			name:   "origin takes precedence over referer",
			host:   "app.example.com",
			origin: "https://app.example.com",
			// A mismatched Referer is ignored when Origin matches.
			referer: "https://evil.example.com/",
		},
		{
			name: "both absent passes",
			host: "app.example.com",
		},
		{
			name:        "unparsable origin rejected",
			host:        "app.example.com",
			origin:      "not a url",
			wantErrCode: errs.ErrInvalidOrigin,
		},
		{
			name:          "forwarded host preferred",
			host:          "internal:8080",
			forwardedHost: "app.example.com",
			origin:        "https://app.example.com",
		},
		{
			name:          "forwarded host mismatch rejected",
			host:          "app.example.com",
			forwardedHost: "other.example.com",
			origin:        "https://app.example.com",
			wantErrCode:   errs.ErrInvalidOrigin,
		},
		{
			name:        "port difference is a mismatch",
			host:        "app.example.com",
			origin:      "https://app.example.com:8443",
			wantErrCode: errs.ErrInvalidOrigin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/profile/update-profile", nil)
			r.Host = tt.host
			if tt.forwardedHost != "" {
				r.Header.Set("X-Forwarded-Host", tt.forwardedHost)
			}
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}

			customErr := CheckSameOrigin(r)

			if tt.wantErrCode == 0 {
				assert.Nil(t, customErr)
				return
			}
			require.NotNil(t, customErr)
			assert.Equal(t, tt.wantErrCode, customErr.Code)
			assert.Equal(t, http.StatusForbidden, customErr.Status)
			assert.Equal(t, "Invalid origin", customErr.Message)
		})
	}
}

func TestSetupFormURLEncoded(t *testing.T) {
	body := strings.NewReader("action=updateProfile&name=Test")
	r := httptest.NewRequest(http.MethodPost, "/profile/update-profile", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	customErr := SetupForm(w, r)
	require.Nil(t, customErr)
	assert.Equal(t, "updateProfile", r.FormValue("action"))
	assert.Equal(t, "Test", r.FormValue("name"))
}

func TestSetupFormBodyTooLarge(t *testing.T) {
	huge := strings.NewReader("data=" + strings.Repeat("x", int(MaxRequestFileSize)+1024))
	r := httptest.NewRequest(http.MethodPost, "/profile/update-profile", huge)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	customErr := SetupForm(w, r)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrRequestEntityTooLarge, customErr.Code)
}
