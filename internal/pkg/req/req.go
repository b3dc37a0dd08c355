/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates the logic for parsing multipart and URL-encoded form data with
size constraints, and the same-origin check applied to state-changing form posts.
*/
package req

import (
	"net/http"
	"net/url"
	"strings"

	"lumeo/internal/pkg/errs"
)

const (
	// MaxFormMemory defines the maximum amount of memory (32 MB) ParseMultipartForm
	// will use to store non-file fields. File fields exceeding this limit are stored in temporary files.
	MaxFormMemory int64 = 32 << 20 // 32 MB

	// MaxRequestFileSize defines the maximum allowed size (8 MB) for the entire request body,
	// including files. Enforced via http.MaxBytesReader; the per-file avatar limit is
	// checked separately and produces a friendlier error.
	MaxRequestFileSize int64 = 8 << 20 // 8 MB
)

// SetupForm parses multipart or URL-encoded form data from the HTTP request,
// capping the total body size.
func SetupForm(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestFileSize)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxFormMemory); err != nil {
			if strings.Contains(err.Error(), "request body too large") {
				return errs.NewError(errs.ErrRequestEntityTooLarge)
			}
			return errs.NewError(errs.ErrFormParseFailed)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

// requestHost returns the host the client addressed, preferring the
// X-Forwarded-Host header set by a fronting proxy.
func requestHost(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		return forwarded
	}
	return r.Host
}

// CheckSameOrigin verifies that the Origin (or, failing that, Referer) host
// matches the request host. A missing Origin and Referer passes: browsers always
// send Origin on cross-site form posts, and non-browser clients carry session
// cookies only if same-site anyway. An unparsable value is treated as invalid.
func CheckSameOrigin(r *http.Request) *errs.CustomError {
	originOrRef := r.Header.Get("Origin")
	if originOrRef == "" {
		originOrRef = r.Header.Get("Referer")
	}

	host := requestHost(r)
	if originOrRef == "" || host == "" {
		return nil
	}

	parsed, err := url.Parse(originOrRef)
	if err != nil || parsed.Host == "" {
		return errs.NewError(errs.ErrInvalidOrigin)
	}

	if parsed.Host != host {
		return errs.NewError(errs.ErrInvalidOrigin)
	}

	return nil
}
