/*
Package resp provides helper functions for constructing and sending standardized HTTP JSON responses.

The action API speaks a two-shape envelope: {"message": ..., "data": ...} on success
and {"error": ...} on failure. All JSON responses are sent with no-store cache headers
since every payload is session-scoped.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"lumeo/internal/pkg/errs"
	"lumeo/internal/pkg/logx"
)

// SuccessEnvelope is the JSON body returned by action endpoints on success.
type SuccessEnvelope struct {
	// Message is the client-friendly status description.
	Message string `json:"message"`

	// Data is the response payload. It is serialized even when nil so callers
	// can distinguish "no data" results (e.g. nothing to delete).
	Data any `json:"data"`
}

// ErrorEnvelope is the JSON body returned by action endpoints on failure.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// NoStore sets cache headers preventing any intermediary or browser caching.
func NoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
}

// RespondJSON is a generic response function used to set the Content-Type and send the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	NoStore(w)

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends a successful HTTP response (HTTP 200 OK) with the standard envelope.
func RespondSuccess(w http.ResponseWriter, r *http.Request, message string, data any) {
	RespondJSON(w, r, http.StatusOK, SuccessEnvelope{
		Message: message,
		Data:    data,
	})
}

// RespondError sends an HTTP response containing custom error information.
// The status code comes from the error; the body carries only the display message.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, ErrorEnvelope{Error: customErr.Message})
}
