/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling. Messages are client-facing and are returned
verbatim in the response envelope.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process submitted data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrInvalidAction:         {Code: ErrInvalidAction, Message: "Invalid action", Status: http.StatusBadRequest},
	ErrInvalidOrigin:         {Code: ErrInvalidOrigin, Message: "Invalid origin", Status: http.StatusForbidden},

	// 2xxx: Profile and Input Validation Errors
	ErrNoFieldsToUpdate: {Code: ErrNoFieldsToUpdate, Message: "No fields to update", Status: http.StatusBadRequest},
	ErrUsernameTaken:    {Code: ErrUsernameTaken, Message: "Username already taken", Status: http.StatusBadRequest},
	ErrProfileNotFound:  {Code: ErrProfileNotFound, Message: "Profile not found", Status: http.StatusNotFound},
	ErrNoFileProvided:   {Code: ErrNoFileProvided, Message: "No file provided", Status: http.StatusBadRequest},
	ErrFileTooLarge:     {Code: ErrFileTooLarge, Message: "File size must be less than 5MB", Status: http.StatusBadRequest},
	ErrMimeNotAllowed:   {Code: ErrMimeNotAllowed, Message: "Only JPEG, PNG, GIF, and WebP images are allowed", Status: http.StatusBadRequest},
	ErrBadExtension:     {Code: ErrBadExtension, Message: "Invalid file extension", Status: http.StatusBadRequest},
	ErrInvalidImage:     {Code: ErrInvalidImage, Message: "Invalid image file", Status: http.StatusBadRequest},

	// 3xxx: Session and Security Errors
	ErrUnauthenticated: {Code: ErrUnauthenticated, Message: "Not authenticated", Status: http.StatusUnauthorized},
	ErrAuthRequired:    {Code: ErrAuthRequired, Message: "Authentication required", Status: http.StatusUnauthorized},
	ErrOTPTimeout:      {Code: ErrOTPTimeout, Message: "Verification timed out. Please try again.", Status: http.StatusBadRequest},
	ErrOTPRejected:     {Code: ErrOTPRejected, Message: "Verification failed: %s", Status: http.StatusBadRequest},

	// 4xxx: Storage Errors
	ErrStorageFailed:       {Code: ErrStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusBadRequest},
	ErrStorageDeleteFailed: {Code: ErrStorageDeleteFailed, Message: "Failed to delete file. Please try again.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown:         {Code: ErrUnknown, Message: "Internal server error", Status: http.StatusInternalServerError},
	ErrDatabase:        {Code: ErrDatabase, Message: "Internal server error", Status: http.StatusInternalServerError},
	ErrUnhandledAction: {Code: ErrUnhandledAction, Message: "Unhandled action", Status: http.StatusInternalServerError},
}
