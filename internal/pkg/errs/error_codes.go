/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1002

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1004

	// ErrInvalidAction indicates that the submitted profile action tag is not recognized.
	ErrInvalidAction = 1005

	// ErrInvalidOrigin indicates that the Origin/Referer host did not match the request host.
	ErrInvalidOrigin = 1006
)

// 2xxx: Profile and Input Validation Errors
const (
	// ErrNoFieldsToUpdate indicates a profile update where every field was empty after trimming.
	ErrNoFieldsToUpdate = 2001

	// ErrUsernameTaken indicates a username uniqueness conflict.
	ErrUsernameTaken = 2002

	// ErrProfileNotFound indicates that no profile row exists for the authenticated user.
	ErrProfileNotFound = 2003

	// ErrNoFileProvided indicates an avatar upload without a file part.
	ErrNoFileProvided = 2101

	// ErrFileTooLarge indicates an avatar upload exceeding the size limit.
	ErrFileTooLarge = 2102

	// ErrMimeNotAllowed indicates an avatar upload with a disallowed declared MIME type.
	ErrMimeNotAllowed = 2103

	// ErrBadExtension indicates an avatar upload with a disallowed file extension.
	ErrBadExtension = 2104

	// ErrInvalidImage indicates an avatar upload whose content failed magic-byte validation.
	ErrInvalidImage = 2105
)

// 3xxx: Session and Security Errors
const (
	// ErrUnauthenticated indicates a mutation attempted without a valid session.
	ErrUnauthenticated = 3001

	// ErrAuthRequired indicates a read attempted without a valid session.
	ErrAuthRequired = 3002

	// ErrOTPTimeout indicates that OTP verification against the auth service timed out.
	ErrOTPTimeout = 3003

	// ErrOTPRejected indicates that the auth service rejected the submitted OTP.
	ErrOTPRejected = 3004
)

// 4xxx: Storage Errors
const (
	// ErrStorageFailed indicates a failed write to the avatar bucket.
	ErrStorageFailed = 4001

	// ErrStorageDeleteFailed indicates a failed delete from the avatar bucket.
	ErrStorageDeleteFailed = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrDatabase indicates a database failure while reading or writing profile rows.
	ErrDatabase = 5001

	// ErrUnhandledAction indicates a recognized action tag that no dispatch arm handled.
	ErrUnhandledAction = 5002
)
