package authsvc

// Claims is the validated identity payload returned by the hosted auth service.
// The session tokens themselves stay opaque: this application never parses or
// stores token internals, only what the service reports about the caller.
type Claims struct {
	// Subject is the opaque user identifier assigned by the auth service.
	Subject string `json:"id"`

	// Email is the address the session was established with, when known.
	Email string `json:"email,omitempty"`
}

// Session is the token pair issued by the auth service after OTP verification.
// It is passed through to the client verbatim and never inspected.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}
