/*
Package randx provides functions for generating cryptographically secure random values.

It is primarily used to generate per-request CSP nonces and unique subscriber tokens.
*/
package randx

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// NonceByteLength is the number of random bytes in a CSP nonce before encoding.
const NonceByteLength = 16

// Nonce generates a fresh CSP nonce: 16 bytes from crypto/rand, base64-encoded.
// Each nonce authorizes inline script execution for exactly one response and
// must never be reused or logged.
func Nonce() (string, error) {
	buf := make([]byte, NonceByteLength)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// SubscriberToken generates a UUID v4 string identifying a state-store subscription.
func SubscriberToken() string {
	return uuid.New().String()
}
