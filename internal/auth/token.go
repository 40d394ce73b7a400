package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Codec derives and verifies the site authentication token. The token is a
// keyed hash of the current password, so verification is "recompute and
// compare" rather than a session lookup: no server-side state exists.
type Codec struct {
	secret   string
	password string
}

// NewCodec creates a Codec signing with secret and verifying against the
// configured site password.
func NewCodec(secret, password string) *Codec {
	return &Codec{
		secret:   secret,
		password: password,
	}
}

// Sign returns the hex-encoded HMAC-SHA256 of password under the shared
// secret. Deterministic: the same inputs always produce the same token.
func (c *Codec) Sign(password string) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether candidate matches the token for the configured site
// password. Fails closed: always false when no password is configured.
func (c *Codec) Verify(candidate string) bool {
	if c.password == "" {
		return false
	}
	expected := c.Sign(c.password)
	return hmac.Equal([]byte(expected), []byte(candidate))
}
