package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrBadSignature is returned when a session cookie value fails verification.
var ErrBadSignature = errors.New("auth: bad cookie signature")

// Signer issues and verifies tamper-evident session cookie values. The value
// is base64(token) plus an HMAC-SHA256 signature over that payload.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer keyed with secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign produces a cookie value wrapping a portal access token.
func (s *Signer) Sign(token string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(token))
	return payload + "." + s.signature(payload)
}

// Verify checks a cookie value and returns the wrapped token.
func (s *Signer) Verify(value string) (string, error) {
	payload, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", ErrBadSignature
	}
	if !hmac.Equal([]byte(s.signature(payload)), []byte(sig)) {
		return "", ErrBadSignature
	}
	token, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadSignature
	}
	return string(token), nil
}

func (s *Signer) signature(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
