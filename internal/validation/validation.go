// Package validation provides functionality for validating webhook signatures to verify request authenticity.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/pkg/errors"
)

const (
	// SignatureHeader is the (lower-cased) header carrying the payload signature.
	SignatureHeader = "ms-signature"
	// SignatureKey is the only supported signature algorithm token.
	SignatureKey = "sha256"
)

var (
	ErrMissingSecret     = errors.New("missing webhook secret")
	ErrMalformedHeader   = errors.New("malformed signature header")
	ErrInvalidEncoding   = errors.New("invalid signature encoding")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Secret represents a secret used to validate webhook signatures for verifying request authenticity.
type Secret string

// NewSecret creates a new Secret instance from the provided secret string and returns its address.
func NewSecret(secret string) *Secret {
	s := Secret(secret)
	return &s
}

// ParseSignature splits a `sha256=<hex>` header value and returns the decoded digest.
// Parts are trimmed and empty parts are ignored, so `sha256 = <hex>` is accepted.
func ParseSignature(value string) ([]byte, error) {
	var parts []string
	for _, p := range strings.Split(value, "=") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) != 2 || !strings.EqualFold(parts[0], SignatureKey) {
		return nil, errors.Wrapf(ErrMalformedHeader, "expecting a value of '%s=<value>'", SignatureKey)
	}

	digest, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidEncoding, err.Error())
	}
	return digest, nil
}

// ValidateSignature validates the HMAC-SHA256 signature value of a webhook request against its body.
// The digest comparison runs in constant time.
func (s *Secret) ValidateSignature(body []byte, signature string) error {
	if s == nil || *s == "" {
		return ErrMissingSecret
	}

	digest, err := ParseSignature(signature)
	if err != nil {
		return err
	}

	if err = github.ValidateSignature(SignatureKey+"="+hex.EncodeToString(digest), body, []byte(*s)); err != nil {
		return errors.Wrap(ErrSignatureMismatch, err.Error())
	}
	return nil
}

// Sign returns the `sha256=<hex>` header value for body. It is the counterpart of ValidateSignature.
func (s *Secret) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(*s))
	_, _ = mac.Write(body)
	return SignatureKey + "=" + hex.EncodeToString(mac.Sum(nil))
}
