package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/isometry/litium-webhooks/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSecret_ValidateSignature(t *testing.T) {
	body := `{"Notifications":[{"Action":"OrderCreated"}]}`
	secret := validation.NewSecret(testSecret)
	signature := secret.Sign([]byte(body))

	testCases := []struct {
		Name        string
		Signature   string
		Body        string
		ExpectError error
	}{
		{
			Name:        "empty_header",
			Signature:   "",
			Body:        body,
			ExpectError: validation.ErrMalformedHeader,
		},
		{
			Name:        "missing_separator",
			Signature:   "sha256",
			Body:        body,
			ExpectError: validation.ErrMalformedHeader,
		},
		{
			Name:        "empty_digest",
			Signature:   "sha256=",
			Body:        body,
			ExpectError: validation.ErrMalformedHeader,
		},
		{
			Name:        "wrong_key",
			Signature:   strings.Replace(signature, "sha256", "sha1", 1),
			Body:        body,
			ExpectError: validation.ErrMalformedHeader,
		},
		{
			Name:        "extra_parts",
			Signature:   signature + "=00",
			Body:        body,
			ExpectError: validation.ErrMalformedHeader,
		},
		{
			Name:        "non_hex_digest",
			Signature:   "sha256=zz" + strings.Repeat("0", 62),
			Body:        body,
			ExpectError: validation.ErrInvalidEncoding,
		},
		{
			Name:        "odd_length_digest",
			Signature:   "sha256=abc",
			Body:        body,
			ExpectError: validation.ErrInvalidEncoding,
		},
		{
			Name:        "wrong_digest",
			Signature:   "sha256=844d7743b13e1bdd66b003c29ebe5184dcf985434dde9f125952595cd533213e",
			Body:        body,
			ExpectError: validation.ErrSignatureMismatch,
		},
		{
			Name:        "short_digest",
			Signature:   "sha256=844d",
			Body:        body,
			ExpectError: validation.ErrSignatureMismatch,
		},
		{
			Name:      "valid_signature",
			Signature: signature,
			Body:      body,
		},
		{
			Name:      "valid_signature_upper_case_key_and_digest",
			Signature: "SHA256=" + strings.ToUpper(strings.TrimPrefix(signature, "sha256=")),
			Body:      body,
		},
		{
			Name:      "valid_signature_with_spaces",
			Signature: " sha256 = " + strings.TrimPrefix(signature, "sha256="),
			Body:      body,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := secret.ValidateSignature([]byte(tc.Body), tc.Signature)
			if tc.ExpectError == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.ExpectError)
		})
	}
}

func TestSecret_ValidateSignature_ByteFlip(t *testing.T) {
	secret := validation.NewSecret(testSecret + "-with-some-more-length")
	body := []byte(`{"Notifications":[{"Action":"a"},{},{"Action":"b"}]}`)
	signature := secret.Sign(body)

	require.NoError(t, secret.ValidateSignature(body, signature))

	for i := range body {
		flipped := append([]byte(nil), body...)
		flipped[i] ^= 0x01
		err := secret.ValidateSignature(flipped, signature)
		if !errors.Is(err, validation.ErrSignatureMismatch) {
			t.Fatalf("flipping byte %d: expected signature mismatch, got %v", i, err)
		}
	}
}

func TestSecret_ValidateSignature_MissingSecret(t *testing.T) {
	var secret *validation.Secret
	assert.ErrorIs(t, secret.ValidateSignature(nil, "sha256=00"), validation.ErrMissingSecret)
	assert.ErrorIs(t, validation.NewSecret("").ValidateSignature(nil, "sha256=00"), validation.ErrMissingSecret)
}
