package receiver

import (
	"net/http"

	"github.com/isometry/litium-webhooks/internal/models"
	"github.com/pkg/errors"
)

// Kind classifies the failures a receiver reports.
type Kind string

const (
	KindInvalidArgument      Kind = "invalid argument"
	KindMalformedHeader      Kind = "malformed signature header"
	KindInvalidEncoding      Kind = "invalid signature encoding"
	KindSignatureMismatch    Kind = "signature mismatch"
	KindMalformedPayload     Kind = "malformed payload"
	KindMissingEchoParameter Kind = "missing echo parameter"
	KindUnsupportedMethod    Kind = "unsupported method"
	KindUnsupportedMediaType Kind = "unsupported media type"
	KindSecretUnavailable    Kind = "secret unavailable"
	KindInternal             Kind = "internal error"
)

// StatusCode maps the kind onto the HTTP status reported to the caller.
func (k Kind) StatusCode() int {
	switch k {
	case KindMalformedHeader, KindInvalidEncoding, KindSignatureMismatch,
		KindMalformedPayload, KindMissingEchoParameter, KindSecretUnavailable:
		return http.StatusBadRequest
	case KindUnsupportedMethod:
		return http.StatusMethodNotAllowed
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified receiver failure. Message is safe to return to the caller; Cause is only logged.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Response renders the error as the webhook response.
func (e *Error) Response() models.Response {
	return models.Response{Body: e.Message, StatusCode: e.Kind.StatusCode()}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func responseFor(err error) models.Response {
	var e *Error
	if errors.As(err, &e) {
		return e.Response()
	}
	return models.Response{Body: "internal error", StatusCode: http.StatusInternalServerError}
}
