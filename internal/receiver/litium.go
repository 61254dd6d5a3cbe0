package receiver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/isometry/litium-webhooks/internal/actions"
	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/isometry/litium-webhooks/internal/models"
	"github.com/isometry/litium-webhooks/internal/secrets"
	"github.com/isometry/litium-webhooks/internal/validation"
	"github.com/pkg/errors"
)

const (
	// LitiumName is the name of the receiver for webhooks generated by Litium.
	LitiumName = "Litium"

	EchoParameter    = "echo"
	NotificationsKey = "Notifications"
	ActionKey        = "Action"

	// maxErrorSummary bounds the parse error detail returned to the caller.
	maxErrorSummary = 256
)

// Option is a function that applies an option to a Litium receiver.
type Option func(*Litium)

// WithLogger sets the logger instance for the receiver.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Litium) {
		l.logger = logger
	}
}

// WithSecretResolver sets the source of the receiver secrets.
func WithSecretResolver(resolver secrets.Resolver) Option {
	return func(l *Litium) {
		l.secrets = resolver
	}
}

// WithExecutor sets the collaborator running the extracted actions.
func WithExecutor(executor actions.Executor) Option {
	return func(l *Litium) {
		l.executor = executor
	}
}

// WithSkipSignatureVerification disables the ms-signature check on POST requests.
func WithSkipSignatureVerification(skip bool) Option {
	return func(l *Litium) {
		l.skipSignatureVerification = skip
	}
}

// Litium receives webhooks generated by Litium, e.g. on '<host>/api/webhooks/incoming/litium/<id>'.
type Litium struct {
	logger                    *slog.Logger
	secrets                   secrets.Resolver
	executor                  actions.Executor
	skipSignatureVerification bool
}

// NewLitium returns a Litium receiver. Without an executor the actions are acknowledged with 200.
func NewLitium(opts ...Option) *Litium {
	_inst := &Litium{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.executor == nil {
		_inst.executor = actions.NewDispatcher(actions.WithLogger(_inst.logger))
	}
	return _inst
}

func (l *Litium) Name() string {
	return LitiumName
}

func (l *Litium) Receive(ctx context.Context, id string, req *models.Request) (models.Response, error) {
	if req == nil {
		err := newError(KindInvalidArgument, "request is required", nil)
		return err.Response(), err
	}
	logger := l.logger.With(slog.String("id", id), slog.String("method", req.Method))

	switch req.Method {
	case http.MethodPost:
		if err := l.VerifySignature(ctx, id, req); err != nil {
			return responseFor(err), err
		}

		payload, err := l.ReadPayload(req)
		if err != nil {
			return responseFor(err), err
		}

		acts, err := l.ExtractActions(payload)
		if err != nil {
			return responseFor(err), err
		}

		logger.Debug("executing webhook actions", slog.Any("actions", acts))
		return l.executor.Execute(ctx, &actions.Invocation{
			Receiver:   LitiumName,
			ReceiverID: id,
			Request:    req,
			Actions:    acts,
			Payload:    payload,
		})
	case http.MethodGet:
		return l.Verification(ctx, id, req)
	default:
		msg := fmt.Sprintf("The HTTP '%s' method is not supported by the '%s' WebHook receiver.", req.Method, LitiumName)
		logger.Info(msg)
		resp := newError(KindUnsupportedMethod, msg, nil).Response()
		resp.Headers = map[string]string{"Allow": strings.Join([]string{http.MethodGet, http.MethodPost}, ", ")}
		return resp, nil
	}
}

// VerifySignature checks the ms-signature header against the HMAC-SHA256 of the raw request body.
func (l *Litium) VerifySignature(ctx context.Context, id string, req *models.Request) error {
	if l.skipSignatureVerification {
		helpers.OnceAMinute.Do(func() {
			l.logger.Warn("signature verification is disabled: webhook payloads are not authenticated")
		})
		return nil
	}

	secret, err := l.resolveSecret(ctx, id)
	if err != nil {
		return err
	}

	signatures := req.HeaderValues(validation.SignatureHeader)
	if len(signatures) != 1 {
		msg := fmt.Sprintf("Expecting exactly one '%s' header field in the WebHook request but found %d.", validation.SignatureHeader, len(signatures))
		l.logger.Error(msg)
		return newError(KindMalformedHeader, msg, nil)
	}

	err = validation.NewSecret(secret).ValidateSignature(req.Body, signatures[0])
	var (
		kind Kind
		msg  string
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, validation.ErrMalformedHeader):
		kind = KindMalformedHeader
		msg = fmt.Sprintf("Invalid '%s' header value. Expecting a value of '%s=<value>'.", validation.SignatureHeader, validation.SignatureKey)
	case errors.Is(err, validation.ErrInvalidEncoding):
		kind = KindInvalidEncoding
		msg = fmt.Sprintf("The '%s' header value is invalid. It must be a valid hex-encoded string.", validation.SignatureHeader)
	case errors.Is(err, validation.ErrSignatureMismatch):
		kind = KindSignatureMismatch
		msg = fmt.Sprintf("The WebHook signature provided by the '%s' header field does not match the value expected by the '%s' receiver. WebHook request is invalid.", validation.SignatureHeader, LitiumName)
	default:
		kind = KindInternal
		msg = "Could not verify the WebHook signature."
	}
	l.logger.Error(msg, slog.Any("error", err))
	return newError(kind, msg, err)
}

// Verification answers a verification challenge by echoing the 'echo' query parameter back to the caller,
// once the receiver is known to be configured for id.
func (l *Litium) Verification(ctx context.Context, id string, req *models.Request) (models.Response, error) {
	if req == nil {
		err := newError(KindInvalidArgument, "request is required", nil)
		return err.Response(), err
	}

	if _, err := l.resolveSecret(ctx, id); err != nil {
		return responseFor(err), err
	}

	echo := req.Query.Get(EchoParameter)
	if echo == "" {
		msg := fmt.Sprintf("The WebHook verification request must contain a '%s' query parameter which will get echoed back in a successful response.", EchoParameter)
		l.logger.Error(msg)
		return newError(KindMissingEchoParameter, msg, nil).Response(), nil
	}

	return models.Response{
		Body:       echo,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		StatusCode: http.StatusOK,
	}, nil
}

// ReadPayload decodes the request body as a JSON object.
func (l *Litium) ReadPayload(req *models.Request) (models.Payload, error) {
	const msg = "The WebHook request must contain an entity body formatted as JSON."

	if contentType, found := req.Header("Content-Type"); found && !isJSON(contentType) {
		l.logger.Error(msg, slog.String("contentType", contentType))
		return nil, newError(KindUnsupportedMediaType, msg, nil)
	}

	var payload models.Payload
	decoder := json.NewDecoder(bytes.NewReader(req.Body))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		l.logger.Error(msg, slog.Any("error", err))
		return nil, newError(KindMalformedPayload, msg, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		l.logger.Error(msg, slog.String("reason", "trailing data after JSON body"))
		return nil, newError(KindMalformedPayload, msg, err)
	}
	return payload, nil
}

// ExtractActions collects the Action of every notification, in order. Notifications without an action
// are skipped and duplicates are kept.
func (l *Litium) ExtractActions(payload models.Payload) ([]string, error) {
	if payload == nil {
		return nil, newError(KindInvalidArgument, "payload is required", nil)
	}

	acts, err := extractActions(payload)
	if err != nil {
		msg := "Could not parse WebHook data: " + helpers.Truncate(err.Error(), maxErrorSummary)
		l.logger.Error(msg, slog.Any("error", err))
		return nil, newError(KindMalformedPayload, msg, err)
	}
	return acts, nil
}

func extractActions(payload models.Payload) ([]string, error) {
	acts := make([]string, 0)
	raw, found := payload[NotificationsKey]
	if !found || raw == nil {
		return acts, nil
	}

	notifications, ok := raw.([]any)
	if !ok {
		return nil, errors.Errorf("'%s' must be an array, got %s", NotificationsKey, jsonType(raw))
	}
	for i, n := range notifications {
		notification, ok := n.(map[string]any)
		if !ok {
			return nil, errors.Errorf("'%s[%d]' must be an object, got %s", NotificationsKey, i, jsonType(n))
		}
		action, found := notification[ActionKey]
		if !found || action == nil {
			continue
		}
		name, ok := action.(string)
		if !ok {
			return nil, errors.Errorf("'%s[%d].%s' must be a string, got %s", NotificationsKey, i, ActionKey, jsonType(action))
		}
		acts = append(acts, name)
	}
	return acts, nil
}

func (l *Litium) resolveSecret(ctx context.Context, id string) (string, error) {
	secret, err := secrets.Resolve(ctx, l.secrets, LitiumName, id)
	if err == nil {
		return secret, nil
	}
	if errors.Is(err, secrets.ErrNotFound) || errors.Is(err, secrets.ErrInvalidLength) {
		msg := fmt.Sprintf("Could not find a valid configuration for the '%s' WebHook receiver with id '%s'. The secret must be between %d and %d characters long.",
			LitiumName, id, secrets.MinLength, secrets.MaxLength)
		l.logger.Error(msg, slog.Any("error", err))
		return "", newError(KindSecretUnavailable, msg, err)
	}
	msg := fmt.Sprintf("Could not resolve the secret of the '%s' WebHook receiver with id '%s'.", LitiumName, id)
	l.logger.Error(msg, slog.Any("error", err))
	return "", newError(KindInternal, msg, err)
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || mediaType == "text/json" || strings.HasSuffix(mediaType, "+json")
}

func jsonType(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
