// Package runtime adapts the webhook handler to the standalone HTTP server and to AWS Lambda.
package runtime

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/litium-webhooks/internal/handler"
	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/isometry/litium-webhooks/internal/models"
	"github.com/pkg/errors"
)

const (
	PayloadTypeAPIGatewayV1 = "api-gateway-v1"
	PayloadTypeAPIGatewayV2 = "api-gateway-v2"
	PayloadTypeLambdaURL    = "lambda-url"

	defaultMaxBodyBytes = 1 << 20
)

type Option func(*Runtime)

// WithLogger sets the logger instance for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithPath sets the route prefix in front of '<receiver>[/<id>]'.
func WithPath(path string) Option {
	return func(r *Runtime) {
		r.path = path
	}
}

// WithMaxBodyBytes bounds the accepted request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Runtime) {
		r.maxBodyBytes = n
	}
}

// WithLambdaPayloadType selects the Lambda event format served by LambdaHandler.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

type Runtime struct {
	handler      *handler.Handler
	logger       *slog.Logger
	path         string
	maxBodyBytes int64
	payloadType  string
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{
		handler:      handler,
		path:         "/",
		maxBodyBytes: defaultMaxBodyBytes,
		payloadType:  PayloadTypeAPIGatewayV2,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	defer func() { _ = req.Body.Close() }()

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))
	route, found := models.ParseRoute(r.path, req.URL.Path)
	if !found {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "no receiver in path", slog.Any("path", req.URL.Path))
		helpers.RespondHTTP(models.Response{Body: "unknown webhook receiver", StatusCode: http.StatusNotFound}, nil, resp)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, r.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			r.logger.Warn("rejecting HTTP request...", "reason", "body too large", slog.Int64("limit", tooLarge.Limit))
			helpers.RespondHTTP(models.Response{Body: "request body too large", StatusCode: http.StatusRequestEntityTooLarge}, nil, resp)
			return
		}
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusBadRequest}, err, resp)
		return
	}

	result, err := r.handler.Process(req.Context(), route.Receiver, route.ID,
		models.NewMultiValueRequest(req.Method, req.URL.Path, req.URL.Query(), req.Header, body))
	helpers.RespondHTTP(result, err, resp)
}

// LambdaHandler returns the Lambda handler function matching the configured payload type.
func (r *Runtime) LambdaHandler() (any, error) {
	switch r.payloadType {
	case PayloadTypeAPIGatewayV1:
		return r.HandleAPIGatewayV1, nil
	case PayloadTypeAPIGatewayV2:
		return r.HandleAPIGatewayV2, nil
	case PayloadTypeLambdaURL:
		return r.HandleLambdaURL, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

// HandleAPIGatewayV1 serves API Gateway REST API proxy events.
func (r *Runtime) HandleAPIGatewayV1(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query := url.Values{}
	for k, v := range req.QueryStringParameters {
		query.Set(k, v)
	}
	for k, v := range req.MultiValueQueryStringParameters {
		query[k] = v
	}
	reqHeaders := req.MultiValueHeaders
	if len(reqHeaders) == 0 {
		reqHeaders = singleValued(req.Headers)
	}
	status, headers, body := r.handleEvent(ctx, event{
		method:          req.HTTPMethod,
		path:            req.Path,
		pathParameters:  req.PathParameters,
		query:           query,
		headers:         reqHeaders,
		body:            req.Body,
		isBase64Encoded: req.IsBase64Encoded,
	})
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: body}, nil
}

// HandleAPIGatewayV2 serves API Gateway HTTP API (payload format 2.0) events.
func (r *Runtime) HandleAPIGatewayV2(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	query, _ := url.ParseQuery(req.RawQueryString)
	status, headers, body := r.handleEvent(ctx, event{
		method:          req.RequestContext.HTTP.Method,
		path:            req.RawPath,
		pathParameters:  req.PathParameters,
		query:           query,
		headers:         singleValued(req.Headers),
		body:            req.Body,
		isBase64Encoded: req.IsBase64Encoded,
	})
	return events.APIGatewayV2HTTPResponse{StatusCode: status, Headers: headers, Body: body}, nil
}

// HandleLambdaURL serves Lambda function URL events.
func (r *Runtime) HandleLambdaURL(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	query, _ := url.ParseQuery(req.RawQueryString)
	status, headers, body := r.handleEvent(ctx, event{
		method:          req.RequestContext.HTTP.Method,
		path:            req.RawPath,
		query:           query,
		headers:         singleValued(req.Headers),
		body:            req.Body,
		isBase64Encoded: req.IsBase64Encoded,
	})
	return events.LambdaFunctionURLResponse{StatusCode: status, Headers: headers, Body: body}, nil
}

type event struct {
	method          string
	path            string
	pathParameters  map[string]string
	query           url.Values
	headers         map[string][]string
	body            string
	isBase64Encoded bool
}

// singleValued lifts event headers that arrive with one value per key.
func singleValued(headers map[string]string) map[string][]string {
	mv := make(map[string][]string, len(headers))
	for k, v := range headers {
		mv[k] = []string{v}
	}
	return mv
}

func (r *Runtime) handleEvent(ctx context.Context, e event) (int, map[string]string, string) {
	r.logger.Info("received Lambda request", slog.String("method", e.method), slog.String("path", e.path))

	route := models.Route{Receiver: e.pathParameters["receiver"], ID: e.pathParameters["id"]}
	if route.Receiver == "" {
		var found bool
		if route, found = models.ParseRoute(r.path, e.path); !found {
			return helpers.RenderResponse(models.Response{Body: "unknown webhook receiver", StatusCode: http.StatusNotFound}, nil)
		}
	}

	body := []byte(e.body)
	if e.isBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(e.body)
		if err != nil {
			r.logger.Warn("failed to decode request body", slog.Any("error", err))
			return helpers.RenderResponse(models.Response{StatusCode: http.StatusBadRequest}, errors.Wrap(err, "invalid base64 body"))
		}
		body = decoded
	}
	if int64(len(body)) > r.maxBodyBytes {
		return helpers.RenderResponse(models.Response{Body: "request body too large", StatusCode: http.StatusRequestEntityTooLarge}, nil)
	}

	result, err := r.handler.Process(ctx, route.Receiver, route.ID,
		models.NewMultiValueRequest(e.method, e.path, e.query, e.headers, body))
	status, headers, respBody := helpers.RenderResponse(result, err)
	r.logger.Info("handled event", slog.Int("status", status), slog.Any("error", err))
	return status, headers, respBody
}

// Receivers lists the receivers served by the runtime, for start-up logging.
func (r *Runtime) Receivers() string {
	return strings.Join(r.handler.Receivers(), ",")
}
