package aws

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// WithLogger sets a custom slog.Logger instance for the Controller struct to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithContext sets a custom context to be used by the Controller instance while loading its configuration.
func WithContext(ctx context.Context) Option {
	return func(a *Controller) {
		a.ctx = ctx
	}
}

// WithConfig uses cfg instead of the default AWS configuration chain.
func WithConfig(cfg *aws.Config) Option {
	return func(a *Controller) {
		a.config = cfg
	}
}

// WithSQSEndpoint overrides the SQS endpoint, e.g. for LocalStack.
func WithSQSEndpoint(endpoint string) Option {
	return func(a *Controller) {
		a.sqsEndpoint = endpoint
	}
}
