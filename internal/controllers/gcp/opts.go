package gcp

import (
	"context"
	"log/slog"

	"google.golang.org/api/option"
)

// WithLogger sets a custom slog.Logger instance for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Controller) {
		g.logger = logger
	}
}

// WithContext sets the context used when the clients are created.
func WithContext(ctx context.Context) Option {
	return func(g *Controller) {
		g.ctx = ctx
	}
}

// WithEndpoint points the clients at an emulator endpoint and disables authentication.
func WithEndpoint(endpoint string) Option {
	return func(g *Controller) {
		g.endpoint = endpoint
	}
}

// WithClientOptions appends raw client options.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(g *Controller) {
		g.options = append(g.options, opts...)
	}
}
