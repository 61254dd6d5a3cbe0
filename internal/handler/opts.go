package handler

import (
	"log/slog"

	"github.com/isometry/litium-webhooks/internal/receiver"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithReceivers registers receivers on the handler.
func WithReceivers(receivers ...receiver.Receiver) Option {
	return func(h *Handler) {
		h.pending = append(h.pending, receivers...)
	}
}
