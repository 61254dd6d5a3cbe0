package helpers

import (
	"log/slog"
)

// NewNoopLogger returns a logger discarding every record. Constructors fall back to it when no logger is given.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
