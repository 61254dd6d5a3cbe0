// Package handler routes webhook requests to the receiver registered under the requested name.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/isometry/litium-webhooks/internal/models"
	"github.com/isometry/litium-webhooks/internal/receiver"
)

type Option func(*Handler)

// Handler holds the receivers by lower-cased name. It is read-only once built.
type Handler struct {
	logger    *slog.Logger
	pending   []receiver.Receiver
	receivers map[string]receiver.Receiver
}

// NewHandler returns a Handler holding the receivers given through WithReceivers.
func NewHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger:    helpers.NewNoopLogger(),
		receivers: make(map[string]receiver.Receiver),
	}
	for _, opt := range options {
		opt(_inst)
	}

	for _, r := range _inst.pending {
		name := strings.ToLower(r.Name())
		if _, exists := _inst.receivers[name]; exists {
			return nil, &DuplicateReceiverError{Name: r.Name()}
		}
		_inst.receivers[name] = r
	}
	_inst.pending = nil

	return _inst, nil
}

// Receivers returns the registered receiver names, sorted.
func (h *Handler) Receivers() []string {
	names := make([]string, 0, len(h.receivers))
	for _, r := range h.receivers {
		names = append(names, r.Name())
	}
	slices.Sort(names)
	return names
}

// Process hands req to the receiver registered as name.
func (h *Handler) Process(ctx context.Context, name, id string, req *models.Request) (models.Response, error) {
	logger := h.logger.With(slog.String("receiver", name), slog.String("id", id))

	r, found := h.receivers[strings.ToLower(name)]
	if !found {
		err := &NoReceiverError{Name: name}
		logger.Warn("rejecting request", slog.Any("error", err))
		return models.Response{Body: "unknown webhook receiver", StatusCode: http.StatusNotFound}, err
	}

	logger.Debug("processing request...")
	response, err := r.Receive(ctx, id, req)
	if err != nil {
		logger.Warn("request failed", slog.Any("error", err), slog.Int("status", response.StatusCode))
		return response, err
	}
	logger.Info("request processed", slog.Int("status", response.StatusCode))
	return response, nil
}
