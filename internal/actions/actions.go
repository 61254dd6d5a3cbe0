// Package actions runs the handlers registered for the notification actions extracted from a webhook payload.
package actions

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/isometry/litium-webhooks/internal/models"
	"github.com/pkg/errors"
)

// Invocation carries everything a receiver prepared for its action handlers.
type Invocation struct {
	Receiver   string
	ReceiverID string
	Request    *models.Request
	Actions    []string
	Payload    models.Payload
}

// Executor runs the business logic for an invocation and produces the webhook response.
type Executor interface {
	Execute(ctx context.Context, inv *Invocation) (models.Response, error)
}

// Context is passed along the handler chain. A handler that sets Response ends the chain.
type Context struct {
	*Invocation
	Response *models.Response
}

// Handler reacts to the actions of an invocation.
type Handler interface {
	// Order sorts handlers, lowest first.
	Order() int
	// Receiver restricts the handler to one receiver name. Empty matches every receiver.
	Receiver() string
	Handle(ctx context.Context, hc *Context) error
}

// Option is a function that applies an option to a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger instance for the dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithHandlers registers handlers on the dispatcher.
func WithHandlers(handlers ...Handler) Option {
	return func(d *Dispatcher) {
		d.handlers = append(d.handlers, handlers...)
	}
}

// Dispatcher is the default Executor. It runs the matching handlers in order until one of them sets a response;
// when none does, the webhook is acknowledged with 200. Handlers are fixed at construction.
type Dispatcher struct {
	logger   *slog.Logger
	handlers []Handler
}

// NewDispatcher returns a Dispatcher configured with opts.
func NewDispatcher(opts ...Option) *Dispatcher {
	_inst := &Dispatcher{logger: helpers.NewNoopLogger()}
	for _, opt := range opts {
		opt(_inst)
	}
	_inst.sort()
	return _inst
}

func (d *Dispatcher) sort() {
	slices.SortStableFunc(d.handlers, func(a, b Handler) int {
		return a.Order() - b.Order()
	})
}

// Execute runs the handlers matching inv.Receiver.
func (d *Dispatcher) Execute(ctx context.Context, inv *Invocation) (models.Response, error) {
	if inv == nil {
		return models.Response{StatusCode: http.StatusInternalServerError}, errors.New("nil invocation")
	}

	logger := d.logger.With(slog.String("receiver", inv.Receiver), slog.String("id", inv.ReceiverID))
	hc := &Context{Invocation: inv}
	for _, h := range d.handlers {
		if r := h.Receiver(); r != "" && !strings.EqualFold(r, inv.Receiver) {
			continue
		}
		if err := h.Handle(ctx, hc); err != nil {
			logger.Error("action handler failed", slog.Any("error", err), slog.Any("actions", inv.Actions))
			return models.Response{
				Body:       "failed to process webhook actions",
				StatusCode: http.StatusInternalServerError,
			}, errors.Wrap(err, "action handler failed")
		}
		if hc.Response != nil {
			logger.Debug("action handler produced a response", slog.Int("status", hc.Response.StatusCode))
			return *hc.Response, nil
		}
	}
	return models.Response{Body: "ok", StatusCode: http.StatusOK}, nil
}
