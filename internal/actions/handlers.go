package actions

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/isometry/litium-webhooks/internal/models"
	"github.com/pkg/errors"
)

// Envelope is the message forwarded to downstream brokers.
type Envelope struct {
	Receiver   string         `json:"receiver"`
	ReceiverID string         `json:"receiverId,omitempty"`
	Actions    []string       `json:"actions"`
	Payload    models.Payload `json:"payload"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

// NewEnvelope builds the forwarded message for an invocation.
func NewEnvelope(inv *Invocation, now time.Time) Envelope {
	acts := inv.Actions
	if acts == nil {
		acts = []string{}
	}
	return Envelope{
		Receiver:   inv.Receiver,
		ReceiverID: inv.ReceiverID,
		Actions:    acts,
		Payload:    inv.Payload,
		ReceivedAt: now.UTC(),
	}
}

func envelopeAttributes(inv *Invocation) map[string]string {
	attrs := map[string]string{"receiver": inv.Receiver}
	if inv.ReceiverID != "" {
		attrs["receiverId"] = inv.ReceiverID
	}
	if len(inv.Actions) > 0 {
		attrs["actions"] = strings.Join(inv.Actions, ",")
	}
	return attrs
}

// LogHandler logs every invocation.
type LogHandler struct {
	Logger *slog.Logger
}

// NewLogHandler returns a LogHandler writing to logger.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = helpers.NewNoopLogger()
	}
	return &LogHandler{Logger: logger}
}

func (h *LogHandler) Order() int       { return 0 }
func (h *LogHandler) Receiver() string { return "" }

func (h *LogHandler) Handle(_ context.Context, hc *Context) error {
	h.Logger.Info("received webhook actions",
		slog.String("receiver", hc.Receiver),
		slog.String("id", hc.ReceiverID),
		slog.Any("actions", hc.Actions))
	return nil
}

// MessageSender is the subset of the AWS controller used by SQSHandler.
type MessageSender interface {
	SendMessage(ctx context.Context, queueURL string, body []byte, attributes map[string]string) (string, error)
}

// SQSHandler forwards every invocation to an SQS queue.
type SQSHandler struct {
	Sender   MessageSender
	QueueURL string
	Logger   *slog.Logger
}

// NewSQSHandler returns an SQSHandler sending to queueURL.
func NewSQSHandler(sender MessageSender, queueURL string, logger *slog.Logger) *SQSHandler {
	if logger == nil {
		logger = helpers.NewNoopLogger()
	}
	return &SQSHandler{Sender: sender, QueueURL: queueURL, Logger: logger}
}

func (h *SQSHandler) Order() int       { return 10 }
func (h *SQSHandler) Receiver() string { return "" }

func (h *SQSHandler) Handle(ctx context.Context, hc *Context) error {
	body, err := json.Marshal(NewEnvelope(hc.Invocation, time.Now()))
	if err != nil {
		return errors.Wrap(err, "failed to encode envelope")
	}
	id, err := h.Sender.SendMessage(ctx, h.QueueURL, body, envelopeAttributes(hc.Invocation))
	if err != nil {
		return err
	}
	h.Logger.Debug("forwarded webhook to SQS", slog.String("messageId", id))
	return nil
}

// Publisher is the subset of the GCP controller used by PubSubHandler.
type Publisher interface {
	Publish(ctx context.Context, topic string, data []byte, attributes map[string]string) (string, error)
}

// PubSubHandler forwards every invocation to a Pub/Sub topic.
type PubSubHandler struct {
	Publisher Publisher
	Topic     string
	Logger    *slog.Logger
}

// NewPubSubHandler returns a PubSubHandler publishing to topic.
func NewPubSubHandler(publisher Publisher, topic string, logger *slog.Logger) *PubSubHandler {
	if logger == nil {
		logger = helpers.NewNoopLogger()
	}
	return &PubSubHandler{Publisher: publisher, Topic: topic, Logger: logger}
}

func (h *PubSubHandler) Order() int       { return 20 }
func (h *PubSubHandler) Receiver() string { return "" }

func (h *PubSubHandler) Handle(ctx context.Context, hc *Context) error {
	data, err := json.Marshal(NewEnvelope(hc.Invocation, time.Now()))
	if err != nil {
		return errors.Wrap(err, "failed to encode envelope")
	}
	id, err := h.Publisher.Publish(ctx, h.Topic, data, envelopeAttributes(hc.Invocation))
	if err != nil {
		return err
	}
	h.Logger.Debug("forwarded webhook to Pub/Sub", slog.String("messageId", id))
	return nil
}
