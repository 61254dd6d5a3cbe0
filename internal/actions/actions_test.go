package actions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/isometry/litium-webhooks/internal/actions"
	"github.com/isometry/litium-webhooks/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	order    int
	receiver string
	calls    *[]int
	response *models.Response
	err      error
}

func (h *recordingHandler) Order() int       { return h.order }
func (h *recordingHandler) Receiver() string { return h.receiver }

func (h *recordingHandler) Handle(_ context.Context, hc *actions.Context) error {
	*h.calls = append(*h.calls, h.order)
	if h.err != nil {
		return h.err
	}
	hc.Response = h.response
	return nil
}

func recorder(order int, receiver string, calls *[]int, response *models.Response, err error) actions.Handler {
	return &recordingHandler{order: order, receiver: receiver, calls: calls, response: response, err: err}
}

func TestDispatcher_Execute(t *testing.T) {
	accepted := &models.Response{Body: "accepted", StatusCode: http.StatusAccepted}

	testCases := []struct {
		Name           string
		Handlers       func(calls *[]int) []actions.Handler
		ExpectedCalls  []int
		ExpectedStatus int
		ExpectedBody   string
		ExpectError    bool
	}{
		{
			Name:           "no_handlers",
			Handlers:       func(*[]int) []actions.Handler { return nil },
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "ok",
		},
		{
			Name: "handlers_run_in_order",
			Handlers: func(calls *[]int) []actions.Handler {
				return []actions.Handler{
					recorder(3, "", calls, nil, nil),
					recorder(1, "", calls, nil, nil),
					recorder(2, "litium", calls, nil, nil),
				}
			},
			ExpectedCalls:  []int{1, 2, 3},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "ok",
		},
		{
			Name: "first_response_wins",
			Handlers: func(calls *[]int) []actions.Handler {
				return []actions.Handler{
					recorder(1, "", calls, accepted, nil),
					recorder(2, "", calls, nil, nil),
				}
			},
			ExpectedCalls:  []int{1},
			ExpectedStatus: http.StatusAccepted,
			ExpectedBody:   "accepted",
		},
		{
			Name: "other_receivers_skipped",
			Handlers: func(calls *[]int) []actions.Handler {
				return []actions.Handler{
					recorder(1, "github", calls, accepted, nil),
					recorder(2, "LITIUM", calls, nil, nil),
				}
			},
			ExpectedCalls:  []int{2},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "ok",
		},
		{
			Name: "handler_error",
			Handlers: func(calls *[]int) []actions.Handler {
				return []actions.Handler{
					recorder(1, "", calls, nil, errors.New("boom")),
					recorder(2, "", calls, nil, nil),
				}
			},
			ExpectedCalls:  []int{1},
			ExpectedStatus: http.StatusInternalServerError,
			ExpectError:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var calls []int
			d := actions.NewDispatcher(actions.WithHandlers(tc.Handlers(&calls)...))

			resp, err := d.Execute(context.Background(), &actions.Invocation{
				Receiver: "litium",
				Actions:  []string{"a"},
			})
			if tc.ExpectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.ExpectedBody, resp.Body)
			}
			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
			assert.Equal(t, tc.ExpectedCalls, calls)
		})
	}
}

func TestDispatcher_WithHandlers(t *testing.T) {
	var calls []int
	d := actions.NewDispatcher(
		actions.WithHandlers(recorder(5, "", &calls, nil, nil)),
		actions.WithHandlers(recorder(1, "", &calls, nil, nil)))

	_, err := d.Execute(context.Background(), &actions.Invocation{Receiver: "litium"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, calls)

	_, err = d.Execute(context.Background(), nil)
	assert.Error(t, err)
}

type fakeSender struct {
	queueURL   string
	body       []byte
	attributes map[string]string
	err        error
}

func (f *fakeSender) SendMessage(_ context.Context, queueURL string, body []byte, attributes map[string]string) (string, error) {
	f.queueURL, f.body, f.attributes = queueURL, body, attributes
	return "msg-1", f.err
}

type fakePublisher struct {
	topic      string
	data       []byte
	attributes map[string]string
}

func (f *fakePublisher) Publish(_ context.Context, topic string, data []byte, attributes map[string]string) (string, error) {
	f.topic, f.data, f.attributes = topic, data, attributes
	return "msg-2", nil
}

func TestForwardingHandlers(t *testing.T) {
	inv := &actions.Invocation{
		Receiver:   "litium",
		ReceiverID: "erp",
		Actions:    []string{"OrderCreated", "OrderCreated"},
		Payload:    models.Payload{"Notifications": []any{map[string]any{"Action": "OrderCreated"}}},
	}
	sender := &fakeSender{}
	publisher := &fakePublisher{}
	d := actions.NewDispatcher(actions.WithHandlers(
		actions.NewPubSubHandler(publisher, "litium-events", nil),
		actions.NewSQSHandler(sender, "https://sqs.local/queue", nil),
		actions.NewLogHandler(nil),
	))

	resp, err := d.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, raw := range [][]byte{sender.body, publisher.data} {
		var envelope actions.Envelope
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.Equal(t, "litium", envelope.Receiver)
		assert.Equal(t, "erp", envelope.ReceiverID)
		assert.Equal(t, inv.Actions, envelope.Actions)
		assert.Contains(t, envelope.Payload, "Notifications")
		assert.False(t, envelope.ReceivedAt.IsZero())
	}
	assert.Equal(t, "https://sqs.local/queue", sender.queueURL)
	assert.Equal(t, "litium-events", publisher.topic)
	expectedAttributes := map[string]string{"receiver": "litium", "receiverId": "erp", "actions": "OrderCreated,OrderCreated"}
	assert.Equal(t, expectedAttributes, sender.attributes)
	assert.Equal(t, expectedAttributes, publisher.attributes)

	sender.err = errors.New("queue unavailable")
	resp, err = d.Execute(context.Background(), inv)
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestNewEnvelope_EmptyActions(t *testing.T) {
	raw, err := json.Marshal(actions.NewEnvelope(&actions.Invocation{Receiver: "litium"}, time.Unix(0, 0)))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"actions":[]`)
	assert.NotContains(t, string(raw), "receiverId")
}
