// Package gcp provides the Controller struct that wraps Google Cloud Secret Manager and Pub/Sub.
package gcp

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"cloud.google.com/go/pubsub"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrSecretNotFound is returned by AccessSecret when the secret or its latest version does not exist.
var ErrSecretNotFound = errors.New("secret manager secret not found")

// Controller lazily creates the Google Cloud clients it needs. It is safe for concurrent use.
type Controller struct {
	ctx       context.Context
	logger    *slog.Logger
	projectID string
	endpoint  string
	options   []option.ClientOption

	mu      sync.Mutex
	secrets *secretmanager.Client
	pubsub  *pubsub.Client
	topics  map[string]*pubsub.Topic
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController returns a Controller bound to projectID.
func NewController(projectID string, opts ...Option) (*Controller, error) {
	if projectID == "" {
		return nil, errors.New("GCP project ID is not set")
	}
	_inst := &Controller{projectID: projectID}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "gcp", "project", projectID)
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.endpoint != "" {
		_inst.options = append(_inst.options, option.WithEndpoint(_inst.endpoint), option.WithoutAuthentication())
	}
	return _inst, nil
}

func (g *Controller) secretClient() (*secretmanager.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.secrets == nil {
		g.logger.Debug("creating Secret Manager client...")
		client, err := secretmanager.NewClient(g.ctx, g.options...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Secret Manager client")
		}
		g.secrets = client
	}
	return g.secrets, nil
}

func (g *Controller) pubsubClient() (*pubsub.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pubsub == nil {
		g.logger.Debug("creating Pub/Sub client...")
		client, err := pubsub.NewClient(g.ctx, g.projectID, g.options...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Pub/Sub client")
		}
		g.pubsub = client
	}
	return g.pubsub, nil
}

// AccessSecret returns the payload of the latest version of the named secret.
func (g *Controller) AccessSecret(ctx context.Context, name string) (string, error) {
	client, err := g.secretClient()
	if err != nil {
		return "", err
	}
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", g.projectID, name)
	g.logger.With("secret", name).Debug("accessing secret version...")

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", errors.Wrap(ErrSecretNotFound, name)
		}
		return "", errors.Wrap(err, "failed to access secret version")
	}
	return string(result.Payload.Data), nil
}

// topic returns the publisher for name, creating it on first use. Publishers are stopped by Close.
func (g *Controller) topic(name string) (*pubsub.Topic, error) {
	client, err := g.pubsubClient()
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, found := g.topics[name]; found {
		return t, nil
	}
	if g.topics == nil {
		g.topics = make(map[string]*pubsub.Topic)
	}
	t := client.Topic(name)
	g.topics[name] = t
	return t, nil
}

// Publish sends data to the given Pub/Sub topic and returns the message id once the server acknowledged it.
func (g *Controller) Publish(ctx context.Context, topic string, data []byte, attributes map[string]string) (string, error) {
	t, err := g.topic(topic)
	if err != nil {
		return "", err
	}
	result := t.Publish(ctx, &pubsub.Message{Data: data, Attributes: attributes})
	id, err := result.Get(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "failed to publish message to topic %s", topic)
	}
	return id, nil
}

// Close flushes pending publishes and releases the clients created so far.
func (g *Controller) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range g.topics {
		t.Stop()
	}
	g.topics = nil
	var errs []error
	if g.secrets != nil {
		errs = append(errs, g.secrets.Close())
		g.secrets = nil
	}
	if g.pubsub != nil {
		errs = append(errs, g.pubsub.Close())
		g.pubsub = nil
	}
	return stderrors.Join(errs...)
}
