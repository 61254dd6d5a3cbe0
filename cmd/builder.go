package cmd

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"

	"github.com/isometry/litium-webhooks/internal/actions"
	"github.com/isometry/litium-webhooks/internal/config"
	awsctl "github.com/isometry/litium-webhooks/internal/controllers/aws"
	gcpctl "github.com/isometry/litium-webhooks/internal/controllers/gcp"
	"github.com/isometry/litium-webhooks/internal/handler"
	"github.com/isometry/litium-webhooks/internal/receiver"
	"github.com/isometry/litium-webhooks/internal/runtime"
	"github.com/isometry/litium-webhooks/internal/secrets"
	"github.com/pkg/errors"
)

// builder assembles the runtime from the loaded configuration and tracks the clients to release on exit.
type builder struct {
	ctx     context.Context
	logger  *slog.Logger
	aws     *awsctl.Controller
	closers []func() error
}

func newBuilder(ctx context.Context, logger *slog.Logger) *builder {
	return &builder{ctx: ctx, logger: logger}
}

func (b *builder) awsController() (*awsctl.Controller, error) {
	if b.aws != nil {
		return b.aws, nil
	}
	ctrl, err := awsctl.NewController(
		awsctl.WithContext(b.ctx),
		awsctl.WithSQSEndpoint(config.Actions.SQS.Endpoint),
		awsctl.WithLogger(b.logger))
	if err != nil {
		return nil, err
	}
	b.aws = ctrl
	return ctrl, nil
}

func (b *builder) gcpController(projectID, endpoint string) (*gcpctl.Controller, error) {
	ctrl, err := gcpctl.NewController(projectID,
		gcpctl.WithContext(b.ctx),
		gcpctl.WithEndpoint(endpoint),
		gcpctl.WithLogger(b.logger))
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, ctrl.Close)
	return ctrl, nil
}

func (b *builder) secretResolver() (secrets.Resolver, error) {
	b.logger.Debug("creating secret resolver...", slog.String("provider", config.Secrets.Provider))
	switch config.Secrets.Provider {
	case config.SecretsProviderStatic:
		return secrets.NewStatic(config.Secrets.Static)
	case config.SecretsProviderEnv:
		return &secrets.Env{Prefix: config.Secrets.EnvPrefix, LookupEnv: os.LookupEnv}, nil
	case config.SecretsProviderSSM:
		ctrl, err := b.awsController()
		if err != nil {
			return nil, err
		}
		return &secrets.SSM{
			Store:             ctrl,
			Prefix:            config.Secrets.SSM.Prefix,
			WithoutDecryption: config.Secrets.SSM.WithoutDecryption,
		}, nil
	case config.SecretsProviderGCP:
		ctrl, err := b.gcpController(config.Secrets.GCP.ProjectID, config.Secrets.GCP.Endpoint)
		if err != nil {
			return nil, err
		}
		return &secrets.GCP{Accessor: ctrl}, nil
	default:
		return nil, errors.Errorf("unsupported secrets provider: %s", config.Secrets.Provider)
	}
}

func (b *builder) actionHandlers() ([]actions.Handler, error) {
	var handlers []actions.Handler
	if !config.Actions.Log.Disabled {
		handlers = append(handlers, actions.NewLogHandler(b.logger.With("component", "actions-log")))
	}
	if config.Actions.SQS.Enabled {
		ctrl, err := b.awsController()
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, actions.NewSQSHandler(ctrl, config.Actions.SQS.QueueURL,
			b.logger.With("component", "actions-sqs")))
	}
	if config.Actions.PubSub.Enabled {
		ctrl, err := b.gcpController(config.Actions.PubSub.ProjectID, config.Actions.PubSub.Endpoint)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, actions.NewPubSubHandler(ctrl, config.Actions.PubSub.Topic,
			b.logger.With("component", "actions-pubsub")))
	}
	return handlers, nil
}

// Runtime builds the receiver registry and wraps it in a runtime serving path.
func (b *builder) Runtime(path string) (*runtime.Runtime, error) {
	resolver, err := b.secretResolver()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create secret resolver")
	}
	handlers, err := b.actionHandlers()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create action handlers")
	}

	litium := receiver.NewLitium(
		receiver.WithSecretResolver(resolver),
		receiver.WithExecutor(actions.NewDispatcher(
			actions.WithHandlers(handlers...),
			actions.WithLogger(b.logger.With("component", "actions")))),
		receiver.WithSkipSignatureVerification(config.Receiver.SkipSignatureVerification),
		receiver.WithLogger(b.logger.With("component", "receiver", "receiver", receiver.LitiumName)))

	b.logger.Debug("creating webhook handler...")
	hdl, err := handler.NewHandler(
		handler.WithReceivers(litium),
		handler.WithLogger(b.logger.With("component", "handler")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook handler")
	}

	b.logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithPath(path),
		runtime.WithMaxBodyBytes(config.Receiver.MaxBodyBytes),
		runtime.WithLambdaPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(b.logger.With("component", "runtime"))), nil
}

// Close releases the clients created by the builder.
func (b *builder) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Wrap(stderrors.Join(errs...), "failed to release clients")
}
