// Package aws provides the Controller struct that wraps AWS services and provides SSM and SQS functionality with context and logging support.
package aws

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go/logging"
	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/pkg/errors"
)

// ErrParameterNotFound is returned by GetSecret when the SSM parameter does not exist.
var ErrParameterNotFound = errors.New("SSM parameter not found")

// Controller represents a wrapper for AWS services providing SSM and SQS functionality with context and logging support.
type Controller struct {
	ctx    context.Context
	logger *slog.Logger

	config      *aws.Config
	sqsEndpoint string
	ssmClient   *ssm.Client
	sqsClient   *sqs.Client
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and default configurations if unspecified.
// It returns an instance of the Controller struct and an error if any required initialization steps fail.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWS configuration...")
		cfg, err := config.LoadDefaultConfig(_inst.ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		cfg.Logger = newAWSLogger(_inst.logger)
		_inst.config = &cfg
	}

	_inst.ssmClient = ssm.NewFromConfig(*_inst.config)
	_inst.sqsClient = sqs.NewFromConfig(*_inst.config, func(o *sqs.Options) {
		if _inst.sqsEndpoint != "" {
			o.BaseEndpoint = aws.String(_inst.sqsEndpoint)
		}
	})
	return _inst, nil
}

// GetSecret retrieves a secret value from AWS SSM Parameter Store using the provided key.
// If encrypted is true, the secret is returned decrypted.
func (a *Controller) GetSecret(ctx context.Context, key string, encrypted bool) (string, error) {
	a.logger.With("key", key).Debug("fetching SSM secret...")
	ssmResponse, err := a.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(encrypted),
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", errors.Wrap(ErrParameterNotFound, key)
		}
		return "", errors.Wrap(err, "failed to load SSM parameter")
	}
	return aws.ToString(ssmResponse.Parameter.Value), nil
}

// SendMessage posts body to the given SQS queue with string message attributes and returns the message id.
func (a *Controller) SendMessage(ctx context.Context, queueURL string, body []byte, attributes map[string]string) (string, error) {
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
	}
	if len(attributes) > 0 {
		input.MessageAttributes = make(map[string]sqstypes.MessageAttributeValue, len(attributes))
		for k, v := range attributes {
			input.MessageAttributes[k] = sqstypes.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}
	}
	out, err := a.sqsClient.SendMessage(ctx, input)
	if err != nil {
		return "", errors.Wrap(err, "failed to send SQS message")
	}
	return aws.ToString(out.MessageId), nil
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	a.logger.Debug(fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...)))
}
