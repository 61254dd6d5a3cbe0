package cmd

import (
	"github.com/isometry/litium-webhooks/internal/config"
	"github.com/isometry/litium-webhooks/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Secrets.Provider: {
		Name:        "secrets-provider",
		Description: "Receiver secret source. Supported values are 'static', 'env', 'ssm' and 'gcp'",
		Short:       helpers.Ptr("S"),
	},
	&config.Secrets.EnvPrefix: {
		Name:        "secrets-env-prefix",
		Description: "The environment variable prefix holding receiver secrets when the 'env' provider is used",
	},
	&config.Secrets.SSM.Prefix: {
		Name:        "secrets-ssm-prefix",
		Description: "The SSM parameter path prefix holding receiver secrets (<prefix>/<receiver>/<id>)",
	},
	&config.Secrets.GCP.ProjectID: {
		Name:        "secrets-gcp-project-id",
		Description: "The Google Cloud project holding receiver secrets in Secret Manager",
	},
	&config.Secrets.GCP.Endpoint: {
		Name:        "secrets-gcp-endpoint",
		Description: "Override the Secret Manager endpoint",
		Hidden:      true,
	},
	&config.Actions.SQS.QueueURL: {
		Name:        "actions-sqs-queue-url",
		Description: "The SQS queue receiving webhook actions",
		Env:         helpers.Ptr("ACTIONS_SQS_QUEUE_URL"),
	},
	&config.Actions.SQS.Endpoint: {
		Name:        "actions-sqs-endpoint",
		Description: "Override the SQS endpoint",
		Hidden:      true,
	},
	&config.Actions.PubSub.ProjectID: {
		Name:        "actions-pubsub-project-id",
		Description: "The Google Cloud project of the Pub/Sub topic receiving webhook actions",
	},
	&config.Actions.PubSub.Topic: {
		Name:        "actions-pubsub-topic",
		Description: "The Pub/Sub topic receiving webhook actions",
	},
	&config.Actions.PubSub.Endpoint: {
		Name:        "actions-pubsub-endpoint",
		Description: "Override the Pub/Sub endpoint, e.g. for the emulator",
		Hidden:      true,
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Receiver.SkipSignatureVerification: {
		Name:        "receiver-skip-signature-verification",
		Description: "Accept POST requests without verifying the ms-signature header",
	},
	&config.Secrets.SSM.WithoutDecryption: {
		Name:        "secrets-ssm-without-decryption",
		Description: "Read SSM parameters without decryption",
	},
	&config.Actions.Log.Disabled: {
		Name:        "actions-log-disabled",
		Description: "Disable logging of received webhook actions",
	},
	&config.Actions.SQS.Enabled: {
		Name:        "actions-sqs",
		Description: "Forward webhook actions to SQS",
	},
	&config.Actions.PubSub.Enabled: {
		Name:        "actions-pubsub",
		Description: "Forward webhook actions to Pub/Sub",
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapInt64 = map[*int64]boundEnvVar[int64]{
	&config.Receiver.MaxBodyBytes: {
		Name:        "receiver-max-body-bytes",
		Description: "The maximum accepted request body size in bytes",
	},
}
