package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/litium-webhooks/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Serve the webhook receivers as an AWS Lambda function",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLambda(cmd)
		},
	}
	bindEnvMap(cmd, lambdaEnvMapString)
	return cmd
}

func runLambda(cmd *cobra.Command) error {
	logger = logger.With("mode", config.ModeLambda, "payloadType", config.Lambda.PayloadType)

	b := newBuilder(cmd.Context(), logger)
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()
	rtm, err := b.Runtime(config.Lambda.Path)
	if err != nil {
		return errors.Wrap(err, "failed to setup lambda")
	}
	handler, err := rtm.LambdaHandler()
	if err != nil {
		return errors.Wrap(err, "failed to setup lambda")
	}

	logger.Info("lambda starting...", "receivers", rtm.Receivers())
	lambda.StartWithOptions(handler,
		lambda.WithContext(cmd.Context()))
	return nil
}
