package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const (
	// ModeService runs the standalone HTTP server.
	ModeService = "service"
	// ModeLambda runs the AWS Lambda handler.
	ModeLambda = "lambda"
)

const (
	SecretsProviderStatic = "static"
	SecretsProviderEnv    = "env"
	SecretsProviderSSM    = "ssm"
	SecretsProviderGCP    = "gcp"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the loaded configuration against the constraints declared on the structs.
func Validate() error {
	return errors.Join(
		validate.Struct(&Global),
		validate.Struct(&Receiver),
		validate.Struct(&Secrets),
		validate.Struct(&Actions),
		validate.Struct(&Lambda),
	)
}
