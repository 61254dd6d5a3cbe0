package cmd

import (
	"github.com/isometry/litium-webhooks/internal/config"
)

var lambdaEnvMapString = map[*string]boundEnvVar[string]{
	&config.Lambda.PayloadType: {
		Name:        "lambda-payload-type",
		Description: "The payload type to expect when running in Lambda mode. Supported values are 'api-gateway-v1', 'api-gateway-v2' and 'lambda-url'",
	},
	&config.Lambda.Path: {
		Name:        "lambda-path",
		Description: "The path prefix in front of '<receiver>[/<id>]' when the route carries no path parameters",
	},
}
