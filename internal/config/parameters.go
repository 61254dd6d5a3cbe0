// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Receiver is a struct that contains the configuration of the webhook receivers.
	Receiver receiver
	// Secrets is a struct that contains the configuration of the receiver secret source.
	Secrets secrets
	// Actions is a struct that contains the configuration of the action handlers.
	Actions actions
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service" validate:"oneof=service lambda"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type receiver struct {
	// SkipSignatureVerification disables the ms-signature check on POST requests.
	SkipSignatureVerification bool `yaml:"skipSignatureVerification,omitempty"`
	// MaxBodyBytes bounds the size of an accepted request body.
	MaxBodyBytes int64 `yaml:"maxBodyBytes,omitempty" default:"1048576" validate:"gt=0"`
}

type secrets struct {
	// Provider selects the secret source. Supported values are 'static', 'env', 'ssm' and 'gcp'.
	Provider string `yaml:"provider,omitempty" default:"static" validate:"oneof=static env ssm gcp"`
	// Static maps a receiver name to its secret definition, either a bare secret or 'id=secret' pairs.
	Static map[string]string `yaml:"static,omitempty"`
	// EnvPrefix is the prefix of the environment variables holding receiver secrets.
	EnvPrefix string `yaml:"envPrefix,omitempty" default:"WEBHOOK_RECEIVER_SECRET_"`
	SSM       struct {
		// Prefix is the parameter path prefix: <prefix>/<receiver>/<id>.
		Prefix string `yaml:"prefix,omitempty" default:"/webhooks"`
		// WithoutDecryption reads SecureString parameters without decrypting them.
		WithoutDecryption bool `yaml:"withoutDecryption,omitempty"`
	} `yaml:"ssm,omitempty"`
	GCP struct {
		ProjectID string `yaml:"projectID,omitempty"`
		Endpoint  string `yaml:"endpoint,omitempty"`
	} `yaml:"gcp,omitempty"`
}

type actions struct {
	Log struct {
		Disabled bool `yaml:"disabled,omitempty"`
	} `yaml:"log,omitempty"`
	SQS struct {
		Enabled  bool   `yaml:"enabled,omitempty"`
		QueueURL string `yaml:"queueURL,omitempty" validate:"required_if=Enabled true"`
		Endpoint string `yaml:"endpoint,omitempty"`
	} `yaml:"sqs,omitempty"`
	PubSub struct {
		Enabled   bool   `yaml:"enabled,omitempty"`
		ProjectID string `yaml:"projectID,omitempty" validate:"required_if=Enabled true"`
		Topic     string `yaml:"topic,omitempty" validate:"required_if=Enabled true"`
		Endpoint  string `yaml:"endpoint,omitempty"`
	} `yaml:"pubsub,omitempty"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/api/webhooks/incoming/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2" validate:"oneof=api-gateway-v1 api-gateway-v2 lambda-url"`
	// Path is the route prefix stripped from the request path before resolving the receiver.
	Path string `yaml:"path,omitempty" default:"/api/webhooks/incoming/"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Receiver),
		defaults.Set(&Secrets),
		defaults.Set(&Actions),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global   global   `yaml:"global,omitempty"`
		Receiver receiver `yaml:"receiver,omitempty"`
		Secrets  secrets  `yaml:"secrets,omitempty"`
		Actions  actions  `yaml:"actions,omitempty"`
		Service  service  `yaml:"service,omitempty"`
		Lambda   lambda   `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Receiver = a.Receiver
	Secrets = a.Secrets
	Actions = a.Actions
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
