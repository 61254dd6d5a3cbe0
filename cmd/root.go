// Package cmd provides the entrypoint for the litium-webhooks cli.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/litium-webhooks/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configFileEnv names the environment variable holding the configuration file path.
const configFileEnv = "CONFIG_FILE"

var logger *slog.Logger

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for litium-webhooks.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "litium-webhooks",
		Short:         "Receives Litium webhooks and forwards their notification actions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = newLogger()
			if err := config.Validate(); err != nil {
				logger.Error("invalid configuration", slog.Any("error", err))
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return runService(cmd)
			case config.ModeLambda:
				return runLambda(cmd)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Configuration loading & defaults
	configFilePath, found := os.LookupEnv(configFileEnv)
	if !found {
		configFilePath = "config.yaml"
	}
	if err := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
		cmdSign(),
	)

	return cmd
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: config.Global.Logging.CallerTrace,
		Level:     slog.LevelWarn - slog.Level(config.Global.Logging.Verbosity*4),
	}))
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, envMapInt64)
}
