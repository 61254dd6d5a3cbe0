package cmd

import (
	"net"
	"net/http"

	"github.com/isometry/litium-webhooks/internal/config"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		Short:   "Serve the webhook receivers over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runService(cmd)
		},
	}
	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)
	return cmd
}

func runService(cmd *cobra.Command) error {
	logger = logger.With("mode", config.ModeService)
	logger.Info("Spawning...")

	b := newBuilder(cmd.Context(), logger)
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()
	rtm, err := b.Runtime(config.Service.Path)
	if err != nil {
		return err
	}

	logger.Debug("Creating HTTP server...")
	h := http.NewServeMux()
	h.Handle("/", rtm)

	s := &http.Server{
		Handler:           h,
		Addr:              net.JoinHostPort(config.Service.Addr, config.Service.Port),
		WriteTimeout:      config.Service.Timeout,
		ReadTimeout:       config.Service.Timeout,
		ReadHeaderTimeout: config.Service.Timeout,
		IdleTimeout:       config.Service.Timeout,
	}

	logger.Info("Serving...", "address", s.Addr, "path", config.Service.Path, "receivers", rtm.Receivers(), "timeout", config.Service.Timeout.String())
	return s.ListenAndServe()
}
