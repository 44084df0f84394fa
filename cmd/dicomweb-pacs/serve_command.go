package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jinftw64/dicomweb-pacs/internal/audit"
	"github.com/jinftw64/dicomweb-pacs/internal/config"
	"github.com/jinftw64/dicomweb-pacs/internal/logging"
	"github.com/jinftw64/dicomweb-pacs/internal/server"
	"github.com/jinftw64/dicomweb-pacs/internal/services/dimse"
)

func newServeCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the DICOMweb gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, path, exists, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if !exists {
				logger.Warn("config file not found; using defaults", logging.String("path", path))
			}

			var auditStore *audit.Store
			if cfg.Audit.Enabled {
				auditStore, err = audit.Open(cfg)
				if err != nil {
					return fmt.Errorf("open audit store: %w", err)
				}
				defer auditStore.Close()
			}

			engine := dimse.NewHTTPEngine(cfg)
			srv, err := server.New(cfg, engine, auditStore, logger)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			if err := srv.Start(ctx); err != nil {
				return err
			}
			defer srv.Stop()

			<-ctx.Done()
			return context.Cause(ctx)
		},
	}
}
