package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"profile-service/internal/bootstrap"
	"profile-service/internal/cli"
	"profile-service/internal/config"
	"profile-service/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	factory := func(cmd *cobra.Command) (service.ProfileService, func(), error) {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}

		configured, err := bootstrap.NewLogger(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("setup logger: %w", err)
		}
		// keep the CLI quiet unless asked otherwise; stdout carries the JSON
		if cfg.Log.Level != "" && cfg.Log.Level != "info" {
			logger.SetLevel(configured.GetLevel())
		}

		repo, closeRepo, err := bootstrap.BuildRepository(cmd.Context(), cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("setup profile store: %w", err)
		}
		cleanup := func() {
			if err := closeRepo(); err != nil {
				logger.Warnf("close profile store: %v", err)
			}
		}
		return service.NewProfileService(repo, bootstrap.ServiceOptions(cfg)...), cleanup, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(factory, logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
