package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"profile-service/internal/bootstrap"
	"profile-service/internal/config"
	apphttp "profile-service/internal/http"
	"profile-service/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Getenv("PROFILES_CONFIG"))
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	logger, err = bootstrap.NewLogger(cfg)
	if err != nil {
		logrus.Fatalf("setup logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal(err)
	}
	logger.Info("bye")
}

// run serves until a signal arrives or the listener fails. Deferred cleanup
// always runs before it returns.
func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := bootstrap.BuildRepository(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup profile store: %w", err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Warnf("close profile store: %v", err)
		}
	}()

	profileService := service.NewProfileService(repo, bootstrap.ServiceOptions(cfg)...)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(profileService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s (storage backend %s)", cfg.Server.Addr, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	return nil
}
