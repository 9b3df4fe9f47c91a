// Package bootstrap turns configuration into the logger and profile store
// shared by the server and CLI binaries.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"profile-service/internal/config"
	"profile-service/internal/repository"
	"profile-service/internal/repository/file"
	"profile-service/internal/repository/memory"
	"profile-service/internal/repository/object"
	"profile-service/internal/repository/sqlite"
	"profile-service/internal/service"
	"profile-service/internal/storage"
)

// NewLogger builds a logrus logger from the log section of cfg.
func NewLogger(cfg config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// Closer releases resources held by a store.
type Closer func() error

func noopCloser() error { return nil }

// BuildRepository opens the profile store selected by cfg.Storage.Backend.
func BuildRepository(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.ProfileRepository, Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		logger.Debugf("using profile document %s", cfg.Storage.Path)
		return file.NewProfileRepository(cfg.Storage.Path), noopCloser, nil

	case config.BackendMemory:
		logger.Warn("using in-memory profile store; data is lost on exit")
		return memory.NewSeeded(nil), noopCloser, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		repo := sqlite.NewProfileRepository(db)
		if err := repo.Init(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init profile repository: %w", err)
		}
		logger.Debugf("using sqlite database %s", cfg.Storage.SQLitePath)
		return repo, db.Close, nil

	case config.BackendS3:
		store, err := buildObjectStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("setup storage: %w", err)
		}
		return object.NewProfileRepository(store, cfg.Storage.Bucket, cfg.Storage.Key), noopCloser, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// ServiceOptions maps the service section of cfg to service options.
func ServiceOptions(cfg config.Config) []service.Option {
	var opts []service.Option
	if cfg.Service.SerializeWrites {
		opts = append(opts, service.WithSerializedWrites())
	}
	return opts
}

func buildObjectStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.ObjectStore, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 object s3://%s/%s (region %s)", cfg.Storage.Bucket, cfg.Storage.Key, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
