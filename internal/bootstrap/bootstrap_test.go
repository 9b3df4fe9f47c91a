package bootstrap

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"profile-service/internal/config"
	"profile-service/internal/repository/repotest"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewLogger(t *testing.T) {
	var cfg config.Config
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "loud"
	_, err = NewLogger(cfg)
	require.Error(t, err)

	cfg.Log.Level = "info"
	cfg.Log.Format = "xml"
	_, err = NewLogger(cfg)
	require.Error(t, err)
}

func TestBuildRepository_Backends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := map[string]func(*config.Config){
		config.BackendFile: func(c *config.Config) {
			c.Storage.Path = filepath.Join(dir, "profiles.json")
		},
		config.BackendMemory: func(*config.Config) {},
		config.BackendSQLite: func(c *config.Config) {
			c.Storage.SQLitePath = filepath.Join(dir, "profiles.db")
		},
	}

	for backend, setup := range cases {
		t.Run(backend, func(t *testing.T) {
			var cfg config.Config
			cfg.Storage.Backend = backend
			setup(&cfg)

			repo, closeFn, err := BuildRepository(ctx, cfg, quietLogger())
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, closeFn()) })

			require.NoError(t, repo.Save(ctx, repotest.Profiles()))
			got, err := repo.Load(ctx)
			require.NoError(t, err)
			require.Equal(t, repotest.Profiles(), got)
		})
	}
}

func TestBuildRepository_Errors(t *testing.T) {
	ctx := context.Background()

	var cfg config.Config
	cfg.Storage.Backend = "etcd"
	_, _, err := BuildRepository(ctx, cfg, quietLogger())
	require.ErrorContains(t, err, "unknown storage backend")

	cfg.Storage.Backend = config.BackendS3
	_, _, err = BuildRepository(ctx, cfg, quietLogger())
	require.ErrorContains(t, err, "bucket is required")
}

func TestServiceOptions(t *testing.T) {
	var cfg config.Config
	require.Empty(t, ServiceOptions(cfg))

	cfg.Service.SerializeWrites = true
	require.Len(t, ServiceOptions(cfg), 1)
}
