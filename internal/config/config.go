package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends understood by the bootstrap package.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
	Storage struct {
		Backend    string
		Path       string
		SQLitePath string
		Bucket     string
		Key        string
		Region     string
		Endpoint   string
	}
	AWS struct {
		Profile string
	}
	Service struct {
		SerializeWrites bool
	}
}

// Load reads configuration from environment variables and an optional config
// file. An empty configFile searches for config.{yaml,json,toml} in the
// working directory.
func Load(configFile string) (Config, error) {
	// real environment wins over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PROFILES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.readtimeout", 15*time.Second)
	v.SetDefault("server.writetimeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", "data/profiles.json")
	v.SetDefault("storage.sqlitepath", "data/profiles.db")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.key", "profiles.json")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("service.serializewrites", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // optional file
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot produce a working store.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage path is required for the file backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return fmt.Errorf("sqlite path is required for the sqlite backend")
		}
	case BackendS3:
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			return fmt.Errorf("storage bucket is required for the s3 backend")
		}
		if strings.TrimSpace(c.Storage.Key) == "" {
			return fmt.Errorf("storage key is required for the s3 backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
