package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	BackendPostgres = "postgres"
	BackendREST     = "rest"

	StorageRemote = "remote"
	StorageLocal  = "local"
)

type Config struct {
	DataBackend string `envconfig:"DATA_BACKEND" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	Migrate     bool   `envconfig:"MIGRATE"      default:"false"`
	DataAPIURL  string `envconfig:"DATA_API_URL"`
	DataAPIKey  string `envconfig:"DATA_API_KEY"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"remote"`
	StorageDir     string `envconfig:"STORAGE_DIR"     default:"./media"`
	StorageBucket  string `envconfig:"STORAGE_BUCKET"  default:"images"`
	PublicBaseURL  string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	HTTPPort string `envconfig:"HTTP_PORT" default:":8080"`
	GrpcPort string `envconfig:"GRPC_PORT" default:":50051"`

	JWTSecret     string        `envconfig:"JWT_SECRET"     required:"true"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	AuthTokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`

	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
}

var (
	config  Config
	loadErr error
	once    sync.Once
)

// LoadConfig reads an optional .env file and then the process environment.
// The result is memoised; later calls return the first outcome.
func LoadConfig(logger *logrus.Logger) (*Config, error) {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		var cfg Config
		if err := envconfig.Process("", &cfg); err != nil {
			loadErr = fmt.Errorf("failed to process configuration from environment variables: %w", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			loadErr = err
			return
		}
		config = cfg

		logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, Backend=%s, Storage=%s, LogLevel=%s",
			cfg.HTTPPort, cfg.GrpcPort, cfg.DataBackend, cfg.StorageBackend, cfg.LogLevel)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return &config, nil
}

// Validate checks the keys each backend needs.
func (c *Config) Validate() error {
	switch c.DataBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("configuration error: DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendREST:
		if c.DataAPIURL == "" || c.DataAPIKey == "" {
			return fmt.Errorf("configuration error: DATA_API_URL and DATA_API_KEY are required for the %s backend", BackendREST)
		}
	default:
		return fmt.Errorf("configuration error: unknown DATA_BACKEND '%s'", c.DataBackend)
	}

	switch c.StorageBackend {
	case StorageRemote:
		if c.DataAPIURL == "" || c.DataAPIKey == "" {
			return fmt.Errorf("configuration error: DATA_API_URL and DATA_API_KEY are required for %s storage", StorageRemote)
		}
	case StorageLocal:
		if c.StorageDir == "" {
			return fmt.Errorf("configuration error: STORAGE_DIR is required for %s storage", StorageLocal)
		}
	default:
		return fmt.Errorf("configuration error: unknown STORAGE_BACKEND '%s'", c.StorageBackend)
	}

	if c.AuthTokenTTL <= 0 {
		return fmt.Errorf("configuration error: AUTH_TOKEN_TTL must be positive")
	}
	return nil
}
