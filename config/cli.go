package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// CLIConfig configures catalogctl. Flags override every field.
type CLIConfig struct {
	ServerURL string        `envconfig:"STOREFRONT_URL"     default:"http://localhost:8080"`
	Token     string        `envconfig:"STOREFRONT_TOKEN"`
	TokenFile string        `envconfig:"STOREFRONT_TOKEN_FILE"`
	Timeout   time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`
	LogLevel  string        `envconfig:"LOG_LEVEL"          default:"warn"`
	GrpcAddr  string        `envconfig:"STOREFRONT_GRPC"`
}

func LoadCLIConfig() (*CLIConfig, error) {
	_ = godotenv.Load()

	var cfg CLIConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process CLI configuration: %w", err)
	}
	if cfg.TokenFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.TokenFile = filepath.Join(home, ".catalogctl", "token")
		}
	}
	return &cfg, nil
}
