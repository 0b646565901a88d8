package config

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DataBackend:    BackendPostgres,
			DatabaseURL:    "postgres://localhost/shop",
			StorageBackend: StorageLocal,
			StorageDir:     "./media",
			AuthTokenTTL:   time.Hour,
		}
	}

	t.Run("postgres with local storage", func(t *testing.T) {
		cfg := base()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("postgres requires DATABASE_URL", func(t *testing.T) {
		cfg := base()
		cfg.DatabaseURL = ""
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("rest requires api url and key", func(t *testing.T) {
		cfg := base()
		cfg.DataBackend = BackendREST
		assert.ErrorContains(t, cfg.Validate(), "DATA_API_URL")

		cfg.DataAPIURL = "https://data.example.com"
		cfg.DataAPIKey = "anon"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("remote storage requires api", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = StorageRemote
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := base()
		cfg.DataBackend = "mongo"
		assert.ErrorContains(t, cfg.Validate(), "unknown DATA_BACKEND")
	})
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")

	var cfg Config
	require.NoError(t, envconfig.Process("", &cfg))

	assert.Equal(t, BackendPostgres, cfg.DataBackend)
	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, ":50051", cfg.GrpcPort)
	assert.Equal(t, "images", cfg.StorageBucket)
	assert.Equal(t, 24*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
}

func TestLoadCLIConfig(t *testing.T) {
	t.Setenv("STOREFRONT_URL", "http://shop.internal:9000")
	t.Setenv("STOREFRONT_TOKEN_FILE", "/tmp/catalogctl-token")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")
	t.Setenv("STOREFRONT_GRPC", "shop.internal:50051")

	cfg, err := LoadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://shop.internal:9000", cfg.ServerURL)
	assert.Equal(t, "/tmp/catalogctl-token", cfg.TokenFile)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "shop.internal:50051", cfg.GrpcAddr)
}
