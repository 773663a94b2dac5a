package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	API         APIConfig         `env:",prefix=API_"`
	Credentials CredentialsConfig `env:",prefix=CREDENTIALS_"`
	Redis       RedisConfig       `env:",prefix=REDIS_"`
	Env         string            `env:"ENV,default=development"`
}

type APIConfig struct {
	BaseURL        string   `env:"BASE_URL,default=http://localhost:8000/api"`
	RequestTimeout Duration `env:"REQUEST_TIMEOUT,default=15s"`
}

// CredentialsConfig selects where the session tokens and cached identity
// persist between runs.
type CredentialsConfig struct {
	Backend string `env:"BACKEND,default=file"` // file, redis, or memory
	Path    string `env:"FILE,default=.wellness/credentials.json"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// Address returns the Redis connection address.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	u, err := url.Parse(config.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", config.API.BaseURL)
	}

	switch config.Credentials.Backend {
	case "file", "redis", "memory":
	default:
		return nil, fmt.Errorf("CREDENTIALS_BACKEND must be file, redis, or memory, got %q", config.Credentials.Backend)
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with a default context.
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
