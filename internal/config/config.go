package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS"`
	Port          int    `env:"PORT"`
	BaseURL       string `env:"BASE_URL"`
	DatabaseDSN   string `env:"DATABASE_URL"`
	JWTSecret     string `env:"JWT_SECRET"`
	// JWTExpiration is the access token lifetime in seconds.
	JWTExpiration int    `env:"JWT_EXPIRATION"`
	AppEnv        string `env:"APP_ENV"`
}

// ParseFlags loads .env (if any), then environment variables, then command line flags.
// Non-empty environment values take precedence over flags.
func ParseFlags() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	envServerAddress := cfg.ServerAddress
	envBaseURL := cfg.BaseURL
	envDatabaseDSN := cfg.DatabaseDSN
	envJWTSecret := cfg.JWTSecret

	flag.StringVar(&cfg.ServerAddress, "a", "", "Address of the server")
	flag.StringVar(&cfg.BaseURL, "b", "", "Base URL for short URLs")
	flag.StringVar(&cfg.DatabaseDSN, "d", "", "PostgreSQL connection string")
	flag.StringVar(&cfg.JWTSecret, "s", "", "Secret used to sign access tokens")

	flag.Parse()

	if envServerAddress != "" {
		cfg.ServerAddress = envServerAddress
	}
	if envBaseURL != "" {
		cfg.BaseURL = envBaseURL
	}
	if envDatabaseDSN != "" {
		cfg.DatabaseDSN = envDatabaseDSN
	}
	if envJWTSecret != "" {
		cfg.JWTSecret = envJWTSecret
	}

	cfg.applyDefaultValues()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("jwt expiration must be positive, got %d", c.JWTExpiration)
	}
	if c.AppEnv != EnvDevelopment && c.AppEnv != EnvProduction {
		return fmt.Errorf("unknown app env %q", c.AppEnv)
	}
	return nil
}

// TokenTTL returns the access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiration) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func (c *Config) applyDefaultValues() {
	if c.ServerAddress == "" {
		c.ServerAddress = getDefaultServerAddress(c.Port)
	}

	if c.JWTExpiration == 0 {
		c.JWTExpiration = getDefaultJWTExpiration()
	}

	if c.AppEnv == "" {
		c.AppEnv = EnvDevelopment
	}
}

func getDefaultServerAddress(port int) string {
	if port > 0 {
		return fmt.Sprintf(":%d", port)
	}
	return "localhost:8080"
}

func getDefaultJWTExpiration() int {
	return 60 * 60 * 24
}
