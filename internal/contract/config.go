package contract

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds the settings of a contract run. Values come from the environment,
// optionally seeded from .env files.
type Config struct {
	BaseURL        string        `env:"PETSTORE_BASE_URL,default=https://petstore.swagger.io/v2"`
	APIKey         string        `env:"PETSTORE_API_KEY,default=special-key"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS,default=0"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST,default=1"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	LogFormat      string        `env:"LOG_FORMAT,default=text"`
	LogRequests    bool          `env:"LOG_REQUESTS,default=false"`
	LogResponses   bool          `env:"LOG_RESPONSES,default=false"`
}

// LoadConfig loads the given .env files, when present, and reads the environment.
// Variables already set in the environment win over file values.
func LoadConfig(envFiles ...string) (*Config, error) {
	loadEnvFiles(envFiles)
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return ConfigFromEnvSet(es)
}

// ConfigFromEnvSet reads the configuration from an explicit variable set.
func ConfigFromEnvSet(es env.EnvSet) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values a run cannot work with.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("PETSTORE_BASE_URL: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("PETSTORE_BASE_URL must be an http(s) URL, got %q", c.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("PETSTORE_BASE_URL has no host: %q", c.BaseURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst))
	}
	return errors.Join(errs...)
}

func loadEnvFiles(paths []string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", path, err)
		}
	}
}
