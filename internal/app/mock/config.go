package mock

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"

	"github.com/Apurer/petstore-contract-tests/internal/platform/observability"
)

// Config carries environment-driven settings for the reference server and its worker.
type Config struct {
	Port              string
	BasePath          string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SeedPets          bool
	Environment       string
	TraceExporter     string
	OTLPEndpoint      string
	OTLPInsecure      bool
	LogLevel          string
	LogFormat         string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		BasePath:          envDefault("BASE_PATH", "/v2"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SeedPets:          isTruthy(os.Getenv("SEED_PETS")),
		Environment:       envDefault("ENVIRONMENT", "local"),
		TraceExporter:     strings.ToLower(envDefault("OTEL_TRACES_EXPORTER", observability.ExporterOTLP)),
		OTLPEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:      os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		LogFormat:         envDefault("LOG_FORMAT", observability.FormatJSON),
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid TCP port, got %q", cfg.Port)
	}
	if !strings.HasPrefix(cfg.BasePath, "/") {
		return Config{}, fmt.Errorf("BASE_PATH must start with '/', got %q", cfg.BasePath)
	}
	switch cfg.TraceExporter {
	case observability.ExporterOTLP, observability.ExporterStdout, observability.ExporterNone:
	default:
		return Config{}, fmt.Errorf("OTEL_TRACES_EXPORTER must be otlp, stdout or none, got %q", cfg.TraceExporter)
	}
	return cfg, nil
}

// Observability is the telemetry setup of the process named serviceName.
func (c Config) Observability(serviceName string) observability.Settings {
	return observability.Settings{
		ServiceName:  serviceName,
		Environment:  c.Environment,
		Exporter:     c.TraceExporter,
		OTLPEndpoint: c.OTLPEndpoint,
		OTLPInsecure: c.OTLPInsecure,
		LogLevel:     c.LogLevel,
		LogFormat:    c.LogFormat,
	}
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
