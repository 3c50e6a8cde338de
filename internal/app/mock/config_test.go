package mock

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/petstore-contract-tests/internal/platform/observability"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "BASE_PATH", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED", "SEED_PETS", "ENVIRONMENT", "OTEL_TRACES_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "/v2", cfg.BasePath)
	require.Empty(t, cfg.PostgresDSN)
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	require.False(t, cfg.TemporalDisabled)
	require.False(t, cfg.SeedPets)

	settings := cfg.Observability(ServiceName)
	require.Equal(t, "petstore-mock", settings.ServiceName)
	require.Equal(t, "local", settings.Environment)
	require.Equal(t, observability.ExporterOTLP, settings.Exporter)
	require.True(t, settings.OTLPInsecure)
	require.Equal(t, "info", settings.LogLevel)
	require.Equal(t, observability.FormatJSON, settings.LogFormat)
}

func TestLoadConfig_TraceExporter(t *testing.T) {
	clearEnv(t)
	t.Setenv("OTEL_TRACES_EXPORTER", "None")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, observability.ExporterNone, cfg.TraceExporter)
	require.False(t, cfg.OTLPInsecure)

	t.Setenv("OTEL_TRACES_EXPORTER", "zipkin")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_PATH", "/api")
	t.Setenv("TEMPORAL_DISABLED", "yes")
	t.Setenv("SEED_PETS", "TRUE")
	t.Setenv("POSTGRES_DSN", "  postgres://localhost/pets  ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "/api", cfg.BasePath)
	require.True(t, cfg.TemporalDisabled)
	require.True(t, cfg.SeedPets)
	require.Equal(t, "postgres://localhost/pets", cfg.PostgresDSN)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")
	_, err := LoadConfig()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("BASE_PATH", "v2")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " True "} {
		require.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "no", "off"} {
		require.False(t, isTruthy(v), v)
	}
}
