package mock

import (
	"context"
	"errors"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	petsmemory "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/memory"
	petsobs "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/observability"
	petspostgres "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/persistence/postgres"
	petsworkflows "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
	petsports "github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
	"github.com/Apurer/petstore-contract-tests/internal/platform/migrations"
	platformobservability "github.com/Apurer/petstore-contract-tests/internal/platform/observability"
	platformpostgres "github.com/Apurer/petstore-contract-tests/internal/platform/postgres"
)

// buildPetRepository prefers Postgres and falls back to memory when it is not configured or unreachable.
// shared reports whether other processes, the Temporal worker in particular, see the same pets.
func buildPetRepository(ctx context.Context, cfg Config, logger *slog.Logger) (repo petsports.Repository, shared bool, cleanup func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return petsmemory.NewRepository(), false, cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate pets schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return petsmemory.NewRepository(), false, func() {}
	}
	logger.Info("pet repository configured with postgres")
	return petspostgres.NewRepository(db), true, cleanup
}

// selectWorkflows creates pets through Temporal only when the worker writes to the
// store this server reads. With a process-local store a pet created by the worker
// would be invisible to GET /pet/{petId}, so creation stays inline.
func selectWorkflows(service petsports.Service, repoShared bool, dial func() (client.Client, error), logger *slog.Logger) (petsports.WorkflowOrchestrator, func()) {
	inline := petsworkflows.NewInlinePetWorkflows(service)
	if !repoShared {
		logger.Info("pet store is local to this process, creating pets inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, creating pets inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return petsworkflows.NewTemporalPetWorkflows(temporalClient), temporalClient.Close
}

// newPetService decorates the core service with the process instruments.
func newPetService(repo petsports.Repository, instruments *platformobservability.Instruments) petsports.Service {
	return petsobs.New(
		petsapp.NewService(repo),
		petsobs.WithLogger(effectiveLogger(instruments)),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(component),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
