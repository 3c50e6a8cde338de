package mock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	platformobservability "github.com/Apurer/petstore-contract-tests/internal/platform/observability"
	petactivities "github.com/Apurer/petstore-contract-tests/internal/platform/temporal/activities/pets"
	petworkflows "github.com/Apurer/petstore-contract-tests/internal/platform/temporal/workflows/pets"
)

// WorkerServiceName identifies the Temporal worker in traces and logs.
const WorkerServiceName = "petstore-worker"

// RunWorker processes pet creation workflows until ctx is cancelled.
func RunWorker(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(WorkerServiceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	petRepo, repoShared, cleanupRepo := buildPetRepository(ctx, cfg, logger)
	defer cleanupRepo()
	if !repoShared {
		return errors.New("worker needs a reachable POSTGRES_DSN: pets it persists must be visible to petstore-mock")
	}
	petActivities := petactivities.NewActivities(newPetService(petRepo, instruments))

	temporalClient, err := connectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, petworkflows.PetCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(petworkflows.PetCreationWorkflow, workflow.RegisterOptions{Name: petworkflows.PetCreationWorkflowName})
	w.RegisterActivityWithOptions(petActivities.PersistPet, activity.RegisterOptions{Name: petactivities.PersistPetActivityName})

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start Temporal worker: %w", err)
	}
	logger.Info("worker listening", slog.String("taskQueue", petworkflows.PetCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	<-ctx.Done()
	w.Stop()
	logger.Info("Temporal worker stopped")
	return nil
}
