package mock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.temporal.io/sdk/client"

	platformobservability "github.com/Apurer/petstore-contract-tests/internal/platform/observability"
)

const shutdownTimeout = 5 * time.Second

// Run boots the reference pet store with observability, repositories, and workflows wired.
// It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(ServiceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	petRepo, repoShared, cleanupRepo := buildPetRepository(ctx, cfg, logger)
	defer cleanupRepo()
	petService := newPetService(petRepo, instruments)

	if cfg.SeedPets {
		if err := Seed(ctx, petService, logger); err != nil {
			return err
		}
	}

	petWorkflows, closeWorkflows := selectWorkflows(petService, repoShared, func() (client.Client, error) {
		return connectTemporalClient(cfg, instruments, "temporal-client")
	}, logger)
	defer closeWorkflows()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(petService, petWorkflows, cfg.BasePath),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Petstore mock listening", slog.String("addr", server.Addr), slog.String("basePath", cfg.BasePath))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Petstore mock exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Petstore mock shutting down")
	return server.Shutdown(shutdownCtx)
}
