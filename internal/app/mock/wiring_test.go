package mock

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	petsmemory "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/memory"
	petsworkflows "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestSelectWorkflows_LocalStoreStaysInline(t *testing.T) {
	logger, logs := newTestLogger()
	service := petsapp.NewService(petsmemory.NewRepository())
	dialed := false

	orchestrator, closeFn := selectWorkflows(service, false, func() (client.Client, error) {
		dialed = true
		return &mocks.Client{}, nil
	}, logger)
	closeFn()

	require.False(t, dialed)
	require.IsType(t, &petsworkflows.InlinePetWorkflows{}, orchestrator)
	require.Contains(t, logs.String(), "creating pets inline")
}

func TestSelectWorkflows_SharedStoreUsesTemporal(t *testing.T) {
	logger, _ := newTestLogger()
	service := petsapp.NewService(petsmemory.NewRepository())
	temporalClient := &mocks.Client{}
	temporalClient.On("Close").Return()

	orchestrator, closeFn := selectWorkflows(service, true, func() (client.Client, error) {
		return temporalClient, nil
	}, logger)
	require.IsType(t, &petsworkflows.TemporalPetWorkflows{}, orchestrator)

	closeFn()
	temporalClient.AssertExpectations(t)
}

func TestSelectWorkflows_UnreachableTemporalFallsBack(t *testing.T) {
	logger, logs := newTestLogger()
	service := petsapp.NewService(petsmemory.NewRepository())

	orchestrator, closeFn := selectWorkflows(service, true, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, logger)
	closeFn()

	require.IsType(t, &petsworkflows.InlinePetWorkflows{}, orchestrator)
	require.Contains(t, logs.String(), "connection refused")
}

func TestBuildPetRepository_WithoutDSNIsLocal(t *testing.T) {
	logger, _ := newTestLogger()
	repo, shared, cleanup := buildPetRepository(context.Background(), Config{}, logger)
	defer cleanup()

	require.False(t, shared)
	require.IsType(t, &petsmemory.Repository{}, repo)
}
