package pets

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
	petstypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	petsports "github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

const (
	// PersistPetActivityName persists a pet aggregate.
	PersistPetActivityName = "pets.activities.PersistPet"
	// ErrTypeInvalidInput marks application errors that retrying cannot fix.
	ErrTypeInvalidInput = "InvalidPetInput"
)

// Activities groups activities that operate on the pets bounded context.
type Activities struct {
	service petsports.Service
}

// NewActivities wires the pets service into the Temporal activities bundle.
func NewActivities(service petsports.Service) *Activities {
	return &Activities{service: service}
}

// PersistPet stores a new pet aggregate and returns its projection.
func (a *Activities) PersistPet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	logger := activity.GetLogger(ctx)
	petID := input.ID
	if a == nil || a.service == nil {
		logger.Error("pet persist activity not initialized", "petId", petID)
		return nil, errors.New("pet persist activity not initialized")
	}
	logger.Info("PersistPet activity started", "petId", petID)
	projection, err := a.service.AddPet(ctx, input)
	if err != nil {
		logger.Error("PersistPet activity failed", "petId", petID, "error", err)
		if errors.Is(err, petsapp.ErrInvalidInput) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
		}
		return nil, err
	}
	if projection != nil && projection.Entity != nil {
		logger.Info("PersistPet activity completed", "petId", projection.Entity.ID)
	}
	return projection, nil
}
