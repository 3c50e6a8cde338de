package pets

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	petactivities "github.com/Apurer/petstore-contract-tests/internal/platform/temporal/activities/pets"
)

const (
	// PetCreationWorkflowName is the public identifier for registering the workflow.
	PetCreationWorkflowName = "pets.workflows.Creation"
	// PetCreationTaskQueue is the queue consumed by the worker processing pet workflows.
	PetCreationTaskQueue = "PET_CREATION"
)

// PetCreationWorkflowInput captures the payload required to provision a new pet.
type PetCreationWorkflowInput struct {
	Command petstypes.AddPetInput
	TraceID string
}

// PetCreationWorkflow persists a pet aggregate through the PersistPet activity.
func PetCreationWorkflow(ctx workflow.Context, input PetCreationWorkflowInput) (*petstypes.PetProjection, error) {
	logger := workflow.GetLogger(ctx)
	petID := input.Command.ID
	logger.Info("PetCreationWorkflow started", withTraceID(input.TraceID, "petId", petID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{petactivities.ErrTypeInvalidInput},
		},
	}
	var projection petstypes.PetProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), petactivities.PersistPetActivityName, input.Command).Get(ctx, &projection)
	if err != nil {
		logger.Error("PetCreationWorkflow failed", withTraceID(input.TraceID, "petId", petID, "error", err)...)
		return nil, err
	}
	if projection.Entity != nil {
		logger.Info("PetCreationWorkflow completed", withTraceID(input.TraceID, "petId", projection.Entity.ID)...)
	} else {
		logger.Info("PetCreationWorkflow completed", withTraceID(input.TraceID)...)
	}
	return &projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
