package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
	petstypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
	petactivities "github.com/Apurer/petstore-contract-tests/internal/platform/temporal/activities/pets"
	petworkflows "github.com/Apurer/petstore-contract-tests/internal/platform/temporal/workflows/pets"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPetWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePetWorkflows)(nil)
)

// TemporalPetWorkflows starts pet workflows on a Temporal cluster.
type TemporalPetWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPetWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPetWorkflows(c client.Client) *TemporalPetWorkflows {
	return &TemporalPetWorkflows{client: c, taskQueue: petworkflows.PetCreationTaskQueue}
}

// CreatePet starts the Temporal workflow that persists a pet aggregate and waits for its result.
func (o *TemporalPetWorkflows) CreatePet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal pet workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	// A repeated create within one trace may only run again if the first attempt failed.
	options := client.StartWorkflowOptions{
		ID:                    buildPetCreationWorkflowID(input, traceComponent),
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		petworkflows.PetCreationWorkflowName,
		petworkflows.PetCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		return nil, err
	}
	var projection petstypes.PetProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, unwrapWorkflowError(err)
	}
	return &projection, nil
}

// InlinePetWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlinePetWorkflows struct {
	service ports.Service
}

// NewInlinePetWorkflows wraps the pets service for synchronous execution.
func NewInlinePetWorkflows(service ports.Service) *InlinePetWorkflows {
	return &InlinePetWorkflows{service: service}
}

// CreatePet delegates to the application service without durable orchestration.
func (o *InlinePetWorkflows) CreatePet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline pet workflows not configured")
	}
	return o.service.AddPet(ctx, input)
}

// unwrapWorkflowError restores application sentinels lost in Temporal's error serialization.
func unwrapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() == petactivities.ErrTypeInvalidInput {
		return fmt.Errorf("%w: %s", petsapp.ErrInvalidInput, appErr.Message())
	}
	return err
}

func buildPetCreationWorkflowID(input petstypes.AddPetInput, traceComponent string) string {
	idComponent := input.ID
	if idComponent == 0 {
		idComponent = time.Now().UnixNano()
	}
	return fmt.Sprintf("pet-creation-%d-%s", idComponent, traceComponent)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceComponent := workflowTraceID(ctx); traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
