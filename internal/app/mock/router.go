package mock

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	petstoreserver "github.com/Apurer/petstore-contract-tests/go"
	petsmemory "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/memory"
	petsworkflows "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
	petsports "github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

// ServiceName identifies the reference server in traces and logs.
const ServiceName = "petstore-mock"

// NewRouter builds the gin engine serving the pet routes below basePath.
// A nil orchestrator creates pets through the service directly.
func NewRouter(service petsports.Service, workflows petsports.WorkflowOrchestrator, basePath string) *gin.Engine {
	if workflows == nil {
		workflows = petsworkflows.NewInlinePetWorkflows(service)
	}
	handlers := petstoreserver.ApiHandleFunctions{
		PetAPI: petstoreserver.NewPetAPI(service, workflows),
	}
	return petstoreserver.NewRouter(
		handlers,
		petstoreserver.WithBasePath(basePath),
		petstoreserver.WithMiddleware(otelgin.Middleware(ServiceName)),
	)
}

// NewInMemoryRouter serves a fresh in-memory store. It backs offline contract runs and tests.
func NewInMemoryRouter(basePath string) *gin.Engine {
	service := petsapp.NewService(petsmemory.NewRepository())
	return NewRouter(service, nil, basePath)
}
