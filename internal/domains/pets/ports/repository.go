package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	"github.com/Apurer/petstore-contract-tests/internal/shared/projection"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

var ErrNotFound = errors.New("pet not found")

// Repository is the outbound persistence port of the pets bounded context.
type Repository interface {
	Save(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Pet], error)
	Delete(ctx context.Context, id int64) error
	FindByStatus(ctx context.Context, statuses []domain.Status) ([]*projection.Projection[*domain.Pet], error)
	FindByTags(ctx context.Context, tags []string) ([]*projection.Projection[*domain.Pet], error)
	List(ctx context.Context) ([]*projection.Projection[*domain.Pet], error)
}
