package types

import (
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	"github.com/Apurer/petstore-contract-tests/internal/shared/projection"
)

// PetProjection transports a domain aggregate together with its persistence metadata.
type PetProjection = projection.Projection[*domain.Pet]

// ClonePetProjection duplicates a projection including the aggregate.
func ClonePetProjection(src *PetProjection) *PetProjection {
	if src == nil {
		return nil
	}
	return &PetProjection{Entity: src.Entity.Clone(), Metadata: src.Metadata}
}
