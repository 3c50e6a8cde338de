package mock

import (
	"context"
	"fmt"
	"log/slog"

	petstypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	petsports "github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

// Seed stores one pet per documented status so status searches return data offline.
func Seed(ctx context.Context, service petsports.Service, logger *slog.Logger) error {
	seeds := []struct {
		name   string
		status domain.Status
		tag    string
	}{
		{name: "doggie", status: domain.StatusAvailable, tag: "friendly"},
		{name: "kitty", status: domain.StatusPending, tag: "shy"},
		{name: "parrot", status: domain.StatusSold, tag: "loud"},
	}
	for i, seed := range seeds {
		name := seed.name
		status := string(seed.status)
		urls := []string{fmt.Sprintf("https://example.com/%s.png", seed.name)}
		tags := []petstypes.TagInput{{ID: int64(i + 1), Name: seed.tag}}
		saved, err := service.AddPet(ctx, petstypes.AddPetInput{PetMutationInput: petstypes.PetMutationInput{
			Name:      &name,
			Status:    &status,
			PhotoURLs: &urls,
			Tags:      &tags,
		}})
		if err != nil {
			return fmt.Errorf("seed %s: %w", seed.name, err)
		}
		if logger != nil {
			logger.Info("seeded pet", slog.Int64("pet.id", saved.Entity.ID), slog.String("status", status))
		}
	}
	return nil
}
