package application

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	types "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

// Service orchestrates the pets bounded context use cases.
type Service struct {
	repo   ports.Repository
	nextID func() int64
}

// Option customises the Service.
type Option func(*Service)

// WithIDGenerator overrides how identifiers are assigned to pets created without one.
func WithIDGenerator(next func() int64) Option {
	return func(s *Service) {
		if next != nil {
			s.nextID = next
		}
	}
}

// NewService wires the pets service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, nextID: newSequence(time.Now().UnixMicro())}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddPet persists a new pet aggregate. Any field may be omitted.
func (s *Service) AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error) {
	pet, err := s.buildPet(input.PetMutationInput)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, pet)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdatePet replaces the stored pet with the payload. Unknown or omitted ids create a new pet.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	pet, err := s.buildPet(input.PetMutationInput)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, pet)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdatePetWithForm handles the simplified form flow.
func (s *Service) UpdatePetWithForm(ctx context.Context, input types.UpdatePetWithFormInput) (*types.PetProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	existing := projection.Entity
	if input.Name != nil && *input.Name != "" {
		existing.Rename(*input.Name)
	}
	if input.Status != nil && *input.Status != "" {
		existing.UpdateStatus(domain.Status(*input.Status))
	}
	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// FindByStatus searches pets matching any of the provided statuses.
// Unknown statuses simply match nothing.
func (s *Service) FindByStatus(ctx context.Context, input types.FindPetsByStatusInput) ([]*types.PetProjection, error) {
	statuses := make([]domain.Status, 0, len(input.Statuses))
	for _, value := range splitValues(input.Statuses) {
		statuses = append(statuses, domain.Status(value))
	}
	if len(statuses) == 0 {
		statuses = []domain.Status{domain.StatusAvailable}
	}
	result, err := s.repo.FindByStatus(ctx, statuses)
	if err != nil {
		return nil, mapError(err)
	}
	return nonNil(result), nil
}

// FindByTags searches pets matching any supplied tag name.
func (s *Service) FindByTags(ctx context.Context, input types.FindPetsByTagsInput) ([]*types.PetProjection, error) {
	result, err := s.repo.FindByTags(ctx, splitValues(input.Tags))
	if err != nil {
		return nil, mapError(err)
	}
	return nonNil(result), nil
}

// GetByID loads a single pet aggregate.
func (s *Service) GetByID(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// Delete removes a pet.
func (s *Service) Delete(ctx context.Context, input types.PetIdentifier) error {
	if err := s.repo.Delete(ctx, input.ID); err != nil {
		return mapError(err)
	}
	return nil
}

// List exposes all pets, mostly for seeding and test resets.
func (s *Service) List(ctx context.Context) ([]*types.PetProjection, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return nonNil(result), nil
}

func (s *Service) buildPet(input types.PetMutationInput) (*domain.Pet, error) {
	pet, err := domain.NewPet(input.ID)
	if err != nil {
		return nil, err
	}
	if !pet.HasID() {
		if err := pet.AssignID(s.nextID()); err != nil {
			return nil, err
		}
	}
	applyMutation(pet, input)
	return pet, nil
}

func applyMutation(target *domain.Pet, input types.PetMutationInput) {
	if input.Name != nil {
		target.Rename(*input.Name)
	}
	if input.PhotoURLs != nil {
		target.ReplacePhotos(*input.PhotoURLs)
	}
	if input.Category != nil {
		target.UpdateCategory(&domain.Category{ID: input.Category.ID, Name: input.Category.Name})
	}
	if input.Tags != nil {
		tags := make([]domain.Tag, 0, len(*input.Tags))
		for _, t := range *input.Tags {
			tags = append(tags, domain.Tag{ID: t.ID, Name: t.Name})
		}
		target.ReplaceTags(tags)
	}
	if input.Status != nil {
		target.UpdateStatus(domain.Status(*input.Status))
	}
}

// splitValues accepts both repeated query parameters and comma separated lists.
func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func nonNil(list []*types.PetProjection) []*types.PetProjection {
	if list == nil {
		return []*types.PetProjection{}
	}
	return list
}

func newSequence(start int64) func() int64 {
	var counter atomic.Int64
	counter.Store(start)
	return func() int64 {
		return counter.Add(1)
	}
}

var _ ports.Service = (*Service)(nil)
