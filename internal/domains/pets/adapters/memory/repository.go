package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
	"github.com/Apurer/petstore-contract-tests/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the default in-memory store of the reference server.
type Repository struct {
	mu   sync.RWMutex
	pets map[int64]*storedPet
	now  func() time.Time
}

type storedPet struct {
	pet      *domain.Pet
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		pets: map[int64]*storedPet{},
		now:  time.Now,
	}
}

// WithClock swaps the time source used for metadata.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.mu.Lock()
		r.now = now
		r.mu.Unlock()
	}
	return r
}

// Save inserts or replaces a pet while maintaining metadata.
func (r *Repository) Save(_ context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var metadata projection.Metadata
	if entry, ok := r.pets[pet.ID]; ok {
		metadata = entry.metadata
	}
	stored := &storedPet{
		pet:      pet.Clone(),
		metadata: metadata.Touch(r.now()),
	}
	r.pets[pet.ID] = stored
	return projectionCopy(stored), nil
}

// GetByID fetches a pet if present.
func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pets[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

// Delete removes a pet.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.pets, id)
	return nil
}

// FindByStatus returns pets with matching status, ordered by id.
func (r *Repository) FindByStatus(_ context.Context, statuses []domain.Status) ([]*projection.Projection[*domain.Pet], error) {
	set := make(map[domain.Status]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return r.filter(func(p *domain.Pet) bool {
		_, ok := set[p.Status]
		return ok
	}), nil
}

// FindByTags returns pets carrying any of the tag names, ordered by id.
func (r *Repository) FindByTags(_ context.Context, tags []string) ([]*projection.Projection[*domain.Pet], error) {
	if len(tags) == 0 {
		return []*projection.Projection[*domain.Pet]{}, nil
	}
	return r.filter(func(p *domain.Pet) bool {
		for _, tag := range tags {
			if p.HasTag(tag) {
				return true
			}
		}
		return false
	}), nil
}

// List returns all pets ordered by id.
func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Pet], error) {
	return r.filter(func(*domain.Pet) bool { return true }), nil
}

// Len reports the number of stored pets.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pets)
}

func (r *Repository) filter(keep func(*domain.Pet) bool) []*projection.Projection[*domain.Pet] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Pet], 0, len(r.pets))
	for _, entry := range r.pets {
		if keep(entry.pet) {
			list = append(list, projectionCopy(entry))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Entity.ID < list[j].Entity.ID })
	return list
}

func projectionCopy(entry *storedPet) *projection.Projection[*domain.Pet] {
	return &projection.Projection[*domain.Pet]{
		Entity:   entry.pet.Clone(),
		Metadata: entry.metadata,
	}
}
