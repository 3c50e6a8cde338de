package domain

import (
	"errors"
	"strings"
)

// Status represents the lifecycle state of a pet inside the store catalog.
// The public store accepts arbitrary labels, so unknown values are kept verbatim.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

// Known reports whether the status is one of the documented lifecycle values.
func (s Status) Known() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusSold:
		return true
	}
	return false
}

// Category groups pets in the catalog.
type Category struct {
	ID   int64
	Name string
}

// Tag is a lightweight marker attached to pets for filtering.
type Tag struct {
	ID   int64
	Name string
}

// Pet represents the aggregate managed by the pets bounded context.
// Every field except the identifier is optional; an empty payload is a valid pet.
type Pet struct {
	ID        int64
	Category  *Category
	Name      string
	PhotoURLs []string
	Tags      []Tag
	Status    Status
}

var ErrNegativeID = errors.New("pet id must not be negative")

// NewPet builds an empty pet aggregate. An id of zero means "not assigned yet".
func NewPet(id int64) (*Pet, error) {
	p := &Pet{PhotoURLs: []string{}, Tags: []Tag{}}
	if err := p.AssignID(id); err != nil {
		return nil, err
	}
	return p, nil
}

// AssignID sets the aggregate identifier.
func (p *Pet) AssignID(id int64) error {
	if id < 0 {
		return ErrNegativeID
	}
	p.ID = id
	return nil
}

// HasID reports whether an identifier has been assigned.
func (p *Pet) HasID() bool {
	return p.ID != 0
}

// Rename sets the pet name. Empty names are allowed.
func (p *Pet) Rename(name string) {
	p.Name = name
}

// ReplacePhotos swaps the photo list, never leaving it nil.
func (p *Pet) ReplacePhotos(urls []string) {
	p.PhotoURLs = append([]string{}, urls...)
}

// UpdateStatus stores the status label as given.
func (p *Pet) UpdateStatus(status Status) {
	p.Status = status
}

// ReplaceTags swaps the current tag set, never leaving it nil.
func (p *Pet) ReplaceTags(tags []Tag) {
	p.Tags = append([]Tag{}, tags...)
}

// UpdateCategory sets a new category pointer.
func (p *Pet) UpdateCategory(cat *Category) {
	if cat == nil {
		p.Category = nil
		return
	}
	copy := *cat
	p.Category = &copy
}

// HasTag matches tag names case-insensitively.
func (p *Pet) HasTag(name string) bool {
	for _, tag := range p.Tags {
		if strings.EqualFold(tag.Name, name) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand across layers.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	clone := *p
	clone.UpdateCategory(p.Category)
	clone.ReplacePhotos(p.PhotoURLs)
	clone.ReplaceTags(p.Tags)
	return &clone
}
