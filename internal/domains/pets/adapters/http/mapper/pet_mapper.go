package mapper

import (
	petstypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
)

// Category is the HTTP representation of a pet category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Tag is the HTTP representation of a pet tag.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// MutationPet captures inbound payloads for create/update flows while preserving field presence.
type MutationPet struct {
	ID        int64     `json:"id,omitempty"`
	Category  *Category `json:"category,omitempty"`
	Name      *string   `json:"name,omitempty"`
	PhotoURLs *[]string `json:"photoUrls,omitempty"`
	Tags      *[]Tag    `json:"tags,omitempty"`
	Status    *string   `json:"status,omitempty"`
}

// Pet is the wire shape of the public pet store. photoUrls and tags are always arrays.
type Pet struct {
	ID        int64     `json:"id"`
	Category  *Category `json:"category,omitempty"`
	Name      string    `json:"name,omitempty"`
	PhotoURLs []string  `json:"photoUrls"`
	Tags      []Tag     `json:"tags"`
	Status    string    `json:"status,omitempty"`
}

// FromDomainPet maps a domain aggregate into a transport Pet.
func FromDomainPet(p *domain.Pet) Pet {
	var cat *Category
	if p.Category != nil {
		cat = &Category{ID: p.Category.ID, Name: p.Category.Name}
	}
	tags := make([]Tag, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, Tag{ID: t.ID, Name: t.Name})
	}
	return Pet{
		ID:        p.ID,
		Category:  cat,
		Name:      p.Name,
		PhotoURLs: append([]string{}, p.PhotoURLs...),
		Tags:      tags,
		Status:    string(p.Status),
	}
}

// ToMutationInput converts a mutation payload into an application mutation input while preserving field presence.
func ToMutationInput(model MutationPet) petstypes.PetMutationInput {
	input := petstypes.PetMutationInput{ID: model.ID}
	if model.Name != nil {
		name := *model.Name
		input.Name = &name
	}
	if model.PhotoURLs != nil {
		urls := append([]string{}, (*model.PhotoURLs)...)
		input.PhotoURLs = &urls
	}
	if model.Category != nil {
		input.Category = &petstypes.CategoryInput{ID: model.Category.ID, Name: model.Category.Name}
	}
	if model.Tags != nil {
		tags := make([]petstypes.TagInput, 0, len(*model.Tags))
		for _, tag := range *model.Tags {
			tags = append(tags, petstypes.TagInput{ID: tag.ID, Name: tag.Name})
		}
		input.Tags = &tags
	}
	if model.Status != nil {
		status := *model.Status
		input.Status = &status
	}
	return input
}

// FromProjection maps a projection into a transport pet. Metadata stays server side.
func FromProjection(projection *petstypes.PetProjection) Pet {
	return FromDomainPet(projection.Entity)
}

// FromProjectionList maps a slice of projections into transport pets.
func FromProjectionList(list []*petstypes.PetProjection) []Pet {
	result := make([]Pet, 0, len(list))
	for _, projection := range list {
		result = append(result, FromProjection(projection))
	}
	return result
}
