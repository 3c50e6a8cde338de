package types

// CategoryInput describes the category payload supplied to pet use cases.
type CategoryInput struct {
	ID   int64
	Name string
}

// TagInput carries tag metadata for pet commands.
type TagInput struct {
	ID   int64
	Name string
}

// PetMutationInput carries a full pet payload. Pointer fields preserve whether the client sent them.
type PetMutationInput struct {
	ID        int64
	Name      *string
	PhotoURLs *[]string
	Category  *CategoryInput
	Tags      *[]TagInput
	Status    *string
}

// AddPetInput captures the request to add a new pet into the catalog.
type AddPetInput struct {
	PetMutationInput
}

// UpdatePetInput replaces a pet, creating it when the id is unknown or omitted.
type UpdatePetInput struct {
	PetMutationInput
}

// UpdatePetWithFormInput models the simplified form-based update flow.
type UpdatePetWithFormInput struct {
	ID     int64
	Name   *string
	Status *string
}
