package petstoreserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	pethttpmapper "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/http/mapper"
	petstypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	petsports "github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
	apierrors "github.com/Apurer/petstore-contract-tests/internal/shared/errors"
)

// PetAPI wires HTTP transport with the pets bounded context service and workflows.
type PetAPI struct {
	service   petsports.Service
	workflows petsports.WorkflowOrchestrator
}

// NewPetAPI creates a PetAPI backed by the provided service.
func NewPetAPI(service petsports.Service, workflows petsports.WorkflowOrchestrator) PetAPI {
	return PetAPI{service: service, workflows: workflows}
}

// Post /v2/pet
// Add a new pet to the store
func (api *PetAPI) AddPet(c *gin.Context) {
	payload, ok := bindMutation(c)
	if !ok {
		return
	}
	input := petstypes.AddPetInput{PetMutationInput: pethttpmapper.ToMutationInput(payload)}
	saved, err := api.createPet(c.Request.Context(), input)
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(saved))
}

func (api *PetAPI) createPet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	if api.workflows != nil {
		return api.workflows.CreatePet(ctx, input)
	}
	return api.service.AddPet(ctx, input)
}

// Delete /v2/pet/:petId
// Deletes a pet
func (api *PetAPI) DeletePet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	err := api.service.Delete(c.Request.Context(), petstypes.PetIdentifier{ID: id})
	if errors.Is(err, petsports.ErrNotFound) {
		apierrors.RespondEmpty(c, http.StatusNotFound)
		return
	}
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierrors.NewDeletedResponse(id))
}

// Get /v2/pet/findByStatus
// Finds Pets by status
func (api *PetAPI) FindPetsByStatus(c *gin.Context) {
	statuses := c.QueryArray("status")
	result, err := api.service.FindByStatus(c.Request.Context(), petstypes.FindPetsByStatusInput{Statuses: statuses})
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjectionList(result))
}

// Get /v2/pet/findByTags
// Finds Pets by tags
// Deprecated
func (api *PetAPI) FindPetsByTags(c *gin.Context) {
	tags := c.QueryArray("tags")
	result, err := api.service.FindByTags(c.Request.Context(), petstypes.FindPetsByTagsInput{Tags: tags})
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjectionList(result))
}

// Get /v2/pet/:petId
// Find pet by ID
func (api *PetAPI) GetPetById(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	pet, err := api.service.GetByID(c.Request.Context(), petstypes.PetIdentifier{ID: id})
	if errors.Is(err, petsports.ErrNotFound) {
		apierrors.Respond(c, apierrors.ErrPetNotFound)
		return
	}
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	if updated := pet.Metadata.UpdatedAt; !updated.IsZero() {
		c.Header("Last-Modified", updated.UTC().Format(http.TimeFormat))
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(pet))
}

// Put /v2/pet
// Update an existing pet
func (api *PetAPI) UpdatePet(c *gin.Context) {
	payload, ok := bindMutation(c)
	if !ok {
		return
	}
	input := petstypes.UpdatePetInput{PetMutationInput: pethttpmapper.ToMutationInput(payload)}
	updated, err := api.service.UpdatePet(c.Request.Context(), input)
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(updated))
}

// Post /v2/pet/:petId
// Updates a pet in the store with form data
func (api *PetAPI) UpdatePetWithForm(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	name := c.PostForm("name")
	status := c.PostForm("status")
	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}
	input := petstypes.UpdatePetWithFormInput{ID: id, Name: namePtr, Status: statusPtr}
	updated, err := api.service.UpdatePetWithForm(c.Request.Context(), input)
	if errors.Is(err, petsports.ErrNotFound) {
		apierrors.RespondEmpty(c, http.StatusNotFound)
		return
	}
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(updated))
}

// bindMutation decodes a pet payload. An empty body counts as an empty object.
func bindMutation(c *gin.Context) (pethttpmapper.MutationPet, bool) {
	var payload pethttpmapper.MutationPet
	body, err := c.GetRawData()
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadInput)
		return payload, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return payload, true
	}
	if err := binding.JSON.BindBody(body, &payload); err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, apierrors.ErrBadInput)
		return payload, false
	}
	return payload, true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		apierrors.Respond(c, apierrors.NewNumberFormatResponse(value))
		return 0, false
	}
	return id, true
}
