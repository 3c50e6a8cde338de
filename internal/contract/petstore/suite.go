// Package petstore holds the contract of the public pet store's pet endpoints as data.
package petstore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/petstore-contract-tests/internal/contract"
	apierrors "github.com/Apurer/petstore-contract-tests/internal/shared/errors"
)

// Group names.
const (
	GroupCreate       = "Creating pets"
	GroupDelete       = "Deleting pets"
	GroupFindByStatus = "Finding Pets by status"
	GroupGetByID      = "Finding pets by ID"
	GroupUpdate       = "Updating pets"
)

const (
	missingPetID = 999999
	invalidPetID = "invalid_id"
)

var endpoints = contract.NewEndpoints()

// CreatePayload is the pet the create group posts.
func CreatePayload() map[string]any {
	return map[string]any{"name": "Fluffy", "status": "available"}
}

// UpdatePayload is the pet the update group puts.
func UpdatePayload() map[string]any {
	return map[string]any{"name": "UpdatedName", "status": "sold"}
}

// Groups returns the whole pet contract.
func Groups() []contract.Group {
	return []contract.Group{
		CreateGroup(),
		DeleteGroup(),
		FindByStatusGroup(),
		GetByIDGroup(),
		UpdateGroup(),
	}
}

// CreateGroup covers POST /pet. Its setup creates a pet and records the id.
func CreateGroup() contract.Group {
	return contract.Group{
		Name:  GroupCreate,
		Setup: CreatePet,
		Cases: []contract.Case{
			{
				Name:    "should create a new pet when all required fields are provided",
				Request: contract.Request{Method: http.MethodPost, Path: endpoints.Pets(), Body: CreatePayload()},
				Status:  http.StatusOK,
				Body:    contract.ObjectContaining(CreatePayload()),
			},
			{
				Name:    "should return a 200 status code and a pet object with default values when pet data is empty",
				Request: contract.Request{Method: http.MethodPost, Path: endpoints.Pets(), Body: map[string]any{}},
				Status:  http.StatusOK,
				Body: contract.ObjectContaining(map[string]any{
					"id":        contract.AnyNumber(),
					"photoUrls": contract.EmptyArray(),
					"tags":      contract.EmptyArray(),
				}),
			},
		},
	}
}

// CreatePet posts the create payload and stores the returned id in the fixture.
func CreatePet(ctx context.Context, client *contract.Client, fixture *contract.Fixture) error {
	resp, err := client.Do(ctx, contract.Request{Method: http.MethodPost, Path: endpoints.Pets(), Body: CreatePayload()})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("creating pet: status %d: %s", resp.StatusCode, resp.Body)
	}
	id, ok := resp.PetID()
	if !ok {
		return fmt.Errorf("creating pet: no numeric id in %s", resp.Body)
	}
	fixture.PetID = id
	return nil
}

// DeleteGroup covers DELETE /pet/{petId} with the static api key.
func DeleteGroup() contract.Group {
	return contract.Group{
		Name: GroupDelete,
		Cases: []contract.Case{
			{
				Name:    "should return 404 when a non-existing ID is provided",
				Request: contract.Request{Method: http.MethodDelete, Path: endpoints.MustPet(missingPetID), Authenticated: true},
				Status:  http.StatusNotFound,
				Body:    contract.EmptyObject(),
			},
			{
				Name:    "should return an error when an invalid ID is provided",
				Request: contract.Request{Method: http.MethodDelete, Path: endpoints.MustPet(invalidPetID), Authenticated: true},
				Status:  http.StatusNotFound,
				Body:    contract.ObjectContaining(map[string]any{"message": apierrors.NumberFormatMessage(invalidPetID)}),
			},
		},
	}
}

// FindByStatusGroup covers GET /pet/findByStatus.
func FindByStatusGroup() contract.Group {
	group := contract.Group{Name: GroupFindByStatus}
	names := map[string]string{
		"available": "should find pets by status",
		"pending":   "should find pets with status pending",
		"sold":      "should find pets with status sold",
	}
	for _, status := range []string{"available", "pending", "sold"} {
		group.Cases = append(group.Cases, contract.Case{
			Name:    names[status],
			Request: findByStatus(status),
			Status:  http.StatusOK,
			Body:    contract.AllOf(contract.AnyArray(), contract.Every("status", status)),
		})
	}
	group.Cases = append(group.Cases, contract.Case{
		Name:    "should return an empty array for invalid status",
		Request: findByStatus("invalid_status"),
		Status:  http.StatusOK,
		Body:    contract.EmptyArray(),
	})
	return group
}

func findByStatus(status string) contract.Request {
	path, query, err := endpoints.FindByStatus(status)
	if err != nil {
		panic(err)
	}
	return contract.Request{Method: http.MethodGet, Path: path, Query: query}
}

// GetByIDGroup covers GET /pet/{petId}, including the route without an id.
func GetByIDGroup() contract.Group {
	return contract.Group{
		Name: GroupGetByID,
		Cases: []contract.Case{
			{
				Name:    "should return 404 for non-existing ID",
				Request: contract.Request{Method: http.MethodGet, Path: endpoints.MustPet(missingPetID)},
				Status:  http.StatusNotFound,
				Body:    contract.ObjectContaining(map[string]any{"message": "Pet not found"}),
			},
			{
				Name:    "should return an error for invalid ID",
				Request: contract.Request{Method: http.MethodGet, Path: endpoints.MustPet(invalidPetID)},
				Status:  http.StatusNotFound,
				Body:    contract.ObjectContaining(map[string]any{"message": apierrors.NumberFormatMessage(invalidPetID)}),
			},
			{
				Name:    "should return an error when ID is not provided",
				Request: contract.Request{Method: http.MethodGet, Path: endpoints.PetsTrailingSlash()},
				Status:  http.StatusMethodNotAllowed,
				Body:    contract.EmptyObject(),
			},
		},
	}
}

// UpdateGroup covers PUT, where an id in the path is not routed.
func UpdateGroup() contract.Group {
	return contract.Group{
		Name: GroupUpdate,
		Cases: []contract.Case{
			{
				Name:    "should return 405 when a valid ID and data are provided",
				Request: contract.Request{Method: http.MethodPut, Path: endpoints.MustPet(1), Body: UpdatePayload()},
				Status:  http.StatusMethodNotAllowed,
				Body:    contract.EmptyObject(),
			},
			{
				Name:    "should return 405 when a non-existing ID is provided",
				Request: contract.Request{Method: http.MethodPut, Path: endpoints.MustPet(missingPetID), Body: UpdatePayload()},
				Status:  http.StatusMethodNotAllowed,
				Body:    contract.EmptyObject(),
			},
			{
				Name:    "should return 200 and the created pet when ID is not provided",
				Request: contract.Request{Method: http.MethodPut, Path: endpoints.PetsTrailingSlash(), Body: UpdatePayload()},
				Status:  http.StatusOK,
				Body:    contract.ObjectContaining(UpdatePayload()),
			},
		},
	}
}
