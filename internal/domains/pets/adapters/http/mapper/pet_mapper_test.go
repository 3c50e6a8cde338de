package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	petstypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
)

func TestFromDomainPet_EmptyPetKeepsArrays(t *testing.T) {
	pet, err := domain.NewPet(42)
	require.NoError(t, err)

	raw, err := json.Marshal(FromDomainPet(pet))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":42,"photoUrls":[],"tags":[]}`, string(raw))
}

func TestToMutationInput_PreservesPresence(t *testing.T) {
	var payload MutationPet
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Fluffy","tags":[]}`), &payload))

	input := ToMutationInput(payload)
	require.NotNil(t, input.Name)
	require.Equal(t, "Fluffy", *input.Name)
	require.NotNil(t, input.Tags)
	require.Empty(t, *input.Tags)
	require.Nil(t, input.Status)
	require.Nil(t, input.PhotoURLs)
	require.Nil(t, input.Category)
}

func TestFromProjectionList_NeverNil(t *testing.T) {
	require.NotNil(t, FromProjectionList(nil))

	pet, err := domain.NewPet(1)
	require.NoError(t, err)
	pet.UpdateStatus(domain.StatusSold)
	pet.UpdateCategory(&domain.Category{ID: 3, Name: "Dogs"})
	list := FromProjectionList([]*petstypes.PetProjection{{Entity: pet}})
	require.Len(t, list, 1)
	require.Equal(t, "sold", list[0].Status)
	require.Equal(t, "Dogs", list[0].Category.Name)
}
