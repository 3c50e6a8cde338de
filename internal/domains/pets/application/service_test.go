package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	petmemory "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/memory"
	pettypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports/mocks"
)

func strPtr(v string) *string { return &v }

func fixedIDs(ids ...int64) func() int64 {
	i := 0
	return func() int64 {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestAddPet_Success(t *testing.T) {
	repo := petmemory.NewRepository()
	svc := NewService(repo)

	photos := []string{"http://example.com/rex.jpg"}
	proj, err := svc.AddPet(context.Background(), pettypes.AddPetInput{
		PetMutationInput: pettypes.PetMutationInput{
			ID:        1,
			Name:      strPtr("Rex"),
			PhotoURLs: &photos,
			Status:    strPtr("available"),
		},
	})

	require.NoError(t, err)
	require.NotNil(t, proj)
	require.Equal(t, int64(1), proj.Entity.ID)
	require.Equal(t, "Rex", proj.Entity.Name)
	require.Equal(t, domain.StatusAvailable, proj.Entity.Status)
	require.False(t, proj.Metadata.CreatedAt.IsZero())
	require.False(t, proj.Metadata.UpdatedAt.IsZero())
}

func TestAddPet_EmptyPayloadGetsDefaults(t *testing.T) {
	svc := NewService(petmemory.NewRepository(), WithIDGenerator(fixedIDs(42)))

	proj, err := svc.AddPet(context.Background(), pettypes.AddPetInput{})
	require.NoError(t, err)
	require.Equal(t, int64(42), proj.Entity.ID)
	require.Empty(t, proj.Entity.Name)
	require.NotNil(t, proj.Entity.PhotoURLs)
	require.Empty(t, proj.Entity.PhotoURLs)
	require.NotNil(t, proj.Entity.Tags)
	require.Empty(t, proj.Entity.Tags)
}

func TestAddPet_NegativeID(t *testing.T) {
	svc := NewService(petmemory.NewRepository())

	_, err := svc.AddPet(context.Background(), pettypes.AddPetInput{
		PetMutationInput: pettypes.PetMutationInput{ID: -5},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNegativeID)
}

func TestUpdatePet_WithoutIDCreates(t *testing.T) {
	repo := petmemory.NewRepository()
	svc := NewService(repo, WithIDGenerator(fixedIDs(100)))

	proj, err := svc.UpdatePet(context.Background(), pettypes.UpdatePetInput{
		PetMutationInput: pettypes.PetMutationInput{Name: strPtr("UpdatedName"), Status: strPtr("sold")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(100), proj.Entity.ID)
	require.Equal(t, "UpdatedName", proj.Entity.Name)
	require.Equal(t, domain.StatusSold, proj.Entity.Status)
	require.Equal(t, 1, repo.Len())
}

func TestUpdatePet_ReplacesExistingAndKeepsCreatedAt(t *testing.T) {
	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := petmemory.NewRepository().WithClock(func() time.Time { return current })
	svc := NewService(repo)

	created, err := svc.AddPet(context.Background(), pettypes.AddPetInput{
		PetMutationInput: pettypes.PetMutationInput{ID: 2, Name: strPtr("Rex"), Status: strPtr("available")},
	})
	require.NoError(t, err)

	current = current.Add(time.Minute)
	updated, err := svc.UpdatePet(context.Background(), pettypes.UpdatePetInput{
		PetMutationInput: pettypes.PetMutationInput{ID: 2, Name: strPtr("Rexy")},
	})
	require.NoError(t, err)
	require.Equal(t, "Rexy", updated.Entity.Name)
	require.Empty(t, updated.Entity.Status)
	require.Equal(t, created.Metadata.CreatedAt, updated.Metadata.CreatedAt)
	require.True(t, updated.Metadata.UpdatedAt.After(created.Metadata.UpdatedAt))
}

func TestUpdatePetWithForm(t *testing.T) {
	svc := NewService(petmemory.NewRepository())
	ctx := context.Background()

	_, err := svc.UpdatePetWithForm(ctx, pettypes.UpdatePetWithFormInput{ID: 999999, Name: strPtr("x")})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.AddPet(ctx, pettypes.AddPetInput{
		PetMutationInput: pettypes.PetMutationInput{ID: 3, Name: strPtr("Tom"), Status: strPtr("available")},
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePetWithForm(ctx, pettypes.UpdatePetWithFormInput{ID: 3, Status: strPtr("pending")})
	require.NoError(t, err)
	require.Equal(t, "Tom", updated.Entity.Name)
	require.Equal(t, domain.StatusPending, updated.Entity.Status)
}

func TestFindByStatus_SplitsAndDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo)
	ctx := context.Background()

	repo.EXPECT().
		FindByStatus(gomock.Any(), []domain.Status{domain.StatusPending, domain.StatusSold}).
		Return(nil, nil)
	result, err := svc.FindByStatus(ctx, pettypes.FindPetsByStatusInput{Statuses: []string{"pending, sold"}})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Empty(t, result)

	repo.EXPECT().
		FindByStatus(gomock.Any(), []domain.Status{domain.StatusAvailable}).
		Return(nil, nil)
	_, err = svc.FindByStatus(ctx, pettypes.FindPetsByStatusInput{})
	require.NoError(t, err)
}

func TestService_PropagatesRepositoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo)
	ctx := context.Background()
	boom := errors.New("connection reset")

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, boom)
	_, err := svc.AddPet(ctx, pettypes.AddPetInput{})
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrInvalidInput)

	repo.EXPECT().Delete(gomock.Any(), int64(999999)).Return(ports.ErrNotFound)
	err = svc.Delete(ctx, pettypes.PetIdentifier{ID: 999999})
	require.ErrorIs(t, err, ports.ErrNotFound)

	repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, boom)
	_, err = svc.GetByID(ctx, pettypes.PetIdentifier{ID: 1})
	require.ErrorIs(t, err, boom)
}

func TestNewSequenceIsMonotonic(t *testing.T) {
	next := newSequence(10)
	require.Equal(t, int64(11), next())
	require.Equal(t, int64(12), next())
}
