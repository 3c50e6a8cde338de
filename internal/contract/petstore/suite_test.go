package petstore

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petstore-contract-tests/internal/app/mock"
	"github.com/Apurer/petstore-contract-tests/internal/contract"
)

func newMockClient(t *testing.T) *contract.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(mock.NewInMemoryRouter("/v2"))
	t.Cleanup(server.Close)

	client, err := contract.NewClient(server.URL+"/v2", contract.WithAPIKey("special-key"))
	require.NoError(t, err)
	return client
}

func TestPetContract_AgainstMock(t *testing.T) {
	contract.RunT(t, newMockClient(t), Groups())
}

func TestPetContract_RunnerAgainstMock(t *testing.T) {
	results := contract.NewRunner(newMockClient(t)).Run(context.Background(), Groups())
	require.True(t, results.OK(), "failures: %v", results.Failures)
	require.Equal(t, 14, results.Passed())
}

func TestCreatePet_RecordsFixture(t *testing.T) {
	client := newMockClient(t)
	var fixture contract.Fixture
	require.NoError(t, CreatePet(context.Background(), client, &fixture))
	require.NotZero(t, fixture.PetID)
}

func TestGroups_CaseNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, id := range contract.Selected(Groups(), nil) {
		require.False(t, seen[id.String()], id.String())
		seen[id.String()] = true
	}
	require.Len(t, seen, 14)
}
