package petstoreserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	petsmemory "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/memory"
	petsworkflows "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := petsapp.NewService(petsmemory.NewRepository())
	handlers := ApiHandleFunctions{
		PetAPI: NewPetAPI(service, petsworkflows.NewInlinePetWorkflows(service)),
	}
	return NewRouter(handlers)
}

func perform(router http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func decodeArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestAddPet_EchoesPayload(t *testing.T) {
	router := newTestRouter(t)
	rec := perform(router, http.MethodPost, "/v2/pet", `{"name":"Fluffy","status":"available"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	require.Equal(t, "Fluffy", body["name"])
	require.Equal(t, "available", body["status"])
	require.NotZero(t, body["id"])
	require.Equal(t, []any{}, body["photoUrls"])
	require.Equal(t, []any{}, body["tags"])
}

func TestAddPet_EmptyObjectAndEmptyBody(t *testing.T) {
	router := newTestRouter(t)
	for _, payload := range []string{"{}", ""} {
		rec := perform(router, http.MethodPost, "/v2/pet", payload, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeObject(t, rec)
		require.IsType(t, float64(0), body["id"])
		require.Equal(t, []any{}, body["photoUrls"])
		require.Equal(t, []any{}, body["tags"])
		require.NotContains(t, body, "name")
	}
}

func TestAddPet_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)
	rec := perform(router, http.MethodPost, "/v2/pet", `{"id":"abc"`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, map[string]any{"code": float64(400), "type": "unknown", "message": "bad input"}, decodeObject(t, rec))
}

func TestAddPet_NegativeIDIsBadInput(t *testing.T) {
	router := newTestRouter(t)
	rec := perform(router, http.MethodPost, "/v2/pet", `{"id":-5}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPet_RoundTrip(t *testing.T) {
	router := newTestRouter(t)
	created := decodeObject(t, perform(router, http.MethodPost, "/v2/pet", `{"id":321,"name":"Rex"}`, nil))
	require.Equal(t, float64(321), created["id"])

	rec := perform(router, http.MethodGet, "/v2/pet/321", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Last-Modified"))
	require.Equal(t, "Rex", decodeObject(t, rec)["name"])
}

func TestGetPet_NotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := perform(router, http.MethodGet, "/v2/pet/999999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, map[string]any{"code": float64(1), "type": "error", "message": "Pet not found"}, decodeObject(t, rec))
}

func TestInvalidID_NumberFormatMessage(t *testing.T) {
	router := newTestRouter(t)
	for _, method := range []string{http.MethodGet, http.MethodDelete, http.MethodPost} {
		rec := perform(router, method, "/v2/pet/invalid_id", "", http.Header{"api_key": {"special-key"}})
		require.Equal(t, http.StatusNotFound, rec.Code, method)
		body := decodeObject(t, rec)
		require.Equal(t, `java.lang.NumberFormatException: For input string: "invalid_id"`, body["message"], method)
		require.Equal(t, "unknown", body["type"], method)
	}
}

func TestInvalidID_QuoteIsNotEscaped(t *testing.T) {
	router := newTestRouter(t)
	rec := perform(router, http.MethodGet, "/v2/pet/a%22b", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, `java.lang.NumberFormatException: For input string: "a"b"`, decodeObject(t, rec)["message"])
}

func TestGetPet_WithoutIDIsMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)
	rec := perform(router, http.MethodGet, "/v2/pet/", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestUpdatePet_WithIDInPathIsMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)
	for _, target := range []string{"/v2/pet/1", "/v2/pet/999999"} {
		rec := perform(router, http.MethodPut, target, `{"name":"UpdatedName","status":"sold"}`, nil)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, target)
		require.Empty(t, rec.Body.String(), target)
	}
}

func TestUpdatePet_TrailingSlashCreates(t *testing.T) {
	router := newTestRouter(t)
	rec := perform(router, http.MethodPut, "/v2/pet/", `{"name":"UpdatedName","status":"sold"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	require.Equal(t, "UpdatedName", body["name"])
	require.Equal(t, "sold", body["status"])
	require.NotZero(t, body["id"])
}

func TestUpdatePet_ReplacesExisting(t *testing.T) {
	router := newTestRouter(t)
	perform(router, http.MethodPost, "/v2/pet", `{"id":77,"name":"Old","status":"available","tags":[{"id":1,"name":"a"}]}`, nil)

	rec := perform(router, http.MethodPut, "/v2/pet", `{"id":77,"name":"New"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	require.Equal(t, "New", body["name"])
	require.NotContains(t, body, "status")
	require.Equal(t, []any{}, body["tags"])
}

func TestDeletePet(t *testing.T) {
	router := newTestRouter(t)
	perform(router, http.MethodPost, "/v2/pet", `{"id":55}`, nil)
	header := http.Header{"api_key": {"special-key"}}

	rec := perform(router, http.MethodDelete, "/v2/pet/55", "", header)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"code": float64(200), "type": "unknown", "message": "55"}, decodeObject(t, rec))

	rec = perform(router, http.MethodDelete, "/v2/pet/55", "", header)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestFindPetsByStatus(t *testing.T) {
	router := newTestRouter(t)
	perform(router, http.MethodPost, "/v2/pet", `{"id":1,"status":"available"}`, nil)
	perform(router, http.MethodPost, "/v2/pet", `{"id":2,"status":"pending"}`, nil)
	perform(router, http.MethodPost, "/v2/pet", `{"id":3,"status":"sold"}`, nil)

	for _, status := range []string{"available", "pending", "sold"} {
		rec := perform(router, http.MethodGet, "/v2/pet/findByStatus?status="+status, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		pets := decodeArray(t, rec)
		require.Len(t, pets, 1)
		require.Equal(t, status, pets[0]["status"])
	}

	rec := perform(router, http.MethodGet, "/v2/pet/findByStatus?status=pending,sold", "", nil)
	require.Len(t, decodeArray(t, rec), 2)

	rec = perform(router, http.MethodGet, "/v2/pet/findByStatus?status=invalid_status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestFindPetsByTags(t *testing.T) {
	router := newTestRouter(t)
	perform(router, http.MethodPost, "/v2/pet", `{"id":10,"tags":[{"id":1,"name":"fluffy"}]}`, nil)
	perform(router, http.MethodPost, "/v2/pet", `{"id":11,"tags":[{"id":2,"name":"grumpy"}]}`, nil)

	rec := perform(router, http.MethodGet, "/v2/pet/findByTags?tags=fluffy", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pets := decodeArray(t, rec)
	require.Len(t, pets, 1)
	require.Equal(t, float64(10), pets[0]["id"])
}

func TestUpdatePetWithForm(t *testing.T) {
	router := newTestRouter(t)
	perform(router, http.MethodPost, "/v2/pet", `{"id":90,"name":"Before","status":"available"}`, nil)

	form := url.Values{"name": {"After"}, "status": {"sold"}}
	req := httptest.NewRequest(http.MethodPost, "/v2/pet/90", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	require.Equal(t, "After", body["name"])
	require.Equal(t, "sold", body["status"])

	req = httptest.NewRequest(http.MethodPost, "/v2/pet/91", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CustomBasePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := petsapp.NewService(petsmemory.NewRepository())
	router := NewRouter(ApiHandleFunctions{PetAPI: NewPetAPI(service, nil)}, WithBasePath("/"))

	rec := perform(router, http.MethodPost, "/pet", `{"name":"Root"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = perform(router, http.MethodPost, "/v2/pet", `{}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
