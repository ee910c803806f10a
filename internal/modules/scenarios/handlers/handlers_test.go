package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/homestead/internal/modules/charts"
	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/aristath/homestead/internal/modules/scenarios"
	testhelpers "github.com/aristath/homestead/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	logger := zerolog.Nop()

	db := testhelpers.NewTestDB(t, "scenarios")
	repo := scenarios.NewRepository(db.Conn(), logger)
	factory := housing.NewFactory(housing.DefaultSolverConfig(), housing.PrincipalPolicyPermissive, logger)
	handler := NewHandler(scenarios.NewService(repo, factory, logger), charts.NewService(logger), logger)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func createScenario(t *testing.T, router http.Handler, name, fixture string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/scenarios", scenarios.ScenarioInput{
		Name:        name,
		Assumptions: testhelpers.NewAssumptionFixture(fixture).ToMap(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestScenarioLifecycle(t *testing.T) {
	router := setupRouter(t)

	id := createScenario(t, router, "Condo", "default")

	w := do(t, router, http.MethodGet, "/api/scenarios/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Condo", data["name"])
	assumptions := data["assumptions"].(map[string]interface{})
	assert.Equal(t, 900000.0, assumptions["house_price"])

	w = do(t, router, http.MethodPut, "/api/scenarios/"+id, scenarios.ScenarioInput{
		Name:        "Condo, rented",
		Assumptions: testhelpers.NewAssumptionFixture("rented").ToMap(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Len(t, response["data"], 1)
	assert.Equal(t, 1.0, response["metadata"].(map[string]interface{})["count"])

	w = do(t, router, http.MethodDelete, "/api/scenarios/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, "/api/scenarios/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCreate_Validation(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/api/scenarios", scenarios.ScenarioInput{
		Name:        "",
		Assumptions: housing.DefaultAssumptions().ToMap(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	values := housing.DefaultAssumptions().ToMap()
	values["house_price"] = 0
	w = do(t, router, http.MethodPost, "/api/scenarios", scenarios.ScenarioInput{
		Name:        "free house",
		Assumptions: values,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "house_price")
}

func TestHandleMIRR(t *testing.T) {
	router := setupRouter(t)
	id := createScenario(t, router, "Condo", "default")

	w := do(t, router, http.MethodGet, "/api/scenarios/"+id+"/mirr", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode(t, w)
	data := response["data"].(map[string]interface{})
	assert.InDelta(t, -0.013753150183919871, data["mirr"], 1e-6)
	assert.Equal(t, id, response["metadata"].(map[string]interface{})["scenario_id"])

	w = do(t, router, http.MethodGet, "/api/scenarios/missing/mirr", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSensitivity(t *testing.T) {
	router := setupRouter(t)
	id := createScenario(t, router, "Condo", "default")

	sweep := SweepRequest{Attribute: "apr", Lower: 0.001, Upper: 0.004}

	w := do(t, router, http.MethodPost, "/api/scenarios/"+id+"/sensitivity", sweep)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["mirr"], housing.SensitivityPoints)

	w = do(t, router, http.MethodPost, "/api/scenarios/"+id+"/sensitivity?format=chart", sweep)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), charts.YAxisLabel)

	w = do(t, router, http.MethodPost, "/api/scenarios/"+id+"/sensitivity", SweepRequest{Attribute: "rent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
