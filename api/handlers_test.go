/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Client CRUD and error mapping
- Assessment submission (calculate + persist + respond)
- Questionnaire submission (match and no-match outcomes)
- Scenario loading
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/advisory-engine/api"
	"github.com/warp/advisory-engine/store/sqlite"
	"github.com/warp/advisory-engine/strategy"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store, strategy.NewDefaultMatcher())
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createClient(t *testing.T, srv *httptest.Server, id string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients", api.CreateClientRequest{
		ID:     id,
		Name:   "Test Client",
		Email:  "test@example.com",
		Status: "prospect",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// =============================================================================
// CLIENT CRUD
// =============================================================================

func TestClients_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/clients/cli-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[api.ClientDTO](t, resp)
	assert.Equal(t, "cli-1", dto.ID)
	assert.Equal(t, "prospect", dto.Status)
}

func TestClients_DuplicateID_Conflict(t *testing.T) {
	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients", api.CreateClientRequest{
		ID: "cli-1", Name: "Other",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestClients_UpdatePromotesProspect(t *testing.T) {
	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/clients/cli-1", api.UpdateClientRequest{
		Name: "Test Client", Status: "client",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[api.ClientDTO](t, resp)
	assert.Equal(t, "client", dto.Status)
}

func TestClients_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/clients/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/clients/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// ASSESSMENTS
// =============================================================================

func workedExampleRequest() api.AssessmentRequest {
	f := func(v float64) *float64 { return &v }
	return api.AssessmentRequest{
		OfficePercentage:  25,
		IsOwnerOccupied:   true,
		MortgageInterest:  f(20000),
		PropertyInsurance: f(1500),
		CouncilRates:      f(2500),
		Electricity:       f(2000),
		Internet:          f(1200),
		HasVehicle:        true,
		BusinessKms:       f(6000),
		EquipmentPurchases: []api.EquipmentPurchaseDTO{
			{Cost: 3000},
			{Cost: 25000},
		},
	}
}

func TestSubmitAssessment_CalculatesAndPersists(t *testing.T) {
	// GIVEN: A client and the worked owner-occupier example
	// WHEN: Submitting the assessment
	// THEN: The response carries the hand-computed figures, and fetching
	//       the assessment returns the same persisted values

	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/cli-1/assessments",
		workedExampleRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dto := decode[api.AssessmentDTO](t, resp)
	assert.Equal(t, 6000.0, dto.OccupancyExpenses)
	assert.Equal(t, 800.0, dto.RunningExpenses)
	assert.Equal(t, 6800.0, dto.HomeOfficeDeduction)
	assert.Equal(t, 4400.0, dto.VehicleDeduction)
	assert.Equal(t, 3000.0, dto.EquipmentDeduction)
	assert.Equal(t, 14200.0, dto.TotalDeductions)
	assert.Equal(t, 4615.0, dto.EstimatedTaxSaving)
	assert.Equal(t, "actual_cost", dto.RecommendedMethod)

	getResp := doJSON(t, http.MethodGet, srv.URL+"/api/assessments/"+dto.ID, nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	stored := decode[api.AssessmentDTO](t, getResp)
	assert.Equal(t, dto.TotalDeductions, stored.TotalDeductions)
	assert.Equal(t, dto.EstimatedTaxSaving, stored.EstimatedTaxSaving)
}

func TestSubmitAssessment_UnknownClient_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/missing/assessments",
		workedExampleRequest())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitAssessment_EmptyBody_AllZero(t *testing.T) {
	// An all-absent submission is valid business input, not an error.
	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/cli-1/assessments",
		api.AssessmentRequest{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dto := decode[api.AssessmentDTO](t, resp)
	assert.Equal(t, 0.0, dto.TotalDeductions)
	assert.Equal(t, "none", dto.RecommendedMethod)
}

func TestListAssessments_ReturnsSubmitted(t *testing.T) {
	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/cli-1/assessments",
			workedExampleRequest())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/clients/cli-1/assessments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]api.AssessmentDTO](t, resp), 2)
}

// =============================================================================
// QUESTIONNAIRES
// =============================================================================

func TestSubmitQuestionnaire_Match(t *testing.T) {
	// GIVEN: Answers whose no-set is exactly the re-birth pattern
	// WHEN: Submitting the questionnaire
	// THEN: The strategy is returned and persisted

	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/cli-1/questionnaires",
		api.QuestionnaireRequest{Responses: map[string]string{
			"q1": "yes", "q3": "no", "q15": "no", "q16": "no", "q40": "no",
		}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dto := decode[api.QuestionnaireResultDTO](t, resp)
	assert.True(t, dto.Matched)
	require.NotNil(t, dto.Strategy)
	assert.Equal(t, "Small Business Re-Birth (i)", dto.Strategy.Name)
	assert.Equal(t, []int{3, 15, 16, 40}, dto.NoAnswers)

	listResp := doJSON(t, http.MethodGet, srv.URL+"/api/clients/cli-1/questionnaires", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	results := decode[[]api.QuestionnaireResultDTO](t, listResp)
	require.Len(t, results, 1)
	assert.True(t, results[0].Matched)
	require.NotNil(t, results[0].Strategy)
	assert.Equal(t, "Small Business Re-Birth (i)", results[0].Strategy.Name)
}

func TestSubmitQuestionnaire_NoMatch_IsValidOutcome(t *testing.T) {
	// A profile outside the sixteen strategies is a 201 with matched=false,
	// never an error status.

	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/cli-1/questionnaires",
		api.QuestionnaireRequest{Responses: map[string]string{
			"q1": "no", "q2": "no", "q3": "no",
		}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dto := decode[api.QuestionnaireResultDTO](t, resp)
	assert.False(t, dto.Matched)
	assert.Nil(t, dto.Strategy)
	assert.Equal(t, []int{1, 2, 3}, dto.NoAnswers)
}

func TestSubmitQuestionnaire_MissingResponses_BadRequest(t *testing.T) {
	srv := newTestServer(t)
	createClient(t, srv, "cli-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/cli-1/questionnaires",
		api.QuestionnaireRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// STRATEGIES AND SCENARIOS
// =============================================================================

func TestListStrategies_ReturnsFullTable(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/strategies", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]api.StrategyDTO](t, resp), 16)
}

func TestLoadScenario_RestructureReview(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ScenarioID: "restructure-review"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listResp := doJSON(t, http.MethodGet,
		srv.URL+"/api/clients/demo-restructure/questionnaires", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	results := decode[[]api.QuestionnaireResultDTO](t, listResp)
	require.Len(t, results, 1)
	assert.True(t, results[0].Matched)
}

func TestLoadScenario_Unknown_BadRequest(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
