/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates clients, assessments,
	and questionnaire results that demonstrate specific features.

AVAILABLE SCENARIOS:

	owner-occupier:       Consultant who owns their home; actual-cost wins
	renting-contractor:   Renter with high hours; fixed-rate wins
	restructure-review:   Prospect whose questionnaire matches a strategy

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create clients
 3. Submit assessments/questionnaires through the same engine paths the
    API uses, so demo figures always agree with live calculations

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "owner-occupier"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - deduction/, strategy/: Engines the loaders call
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/warp/advisory-engine/deduction"
	"github.com/warp/advisory-engine/store/sqlite"
	"github.com/warp/advisory-engine/strategy"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "owner-occupier",
		Name:        "Owner-Occupier Consultant",
		Description: "Home owner with a 25% office, capped vehicle claim, and a mixed equipment list; actual-cost method wins",
	},
	{
		ID:          "renting-contractor",
		Name:        "Renting Contractor",
		Description: "Renter with modest expenses but long hours; fixed-rate method wins",
	},
	{
		ID:          "restructure-review",
		Name:        "Restructure Review",
		Description: "Prospect whose questionnaire answers match the Small Business Re-Birth (i) strategy",
	},
}

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario reports which scenario is loaded, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "owner-occupier":
		err = h.loadOwnerOccupierScenario(ctx)
	case "renting-contractor":
		err = h.loadRentingContractorScenario(ctx)
	case "restructure-review":
		err = h.loadRestructureReviewScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// LOADERS
// =============================================================================

func fptr(v float64) *float64 { return &v }

// saveCalculated runs an input through the engines and persists the
// results, exactly as SubmitAssessment does.
func (h *Handler) saveCalculated(ctx context.Context, clientID string, raw deduction.CalculatorInput) error {
	input := deduction.Sanitize(raw)
	result := deduction.Calculate(input)
	method := deduction.RecommendMethod(input)

	inputJSON, err := json.Marshal(raw)
	if err != nil {
		return err
	}

	return h.Store.SaveAssessment(ctx, sqlite.AssessmentRecord{
		ID:                  uuid.New().String(),
		ClientID:            clientID,
		InputJSON:           string(inputJSON),
		OccupancyExpenses:   result.OccupancyExpenses,
		RunningExpenses:     result.RunningExpenses,
		HomeOfficeDeduction: result.HomeOfficeDeduction,
		VehicleDeduction:    result.VehicleDeduction,
		EquipmentDeduction:  result.EquipmentDeduction,
		TotalDeductions:     result.TotalDeductions,
		EstimatedTaxSaving:  result.EstimatedTaxSaving,
		RecommendedMethod:   string(method.Method),
		CreatedAt:           time.Now().UTC(),
	})
}

func (h *Handler) loadOwnerOccupierScenario(ctx context.Context) error {
	client := sqlite.Client{
		ID:        "demo-owner",
		Name:      "Priya Raman",
		Email:     "priya@example.com",
		Status:    sqlite.StatusClient,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateClient(ctx, client); err != nil {
		return err
	}

	return h.saveCalculated(ctx, client.ID, deduction.CalculatorInput{
		OfficePercentage:  25,
		HoursPerWeek:      fptr(20),
		IsOwnerOccupied:   true,
		MortgageInterest:  fptr(20000),
		PropertyInsurance: fptr(1500),
		CouncilRates:      fptr(2500),
		Electricity:       fptr(2000),
		Internet:          fptr(1200),
		HasVehicle:        true,
		BusinessKms:       fptr(6000),
		EquipmentPurchases: []deduction.EquipmentPurchase{
			{Cost: 3000},
			{Cost: 25000},
		},
	})
}

func (h *Handler) loadRentingContractorScenario(ctx context.Context) error {
	client := sqlite.Client{
		ID:        "demo-renter",
		Name:      "Max Okafor",
		Email:     "max@example.com",
		Status:    sqlite.StatusClient,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateClient(ctx, client); err != nil {
		return err
	}

	return h.saveCalculated(ctx, client.ID, deduction.CalculatorInput{
		OfficePercentage: 8,
		HoursPerWeek:     fptr(45),
		IsOwnerOccupied:  false,
		Rent:             fptr(2400),
		Electricity:      fptr(900),
		Internet:         fptr(960),
	})
}

func (h *Handler) loadRestructureReviewScenario(ctx context.Context) error {
	client := sqlite.Client{
		ID:        "demo-restructure",
		Name:      "Harbour Lane Joinery Pty Ltd",
		Email:     "accounts@harbourlane.example.com",
		Status:    sqlite.StatusProspect,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateClient(ctx, client); err != nil {
		return err
	}

	responses := map[string]string{
		"q1": "yes", "q2": "yes", "q3": "no",
		"q15": "no", "q16": "no", "q40": "no",
	}
	noAnswers := strategy.ExtractNoAnswers(responses)
	matched := h.Matcher.Match(noAnswers)

	responsesJSON, _ := json.Marshal(responses)
	noAnswersJSON, _ := json.Marshal(noAnswers)

	record := sqlite.ResponseRecord{
		ID:            uuid.New().String(),
		ClientID:      client.ID,
		ResponsesJSON: string(responsesJSON),
		NoAnswersJSON: string(noAnswersJSON),
		CreatedAt:     time.Now().UTC(),
	}
	if matched != nil {
		record.StrategyName = &matched.Name
	}
	return h.Store.SaveResponse(ctx, record)
}
