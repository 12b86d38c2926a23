/*
handlers.go - HTTP API handlers for the advisory portal

PURPOSE:
  Exposes the deduction calculator and strategy matcher via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  the pure engines; compute-then-store sequencing lives here, never in
  the engines.

ENDPOINTS:
  Clients:
    GET    /api/clients                        List clients/prospects
    POST   /api/clients                        Create client
    GET    /api/clients/{id}                   Get client
    PUT    /api/clients/{id}                   Update client
    DELETE /api/clients/{id}                   Delete client

  Assessments:
    POST   /api/clients/{id}/assessments       Submit + calculate + persist
    GET    /api/clients/{id}/assessments       List a client's assessments
    GET    /api/assessments/{id}               Get one assessment

  Questionnaires:
    POST   /api/clients/{id}/questionnaires    Submit + match + persist
    GET    /api/clients/{id}/questionnaires    List a client's results

  Strategies:
    GET    /api/strategies                     The configured pattern table

  Scenarios:
    GET    /api/scenarios                      List demo scenarios
    POST   /api/scenarios/load                 Load a demo scenario
    POST   /api/scenarios/reset                Reset database

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Duplicate client ID
  - 500: Internal errors
  A questionnaire with no matching strategy is 200 with matched=false,
  never an error.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.
  Authentication is an external collaborator in production deployments.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/advisory-engine/deduction"
	"github.com/warp/advisory-engine/store/sqlite"
	"github.com/warp/advisory-engine/strategy"
)

const timeFormat = time.RFC3339

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Matcher *strategy.Matcher

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and matcher.
func NewHandler(store *sqlite.Store, matcher *strategy.Matcher) *Handler {
	return &Handler{
		Store:   store,
		Matcher: matcher,
	}
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients and prospects.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClient creates a new client or prospect.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	status := sqlite.ClientStatus(req.Status)
	if status == "" {
		status = sqlite.StatusProspect
	}
	if status != sqlite.StatusClient && status != sqlite.StatusProspect {
		writeError(w, http.StatusBadRequest, "status must be 'client' or 'prospect'", nil)
		return
	}

	client := sqlite.Client{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Store.CreateClient(r.Context(), client); err != nil {
		if errors.Is(err, sqlite.ErrDuplicateClient) {
			writeError(w, http.StatusConflict, "Client already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientDTO(client))
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}

	writeJSON(w, http.StatusOK, toClientDTO(*client))
}

// UpdateClient updates a client's details.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	status := sqlite.ClientStatus(req.Status)
	if status != sqlite.StatusClient && status != sqlite.StatusProspect {
		writeError(w, http.StatusBadRequest, "status must be 'client' or 'prospect'", nil)
		return
	}

	client := sqlite.Client{
		ID:     id,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: status,
	}

	if err := h.Store.UpdateClient(r.Context(), client); err != nil {
		if errors.Is(err, sqlite.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update client", err)
		return
	}

	updated, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(*updated))
}

// DeleteClient removes a client and their records.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteClient(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete client", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSESSMENT HANDLERS
// =============================================================================

// SubmitAssessment coerces the request into engine input, calculates
// deductions and the recommended method, persists the snapshot + results,
// and returns the full breakdown.
func (h *Handler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := chi.URLParam(r, "id")

	if _, err := h.Store.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, sqlite.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load client", err)
		return
	}

	var req AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input := deduction.Sanitize(toCalculatorInput(req))
	result := deduction.Calculate(input)
	method := deduction.RecommendMethod(input)

	// Persist the snapshot exactly as submitted, alongside the results.
	inputJSON, err := json.Marshal(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode input snapshot", err)
		return
	}

	record := sqlite.AssessmentRecord{
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
	}

	if err := h.Store.SaveAssessment(ctx, record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assessment", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssessmentDTO(record))
}

// ListAssessments returns a client's assessments, newest first.
func (h *Handler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := chi.URLParam(r, "id")

	if _, err := h.Store.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, sqlite.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load client", err)
		return
	}

	records, err := h.Store.ListAssessmentsByClient(ctx, clientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assessments", err)
		return
	}

	dtos := make([]AssessmentDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAssessmentDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAssessment returns a single assessment.
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.Store.GetAssessment(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrAssessmentNotFound) {
			writeError(w, http.StatusNotFound, "Assessment not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get assessment", err)
		return
	}

	writeJSON(w, http.StatusOK, toAssessmentDTO(*record))
}

// =============================================================================
// QUESTIONNAIRE HANDLERS
// =============================================================================

// SubmitQuestionnaire extracts the no-answer set, matches it against the
// strategy table, persists the outcome, and returns it. No match is a
// valid 200 response with matched=false.
func (h *Handler) SubmitQuestionnaire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := chi.URLParam(r, "id")

	if _, err := h.Store.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, sqlite.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load client", err)
		return
	}

	var req QuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Responses == nil {
		writeError(w, http.StatusBadRequest, "responses are required", nil)
		return
	}

	noAnswers := strategy.ExtractNoAnswers(req.Responses)
	matched := h.Matcher.Match(noAnswers)

	responsesJSON, err := json.Marshal(req.Responses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode responses", err)
		return
	}
	noAnswersJSON, err := json.Marshal(noAnswersOrEmpty(noAnswers))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode answer set", err)
		return
	}

	record := sqlite.ResponseRecord{
		ID:            uuid.New().String(),
		ClientID:      clientID,
		ResponsesJSON: string(responsesJSON),
		NoAnswersJSON: string(noAnswersJSON),
		CreatedAt:     time.Now().UTC(),
	}
	if matched != nil {
		record.StrategyName = &matched.Name
	}

	if err := h.Store.SaveResponse(ctx, record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save response", err)
		return
	}

	dto := QuestionnaireResultDTO{
		ID:        record.ID,
		ClientID:  clientID,
		NoAnswers: noAnswersOrEmpty(noAnswers),
		Matched:   matched != nil,
		CreatedAt: record.CreatedAt.Format(timeFormat),
	}
	if matched != nil {
		s := toStrategyDTO(*matched)
		dto.Strategy = &s
	}

	writeJSON(w, http.StatusCreated, dto)
}

// ListQuestionnaires returns a client's questionnaire results, newest first.
func (h *Handler) ListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := chi.URLParam(r, "id")

	if _, err := h.Store.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, sqlite.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load client", err)
		return
	}

	records, err := h.Store.ListResponsesByClient(ctx, clientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list responses", err)
		return
	}

	dtos := make([]QuestionnaireResultDTO, len(records))
	for i, rec := range records {
		dtos[i] = h.toQuestionnaireResultDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// toQuestionnaireResultDTO rebuilds a result DTO from a stored record,
// resolving the strategy description from the live table by name.
func (h *Handler) toQuestionnaireResultDTO(rec sqlite.ResponseRecord) QuestionnaireResultDTO {
	dto := QuestionnaireResultDTO{
		ID:        rec.ID,
		ClientID:  rec.ClientID,
		NoAnswers: []int{},
		Matched:   rec.StrategyName != nil,
		CreatedAt: rec.CreatedAt.Format(timeFormat),
	}
	// Stored by this service; a decode failure means DB corruption and
	// is surfaced as an empty set rather than a 500 on a list endpoint.
	_ = json.Unmarshal([]byte(rec.NoAnswersJSON), &dto.NoAnswers)

	if rec.StrategyName != nil {
		for _, p := range h.Matcher.Patterns() {
			if p.Name == *rec.StrategyName {
				s := toStrategyDTO(p)
				dto.Strategy = &s
				break
			}
		}
	}
	return dto
}

// =============================================================================
// STRATEGY TABLE
// =============================================================================

// ListStrategies returns the configured pattern table.
func (h *Handler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	patterns := h.Matcher.Patterns()
	dtos := make([]StrategyDTO, len(patterns))
	for i, p := range patterns {
		dtos[i] = toStrategyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// noAnswersOrEmpty keeps JSON output as [] instead of null.
func noAnswersOrEmpty(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
