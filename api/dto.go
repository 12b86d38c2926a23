/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NULLABLE NUMERICS:
  AssessmentRequest mirrors the questionnaire: every expense question can
  be skipped, so its numeric fields are pointers. The deduction engine's
  Sanitize step, not the handler, decides what absence means.

MONEY AT THE BOUNDARY:
  Internally every figure is decimal; DTOs expose float64 via
  InexactFloat64 because JSON numbers are what the frontend expects.
  Persistence keeps the exact decimal strings.

SEE ALSO:
  - handlers.go: Uses these types
  - deduction/types.go: The domain input these coerce into
*/
package api

import (
	"github.com/warp/advisory-engine/deduction"
	"github.com/warp/advisory-engine/store/sqlite"
	"github.com/warp/advisory-engine/strategy"
)

// =============================================================================
// CLIENTS
// =============================================================================

// ClientDTO represents a client or prospect in API responses.
type ClientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateClientRequest is the request to create a client.
type CreateClientRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// UpdateClientRequest is the request to update a client.
type UpdateClientRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// =============================================================================
// ASSESSMENTS
// =============================================================================

// AssessmentRequest is a deduction assessment submission. Numeric fields
// are nullable: a skipped question is absent, not zero.
type AssessmentRequest struct {
	OfficePercentage float64  `json:"office_percentage"`
	HoursPerWeek     *float64 `json:"hours_per_week,omitempty"`
	IsOwnerOccupied  bool     `json:"is_owner_occupied"`

	MortgageInterest  *float64 `json:"mortgage_interest,omitempty"`
	PropertyInsurance *float64 `json:"property_insurance,omitempty"`
	CouncilRates      *float64 `json:"council_rates,omitempty"`
	Rent              *float64 `json:"rent,omitempty"`

	Electricity *float64 `json:"electricity,omitempty"`
	Gas         *float64 `json:"gas,omitempty"`
	Water       *float64 `json:"water,omitempty"`
	Internet    *float64 `json:"internet,omitempty"`
	Phone       *float64 `json:"phone,omitempty"`
	Cleaning    *float64 `json:"cleaning,omitempty"`
	Maintenance *float64 `json:"maintenance,omitempty"`

	HasVehicle  bool     `json:"has_vehicle"`
	BusinessKms *float64 `json:"business_kms,omitempty"`

	EquipmentPurchases []EquipmentPurchaseDTO `json:"equipment_purchases,omitempty"`
}

// EquipmentPurchaseDTO is one itemized asset purchase.
type EquipmentPurchaseDTO struct {
	Cost float64 `json:"cost"`
}

// AssessmentDTO represents a calculated assessment in API responses.
type AssessmentDTO struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`

	OccupancyExpenses   float64 `json:"occupancy_expenses"`
	RunningExpenses     float64 `json:"running_expenses"`
	HomeOfficeDeduction float64 `json:"home_office_deduction"`
	VehicleDeduction    float64 `json:"vehicle_deduction"`
	EquipmentDeduction  float64 `json:"equipment_deduction"`
	TotalDeductions     float64 `json:"total_deductions"`
	EstimatedTaxSaving  float64 `json:"estimated_tax_saving"`
	RecommendedMethod   string  `json:"recommended_method"`

	CreatedAt string `json:"created_at,omitempty"`
}

// =============================================================================
// QUESTIONNAIRES
// =============================================================================

// QuestionnaireRequest is a questionnaire submission: the raw answer map
// keyed "q<number>".
type QuestionnaireRequest struct {
	Responses map[string]string `json:"responses"`
}

// QuestionnaireResultDTO reports the match outcome. Matched=false with no
// strategy is a valid state: none of the known strategies apply.
type QuestionnaireResultDTO struct {
	ID        string       `json:"id"`
	ClientID  string       `json:"client_id"`
	NoAnswers []int        `json:"no_answers"`
	Matched   bool         `json:"matched"`
	Strategy  *StrategyDTO `json:"strategy,omitempty"`
	CreatedAt string       `json:"created_at,omitempty"`
}

// StrategyDTO represents one strategy pattern in API responses.
type StrategyDTO struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	MatchPattern []int  `json:"match_pattern"`
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toClientDTO(c sqlite.Client) ClientDTO {
	return ClientDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.Format(timeFormat),
	}
}

func toAssessmentDTO(a sqlite.AssessmentRecord) AssessmentDTO {
	return AssessmentDTO{
		ID:                  a.ID,
		ClientID:            a.ClientID,
		OccupancyExpenses:   a.OccupancyExpenses.InexactFloat64(),
		RunningExpenses:     a.RunningExpenses.InexactFloat64(),
		HomeOfficeDeduction: a.HomeOfficeDeduction.InexactFloat64(),
		VehicleDeduction:    a.VehicleDeduction.InexactFloat64(),
		EquipmentDeduction:  a.EquipmentDeduction.InexactFloat64(),
		TotalDeductions:     a.TotalDeductions.InexactFloat64(),
		EstimatedTaxSaving:  a.EstimatedTaxSaving.InexactFloat64(),
		RecommendedMethod:   a.RecommendedMethod,
		CreatedAt:           a.CreatedAt.Format(timeFormat),
	}
}

func toStrategyDTO(p strategy.Pattern) StrategyDTO {
	return StrategyDTO{
		Name:         p.Name,
		Description:  p.Description,
		MatchPattern: p.MatchPattern,
	}
}

// toCalculatorInput maps the request body onto the engine's raw input.
// Field-by-field because the engine type must not grow JSON tags.
func toCalculatorInput(req AssessmentRequest) deduction.CalculatorInput {
	input := deduction.CalculatorInput{
		OfficePercentage:  req.OfficePercentage,
		HoursPerWeek:      req.HoursPerWeek,
		IsOwnerOccupied:   req.IsOwnerOccupied,
		MortgageInterest:  req.MortgageInterest,
		PropertyInsurance: req.PropertyInsurance,
		CouncilRates:      req.CouncilRates,
		Rent:              req.Rent,
		Electricity:       req.Electricity,
		Gas:               req.Gas,
		Water:             req.Water,
		Internet:          req.Internet,
		Phone:             req.Phone,
		Cleaning:          req.Cleaning,
		Maintenance:       req.Maintenance,
		HasVehicle:        req.HasVehicle,
		BusinessKms:       req.BusinessKms,
	}
	for _, p := range req.EquipmentPurchases {
		input.EquipmentPurchases = append(input.EquipmentPurchases,
			deduction.EquipmentPurchase{Cost: p.Cost})
	}
	return input
}
