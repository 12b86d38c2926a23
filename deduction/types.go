/*
Package deduction implements the tax-deduction calculation engine.

PURPOSE:
  Computes home-office, vehicle, and equipment deductions for a single
  client assessment, and recommends which statutory calculation method
  (fixed rate per hour vs actual cost apportionment) yields the larger
  home-office claim.

KEY CONCEPTS IN THIS FILE (types.go):
  - CalculatorInput: Raw assessment snapshot as submitted (nullable fields)
  - Input: Fully-defaulted internal snapshot produced by Sanitize
  - Calculations: Immutable deduction result with breakdown
  - MethodRecommendation: Fixed-rate vs actual-cost comparison outcome

DESIGN PRINCIPLES:
  1. Immutability: Calculations are built fresh per call, never mutated
  2. Precision: Uses decimal.Decimal for all money arithmetic
  3. Totality: Calculate and RecommendMethod never error or panic for
     any numeric input, including zero, negative, and absent values
  4. Single normalization point: nil-handling happens once in Sanitize,
     never inline in formulas

STATUTORY CONSTANTS (2023-24 figures):
  - Cents-per-kilometre rate: $0.88/km, capped at 5,000 business km
  - Instant asset write-off threshold: $20,000 per item
  - Fixed-rate method: $0.67 per hour worked from home
  - Estimated tax saving uses a 32.5% average marginal rate

SEE ALSO:
  - sanitize.go: CalculatorInput -> Input normalization
  - calculator.go: Deduction formulas
  - method.go: Fixed-rate vs actual-cost recommendation
*/
package deduction

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUTORY CONSTANTS
// =============================================================================

// Rates and thresholds are 2023-24 figures. Future years change these
// values, not the formulas.
var (
	// CentsPerKilometre is the flat per-kilometre vehicle rate in dollars.
	CentsPerKilometre = decimal.RequireFromString("0.88")

	// InstantWriteOffThreshold is the per-item cost ceiling for a full
	// same-year equipment deduction. Items above it are depreciated
	// instead and excluded from this engine entirely.
	InstantWriteOffThreshold = decimal.NewFromInt(20000)

	// AverageMarginalRate estimates tax saving from total deductions.
	AverageMarginalRate = decimal.RequireFromString("0.325")

	// FixedRatePerHour is the flat hourly rate for the fixed-rate
	// home-office method.
	FixedRatePerHour = decimal.RequireFromString("0.67")
)

const (
	// BusinessKmCap is the statutory cap on claimable business kilometres.
	// Kilometres beyond the cap are ignored, not carried anywhere.
	BusinessKmCap = 5000

	// WorkingWeeksPerYear annualizes hours-per-week for the fixed-rate method.
	WorkingWeeksPerYear = 48
)

// =============================================================================
// RAW INPUT - as submitted, before normalization
// =============================================================================

// CalculatorInput is the per-assessment snapshot as the caller submits it.
// Numeric fields are pointers because the questionnaire allows every expense
// question to be skipped; Sanitize collapses nil to zero exactly once.
//
// OfficePercentage accepts either a 0-100 percentage or a 0-1 fraction;
// values above 1 are treated as percentages.
type CalculatorInput struct {
	OfficePercentage float64
	HoursPerWeek     *float64
	IsOwnerOccupied  bool

	// Annual occupancy expenses (owner-occupiers only)
	MortgageInterest  *float64
	PropertyInsurance *float64
	CouncilRates      *float64

	// Annual rent (renters only; apportioned as a running expense)
	Rent *float64

	// Annual running expenses (any occupant)
	Electricity *float64
	Gas         *float64
	Water       *float64
	Internet    *float64
	Phone       *float64
	Cleaning    *float64
	Maintenance *float64

	HasVehicle  bool
	BusinessKms *float64

	EquipmentPurchases []EquipmentPurchase
}

// EquipmentPurchase is a single itemized asset purchase.
type EquipmentPurchase struct {
	Cost float64
}

// =============================================================================
// SANITIZED INPUT - fully defaulted, decimal money
// =============================================================================

// Input is the fully-defaulted internal snapshot. All money fields are
// decimal and non-nil; presence of optional input groups is tracked in
// the Has* flags so method eligibility can distinguish "absent" from "zero".
type Input struct {
	OfficeFraction  decimal.Decimal // 0-1
	HoursPerWeek    decimal.Decimal
	HasHours        bool
	IsOwnerOccupied bool

	MortgageInterest  decimal.Decimal
	PropertyInsurance decimal.Decimal
	CouncilRates      decimal.Decimal
	Rent              decimal.Decimal

	Electricity decimal.Decimal
	Gas         decimal.Decimal
	Water       decimal.Decimal
	Internet    decimal.Decimal
	Phone       decimal.Decimal
	Cleaning    decimal.Decimal
	Maintenance decimal.Decimal

	// HasExpenses is true when at least one expense field (occupancy,
	// rent, or running) was present in the raw input.
	HasExpenses bool

	HasVehicle  bool
	BusinessKms decimal.Decimal

	Equipment []decimal.Decimal
}

// =============================================================================
// RESULTS
// =============================================================================

// Calculations is the immutable result of a deduction calculation.
// TotalDeductions is always exactly the sum of the three deduction lines.
type Calculations struct {
	OccupancyExpenses   decimal.Decimal
	RunningExpenses     decimal.Decimal
	HomeOfficeDeduction decimal.Decimal
	VehicleDeduction    decimal.Decimal
	EquipmentDeduction  decimal.Decimal
	TotalDeductions     decimal.Decimal
	EstimatedTaxSaving  decimal.Decimal
}

// Method identifies a statutory home-office calculation method.
type Method string

const (
	MethodFixedRate  Method = "fixed_rate"
	MethodActualCost Method = "actual_cost"

	// MethodNone means neither method had the inputs it requires.
	MethodNone Method = "none"
)

// MethodRecommendation reports which method to recommend and the figures
// that drove the choice. A method with Eligible=false was excluded from
// the comparison; its Total is zero and carries no meaning.
type MethodRecommendation struct {
	Method             Method
	FixedRateTotal     decimal.Decimal
	FixedRateEligible  bool
	ActualCostTotal    decimal.Decimal
	ActualCostEligible bool
}
