/*
sanitize.go - Input normalization boundary

PURPOSE:
  Converts a raw CalculatorInput (nullable float fields, percentage or
  fraction office share) into a fully-defaulted Input. This is the ONLY
  place nil-handling happens; every formula downstream assumes complete
  decimal values. Keeping the defaulting in one auditable step matters
  because the arithmetic is tax-sensitive.

RULES:
  - nil numeric fields become zero
  - OfficePercentage > 1 is read as a 0-100 percentage and divided by 100;
    values in [0, 1] are already fractions and pass through
  - Negative values pass through unchanged: clamping and rejection are the
    caller's job, and silently "fixing" input would hide data-entry errors
  - HasHours / HasExpenses record whether the optional input groups were
    present at all, which method eligibility needs (absent != zero)

SEE ALSO:
  - types.go: CalculatorInput and Input definitions
  - method.go: Consumer of the Has* presence flags
*/
package deduction

import (
	"github.com/shopspring/decimal"
)

// Sanitize normalizes a raw assessment snapshot into a fully-defaulted Input.
func Sanitize(raw CalculatorInput) Input {
	in := Input{
		OfficeFraction:  normalizeFraction(raw.OfficePercentage),
		IsOwnerOccupied: raw.IsOwnerOccupied,

		MortgageInterest:  fromPtr(raw.MortgageInterest),
		PropertyInsurance: fromPtr(raw.PropertyInsurance),
		CouncilRates:      fromPtr(raw.CouncilRates),
		Rent:              fromPtr(raw.Rent),

		Electricity: fromPtr(raw.Electricity),
		Gas:         fromPtr(raw.Gas),
		Water:       fromPtr(raw.Water),
		Internet:    fromPtr(raw.Internet),
		Phone:       fromPtr(raw.Phone),
		Cleaning:    fromPtr(raw.Cleaning),
		Maintenance: fromPtr(raw.Maintenance),

		HasVehicle:  raw.HasVehicle,
		BusinessKms: fromPtr(raw.BusinessKms),
	}

	if raw.HoursPerWeek != nil {
		in.HasHours = true
		in.HoursPerWeek = decimal.NewFromFloat(*raw.HoursPerWeek)
	}

	in.HasExpenses = anyPresent(
		raw.MortgageInterest, raw.PropertyInsurance, raw.CouncilRates,
		raw.Rent,
		raw.Electricity, raw.Gas, raw.Water, raw.Internet,
		raw.Phone, raw.Cleaning, raw.Maintenance,
	)

	if len(raw.EquipmentPurchases) > 0 {
		in.Equipment = make([]decimal.Decimal, len(raw.EquipmentPurchases))
		for i, p := range raw.EquipmentPurchases {
			in.Equipment[i] = decimal.NewFromFloat(p.Cost)
		}
	}

	return in
}

// normalizeFraction maps both percentage (0-100) and fraction (0-1) inputs
// to a fraction. Anything above 1 must be a percentage: a fraction above 1
// would mean more than the whole floor area.
func normalizeFraction(v float64) decimal.Decimal {
	d := decimal.NewFromFloat(v)
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return d.Div(decimal.NewFromInt(100))
	}
	return d
}

func fromPtr(p *float64) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*p)
}

func anyPresent(ps ...*float64) bool {
	for _, p := range ps {
		if p != nil {
			return true
		}
	}
	return false
}
