/*
calculator.go - Deduction formulas

PURPOSE:
  Computes the actual-cost home-office deduction, the cents-per-kilometre
  vehicle deduction, the instant-write-off equipment deduction, their
  total, and the estimated tax saving. Pure function over a sanitized
  Input; no I/O, no errors, safe to call concurrently.

FORMULAS:
  occupancy = owner-occupied ?
                (mortgage interest + property insurance + council rates)
                  x office fraction
              : 0
  running   = (electricity + gas + water + internet + phone
               + cleaning + maintenance
               + rent, renters only) x office fraction
  homeOffice = occupancy + running
  vehicle   = hasVehicle ? min(businessKms, 5000) x $0.88 : 0
  equipment = sum of item costs where cost <= $20,000 (items above the
              threshold are excluded whole, never prorated)
  total     = homeOffice + vehicle + equipment
  saving    = total x 32.5%

OCCUPANCY vs RENT:
  Occupancy costs and rent are a mutually exclusive partition selected by
  IsOwnerOccupied. Renters cannot claim mortgage/insurance/rates on a
  property they don't own; rent is their nearest apportionable running
  cost. The two groups are never additive for one assessment.

SEE ALSO:
  - sanitize.go: Produces the Input this consumes
  - method.go: Uses the homeOffice figure as the actual-cost leg
*/
package deduction

import (
	"github.com/shopspring/decimal"
)

// Calculate computes all deduction lines for one sanitized assessment.
func Calculate(in Input) Calculations {
	occupancy := occupancyExpenses(in)
	running := runningExpenses(in)
	homeOffice := occupancy.Add(running)
	vehicle := vehicleDeduction(in)
	equipment := equipmentDeduction(in)

	total := homeOffice.Add(vehicle).Add(equipment)

	return Calculations{
		OccupancyExpenses:   occupancy,
		RunningExpenses:     running,
		HomeOfficeDeduction: homeOffice,
		VehicleDeduction:    vehicle,
		EquipmentDeduction:  equipment,
		TotalDeductions:     total,
		EstimatedTaxSaving:  total.Mul(AverageMarginalRate),
	}
}

// occupancyExpenses apportions ownership-related fixed costs by office
// fraction. Zero for renters regardless of what the fields contain.
func occupancyExpenses(in Input) decimal.Decimal {
	if !in.IsOwnerOccupied {
		return decimal.Zero
	}
	return in.MortgageInterest.
		Add(in.PropertyInsurance).
		Add(in.CouncilRates).
		Mul(in.OfficeFraction)
}

// runningExpenses apportions day-to-day costs by office fraction.
// Renters additionally apportion rent here.
func runningExpenses(in Input) decimal.Decimal {
	sum := in.Electricity.
		Add(in.Gas).
		Add(in.Water).
		Add(in.Internet).
		Add(in.Phone).
		Add(in.Cleaning).
		Add(in.Maintenance)
	if !in.IsOwnerOccupied {
		sum = sum.Add(in.Rent)
	}
	return sum.Mul(in.OfficeFraction)
}

// vehicleDeduction applies the cents-per-kilometre rate up to the
// statutory cap. Kilometres beyond the cap are ignored.
func vehicleDeduction(in Input) decimal.Decimal {
	if !in.HasVehicle {
		return decimal.Zero
	}
	kms := in.BusinessKms
	limit := decimal.NewFromInt(BusinessKmCap)
	if kms.GreaterThan(limit) {
		kms = limit
	}
	return kms.Mul(CentsPerKilometre)
}

// equipmentDeduction sums items at or under the instant-write-off
// threshold. Costlier items belong to a depreciation schedule this
// engine does not model, so they contribute nothing here.
func equipmentDeduction(in Input) decimal.Decimal {
	sum := decimal.Zero
	for _, cost := range in.Equipment {
		if cost.LessThanOrEqual(InstantWriteOffThreshold) {
			sum = sum.Add(cost)
		}
	}
	return sum
}
