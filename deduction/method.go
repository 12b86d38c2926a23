/*
method.go - Fixed-rate vs actual-cost method recommendation

PURPOSE:
  The two statutory home-office methods produce different figures from
  the same assessment. RecommendMethod computes both legs and recommends
  whichever yields the higher deduction, tagging the result with the
  winning method.

ELIGIBILITY:
  A method missing its required inputs is EXCLUDED from the comparison,
  not scored as zero. Otherwise an assessment with no hours recorded
  would always "win" for actual-cost (and vice versa) on a technicality.
    fixed rate:  requires hours-per-week to be present
    actual cost: requires at least one expense field to be present
  With neither eligible the recommendation is MethodNone.

LEGS:
  fixed rate:  hoursPerWeek x 48 working weeks x $0.67/hour
  actual cost: the homeOffice figure from Calculate (occupancy + running)

TIE-BREAK:
  Equal totals recommend the fixed-rate method: it carries the lower
  record-keeping burden for the client.

SEE ALSO:
  - calculator.go: Source of the actual-cost leg
  - types.go: MethodRecommendation definition
*/
package deduction

import (
	"github.com/shopspring/decimal"
)

// RecommendMethod compares the two statutory home-office methods for one
// sanitized assessment. Pure and total: never errors for any numeric input.
func RecommendMethod(in Input) MethodRecommendation {
	rec := MethodRecommendation{
		Method:             MethodNone,
		FixedRateEligible:  in.HasHours,
		ActualCostEligible: in.HasExpenses,
	}

	if rec.FixedRateEligible {
		rec.FixedRateTotal = in.HoursPerWeek.
			Mul(decimal.NewFromInt(WorkingWeeksPerYear)).
			Mul(FixedRatePerHour)
	}
	if rec.ActualCostEligible {
		rec.ActualCostTotal = Calculate(in).HomeOfficeDeduction
	}

	switch {
	case rec.FixedRateEligible && rec.ActualCostEligible:
		if rec.ActualCostTotal.GreaterThan(rec.FixedRateTotal) {
			rec.Method = MethodActualCost
		} else {
			rec.Method = MethodFixedRate
		}
	case rec.FixedRateEligible:
		rec.Method = MethodFixedRate
	case rec.ActualCostEligible:
		rec.Method = MethodActualCost
	}

	return rec
}
