/*
patterns.go - Built-in strategy pattern table

PURPOSE:
  The sixteen restructuring strategies the practice advises on, each
  keyed by the exact set of questionnaire "no" answers that indicates
  it. The table is reference data: pairwise set-distinct, loaded once,
  never mutated at runtime.

EXTENDING THE TABLE:
  Add new entries at the end. Match order is declaration order, and
  NewMatcher rejects a table containing two set-equal patterns, so an
  extension can never silently shadow an existing strategy.

SEE ALSO:
  - matcher.go: NewMatcher validation and matching
  - factory/patterns.go: JSON override of this table
*/
package strategy

// DefaultPatterns returns a fresh copy of the built-in table. Callers
// get their own slice, so a caller mutating its copy cannot corrupt
// another matcher.
func DefaultPatterns() []Pattern {
	patterns := make([]Pattern, len(defaultTable))
	copy(patterns, defaultTable)
	for i := range patterns {
		patterns[i].MatchPattern = append([]int(nil), patterns[i].MatchPattern...)
	}
	return patterns
}

var defaultTable = []Pattern{
	{
		Name:         "Small Business Re-Birth (i)",
		Description:  "Wind up the existing trading entity and restart under a clean structure with prior-year losses preserved where eligible.",
		MatchPattern: []int{3, 15, 16, 40},
	},
	{
		Name:         "Small Business Re-Birth (ii)",
		Description:  "Re-birth variant where the client also lacks a shareholders' agreement; adds governance documents to the restart.",
		MatchPattern: []int{3, 15, 16, 38, 40},
	},
	{
		Name:         "Sole Trader to Company Conversion",
		Description:  "Incorporate the sole-trader business to cap the tax rate and separate personal assets from trading risk.",
		MatchPattern: []int{1, 3, 5, 12},
	},
	{
		Name:         "Discretionary Trust Establishment",
		Description:  "Establish a discretionary trust as the trading or holding vehicle for flexible annual distributions.",
		MatchPattern: []int{2, 4, 8, 20},
	},
	{
		Name:         "Family Trust Income Distribution",
		Description:  "Existing trust is under-used; distribute trading income across family beneficiaries within their marginal bands.",
		MatchPattern: []int{2, 4, 8, 20, 27},
	},
	{
		Name:         "Service Entity Arrangement",
		Description:  "Split administrative and equipment services into a separate entity charging the practice at commercial rates.",
		MatchPattern: []int{5, 6, 14, 22},
	},
	{
		Name:         "Dual Structure (Company + Trust)",
		Description:  "Trading company owned by a discretionary trust: retained earnings at company rate, distributions when useful.",
		MatchPattern: []int{1, 2, 5, 20, 40},
	},
	{
		Name:         "Self-Managed Super Fund Gearing",
		Description:  "Acquire the business premises inside an SMSF under a limited recourse borrowing arrangement.",
		MatchPattern: []int{9, 24, 30, 44},
	},
	{
		Name:         "Asset Protection Restructure",
		Description:  "Move passive assets out of the trading entity to a holding structure insulated from operating claims.",
		MatchPattern: []int{7, 10, 18, 31},
	},
	{
		Name:         "Partnership Dissolution",
		Description:  "Dissolve the partnership and re-form as separate entities so each partner controls their own tax position.",
		MatchPattern: []int{1, 6, 12, 25},
	},
	{
		Name:         "Income Streaming Review",
		Description:  "Review how trust and dividend income is streamed between household members and entities.",
		MatchPattern: []int{8, 21, 27, 33},
	},
	{
		Name:         "Division 7A Loan Cleanup",
		Description:  "Put unsecured shareholder drawings onto complying Division 7A loan terms before deemed dividends arise.",
		MatchPattern: []int{5, 28, 35, 42},
	},
	{
		Name:         "Small Business CGT Rollover",
		Description:  "Use the small business CGT concessions to roll gains from a sale or restructure into the replacement structure.",
		MatchPattern: []int{9, 16, 24, 36},
	},
	{
		Name:         "Succession & Estate Planning",
		Description:  "No succession documents in place; align wills, buy/sell agreements, and entity control with the exit plan.",
		MatchPattern: []int{10, 30, 31, 45},
	},
	{
		Name:         "Negative Gearing Restructure",
		Description:  "Re-borrow against investment assets so deductible debt funds income-producing holdings, not the home.",
		MatchPattern: []int{14, 22, 33, 38},
	},
	{
		Name:         "Intellectual Property Licensing",
		Description:  "Hold brand and IP in a separate entity licensing them to the trading business at arm's-length royalties.",
		MatchPattern: []int{6, 21, 36, 42, 44},
	},
}
