package strategy_test

import (
	"sort"
	"testing"

	"github.com/warp/advisory-engine/strategy"
)

func newMatcher(t *testing.T) *strategy.Matcher {
	t.Helper()
	m, err := strategy.NewMatcher(strategy.DefaultPatterns())
	if err != nil {
		t.Fatalf("default table should validate: %v", err)
	}
	return m
}

// =============================================================================
// MATCHING
// =============================================================================

func TestMatch_KnownPattern_Sorted(t *testing.T) {
	// GIVEN: The re-birth question set in ascending order
	// WHEN: Matching
	// THEN: The "Small Business Re-Birth (i)" pattern is returned

	m := newMatcher(t)

	p := m.Match([]int{3, 15, 16, 40})
	if p == nil {
		t.Fatal("expected a match, got nil")
	}
	if p.Name != "Small Business Re-Birth (i)" {
		t.Errorf("expected Small Business Re-Birth (i), got %q", p.Name)
	}
}

func TestMatch_KnownPattern_UnorderedInput(t *testing.T) {
	// GIVEN: The same set in arbitrary order
	// WHEN: Matching
	// THEN: Order does not matter; same pattern returned

	m := newMatcher(t)

	p := m.Match([]int{40, 16, 3, 15})
	if p == nil || p.Name != "Small Business Re-Birth (i)" {
		t.Fatalf("unordered input should match re-birth (i), got %+v", p)
	}
}

func TestMatch_SupersetAndSubset_NoMatch(t *testing.T) {
	// GIVEN: Sets one element off a known pattern in either direction
	// WHEN: Matching
	// THEN: Exact set equality means neither matches

	m := newMatcher(t)

	if p := m.Match([]int{3, 15, 16}); p != nil {
		t.Errorf("subset should not match, got %q", p.Name)
	}
	if p := m.Match([]int{3, 15, 16, 40, 44}); p != nil {
		t.Errorf("superset should not match, got %q", p.Name)
	}
}

func TestMatch_NoMatchCases_ReturnNil(t *testing.T) {
	// GIVEN: An empty set and a set outside the table
	// WHEN: Matching
	// THEN: Nil both times; no-match is a valid outcome, never an error

	m := newMatcher(t)

	if p := m.Match(nil); p != nil {
		t.Errorf("empty input should not match, got %q", p.Name)
	}
	if p := m.Match([]int{1, 2, 3}); p != nil {
		t.Errorf("unknown set should not match, got %q", p.Name)
	}
}

func TestMatch_DoesNotMutateInput(t *testing.T) {
	// GIVEN: An unsorted input slice
	// WHEN: Matching
	// THEN: The caller's slice is left in its original order

	m := newMatcher(t)
	input := []int{40, 3, 16, 15}

	m.Match(input)

	if input[0] != 40 || input[3] != 15 {
		t.Errorf("input slice was mutated: %v", input)
	}
}

// =============================================================================
// TABLE PROPERTIES
// =============================================================================

func TestDefaultPatterns_SixteenEntries_PairwiseDistinct(t *testing.T) {
	// GIVEN: The built-in table
	// THEN: Exactly sixteen entries, no two set-equal

	patterns := strategy.DefaultPatterns()
	if len(patterns) != 16 {
		t.Fatalf("expected 16 patterns, got %d", len(patterns))
	}

	sets := make([][]int, len(patterns))
	for i, p := range patterns {
		sets[i] = append([]int(nil), p.MatchPattern...)
		sort.Ints(sets[i])
	}
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			if equal(sets[i], sets[j]) {
				t.Errorf("patterns %q and %q share a question set",
					patterns[i].Name, patterns[j].Name)
			}
		}
	}
}

func TestDefaultPatterns_MembersAreYesNoQuestions(t *testing.T) {
	// Every pattern member must be a yes/no question, otherwise the
	// pattern is unreachable from ExtractNoAnswers.

	yesNo := make(map[int]bool, len(strategy.YesNoQuestions))
	for _, q := range strategy.YesNoQuestions {
		yesNo[q] = true
	}

	for _, p := range strategy.DefaultPatterns() {
		for _, q := range p.MatchPattern {
			if !yesNo[q] {
				t.Errorf("pattern %q references non-yes/no question %d", p.Name, q)
			}
		}
	}
}

func TestNewMatcher_DuplicateSet_Rejected(t *testing.T) {
	// GIVEN: A table where two patterns share a set (in different order)
	// WHEN: Building a matcher
	// THEN: Construction fails

	_, err := strategy.NewMatcher([]Pattern{
		{Name: "a", Description: "a", MatchPattern: []int{1, 2, 3}},
		{Name: "b", Description: "b", MatchPattern: []int{3, 2, 1}},
	})
	if err == nil {
		t.Fatal("expected duplicate-set error")
	}
}

func TestNewMatcher_EmptyTable_Rejected(t *testing.T) {
	if _, err := strategy.NewMatcher(nil); err == nil {
		t.Fatal("expected error for empty table")
	}
}

// =============================================================================
// ANSWER EXTRACTION
// =============================================================================

func TestExtractNoAnswers_FiltersAndSorts(t *testing.T) {
	// GIVEN: A mixed response map with no/yes answers and a free-text field
	// WHEN: Extracting
	// THEN: Only yes/no questions answered "no", ascending

	responses := map[string]string{
		"q40":  "no",
		"q3":   "no",
		"q15":  "no",
		"q16":  "no",
		"q1":   "yes",
		"q11":  "no", // not a yes/no question, ignored
		"name": "Acme Consulting",
	}

	got := strategy.ExtractNoAnswers(responses)
	want := []int{3, 15, 16, 40}
	if !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractNoAnswers_CaseSensitive(t *testing.T) {
	// GIVEN: Answers in varying case
	// WHEN: Extracting
	// THEN: Only the exact lowercase literal "no" counts. The UI stores
	//       lowercase values; free-form callers must lowercase first.

	responses := map[string]string{
		"q3":  "No",
		"q15": "NO",
		"q16": "no",
	}

	got := strategy.ExtractNoAnswers(responses)
	if !equal(got, []int{16}) {
		t.Errorf("expected [16], got %v", got)
	}
}

func TestExtractNoAnswers_Empty(t *testing.T) {
	if got := strategy.ExtractNoAnswers(nil); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

// Pattern alias keeps table literals in tests readable.
type Pattern = strategy.Pattern

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
