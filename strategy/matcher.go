/*
matcher.go - Pattern matching and answer extraction

PURPOSE:
  Matcher holds an immutable, validated pattern table and answers the
  single question "which strategy, if any, does this set of no-answers
  select?". ExtractNoAnswers builds that set from a raw questionnaire
  response map.

MATCHING:
  Exact unordered set equality: the input must contain precisely the
  pattern's question numbers, nothing more, nothing less. Both sides are
  compared in sorted order; duplicates are not expected in either. First
  declaration-order match wins, though NewMatcher guarantees at most one
  can match.

CASE SENSITIVITY:
  Answer values compare against the lowercase literal "no". The
  questionnaire UI stores lowercase values; callers accepting free-form
  text must lowercase before calling.

SEE ALSO:
  - patterns.go: The built-in table
  - types.go: Pattern and YesNoQuestions
*/
package strategy

import (
	"fmt"
	"sort"
)

// noAnswer is the stored answer value that selects a question into the
// match set. Comparison is case-sensitive.
const noAnswer = "no"

// Matcher matches no-answer sets against a fixed pattern table.
// Immutable after construction; safe for concurrent use.
type Matcher struct {
	patterns []Pattern
	sorted   [][]int // pattern sets pre-sorted for comparison
}

// NewMatcher validates the table and builds a matcher. It rejects empty
// tables, patterns without a name or question set, and any two patterns
// that are set-equal (which would make one unreachable).
func NewMatcher(patterns []Pattern) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("pattern table is empty")
	}

	sorted := make([][]int, len(patterns))
	for i, p := range patterns {
		if p.Name == "" {
			return nil, fmt.Errorf("pattern %d: name is required", i)
		}
		if len(p.MatchPattern) == 0 {
			return nil, fmt.Errorf("pattern %q: match pattern is empty", p.Name)
		}
		s := append([]int(nil), p.MatchPattern...)
		sort.Ints(s)
		for j := 0; j < i; j++ {
			if equalInts(s, sorted[j]) {
				return nil, fmt.Errorf("pattern %q duplicates the question set of %q",
					p.Name, patterns[j].Name)
			}
		}
		sorted[i] = s
	}

	m := &Matcher{
		patterns: append([]Pattern(nil), patterns...),
		sorted:   sorted,
	}
	return m, nil
}

// NewDefaultMatcher builds a matcher over the built-in table.
func NewDefaultMatcher() *Matcher {
	m, err := NewMatcher(DefaultPatterns())
	if err != nil {
		// The built-in table is validated by tests; reaching this means
		// the binary shipped with a corrupt table.
		panic(fmt.Sprintf("built-in pattern table invalid: %v", err))
	}
	return m
}

// Patterns returns a copy of the table for display purposes.
func (m *Matcher) Patterns() []Pattern {
	out := make([]Pattern, len(m.patterns))
	copy(out, m.patterns)
	for i := range out {
		out[i].MatchPattern = append([]int(nil), out[i].MatchPattern...)
	}
	return out
}

// Match returns the pattern whose question set exactly equals noAnswers,
// or nil when no pattern matches. Nil is a valid outcome: the client's
// profile is outside the known strategies. Never errors.
func (m *Matcher) Match(noAnswers []int) *Pattern {
	input := append([]int(nil), noAnswers...)
	sort.Ints(input)

	for i, s := range m.sorted {
		if equalInts(input, s) {
			p := m.patterns[i]
			p.MatchPattern = append([]int(nil), p.MatchPattern...)
			return &p
		}
	}
	return nil
}

// ExtractNoAnswers returns the ascending question numbers, drawn from
// YesNoQuestions, whose response value is exactly "no". Responses are
// keyed "q<number>". Missing or non-"no" answers are skipped.
func ExtractNoAnswers(responses map[string]string) []int {
	var out []int
	for _, q := range YesNoQuestions {
		if responses[fmt.Sprintf("q%d", q)] == noAnswer {
			out = append(out, q)
		}
	}
	return out
}

func equalInts(a, b []int) bool {
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
