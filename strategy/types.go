/*
Package strategy implements the business-restructuring strategy matcher.

PURPOSE:
  Maps a client's questionnaire outcome (the set of yes/no questions
  answered "no") to one of sixteen named restructuring strategies by
  exact set equality against a fixed pattern table, or to no match when
  the client's profile falls outside the known strategies.

KEY CONCEPTS IN THIS FILE (types.go):
  - Pattern: One named strategy and the question set that selects it
  - YesNoQuestions: The fixed list of yes/no-typed question numbers the
    extractor considers; all pattern members come from this list

DESIGN PRINCIPLES:
  1. Explicit configuration: The table is owned by a Matcher value built
     once at startup, never a mutable package singleton
  2. No-match is an outcome, not an error: Match returns nil for inputs
     outside the table
  3. Totality: Match and ExtractNoAnswers never error for any input

SEE ALSO:
  - patterns.go: The built-in sixteen-entry table
  - matcher.go: Matching and answer extraction
  - factory/patterns.go: Loading a table from JSON
*/
package strategy

// Pattern is one named restructuring strategy. MatchPattern is the
// unordered set of question numbers expected to be answered "no".
type Pattern struct {
	Name         string
	Description  string
	MatchPattern []int
}

// YesNoQuestions lists the questionnaire's yes/no-typed question numbers
// in ascending order. Questions outside this list are free-text or
// multiple-choice and never participate in matching.
var YesNoQuestions = []int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
	12, 14, 15, 16, 18, 20, 21, 22, 24, 25,
	27, 28, 30, 31, 33, 35, 36, 38, 40, 42,
	44, 45,
}
