/*
Package factory provides JSON to Go strategy-table conversion.

PURPOSE:
  Converts a JSON pattern-table definition into a validated
  strategy.Matcher. This enables table changes without code changes -
  an advisor can maintain the strategy table in JSON, and the factory
  builds the proper Go structs at startup.

WHY JSON?
  - Non-developers can adjust strategies between tax years
  - Easy integration with an admin UI
  - Version control for table definitions
  - The built-in table round-trips through the same schema

JSON SCHEMA:
  [
    {
      "name": "Small Business Re-Birth (i)",
      "description": "Wind up the existing trading entity ...",
      "match_pattern": [3, 15, 16, 40]
    },
    ...
  ]

VALIDATION:
  Delegated to strategy.NewMatcher: empty tables, unnamed patterns,
  empty question sets, and duplicate sets are all rejected, so a bad
  JSON file fails at startup rather than at match time.

USAGE:
  matcher, err := factory.ParsePatterns(jsonBytes)

  // Emit the built-in table for editing:
  data, err := factory.DefaultTableJSON()

SEE ALSO:
  - strategy/patterns.go: The built-in table
  - cmd/server/main.go: -patterns flag wiring
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/advisory-engine/strategy"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PatternJSON is the JSON representation of one strategy pattern.
type PatternJSON struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	MatchPattern []int  `json:"match_pattern"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParsePatterns builds a validated matcher from a JSON pattern table.
func ParsePatterns(data []byte) (*strategy.Matcher, error) {
	var rows []PatternJSON
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse pattern table: %w", err)
	}

	patterns := make([]strategy.Pattern, len(rows))
	for i, r := range rows {
		patterns[i] = strategy.Pattern{
			Name:         r.Name,
			Description:  r.Description,
			MatchPattern: r.MatchPattern,
		}
	}

	m, err := strategy.NewMatcher(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern table: %w", err)
	}
	return m, nil
}

// DefaultTableJSON emits the built-in table in the same schema
// ParsePatterns accepts, for editing or admin display.
func DefaultTableJSON() ([]byte, error) {
	patterns := strategy.DefaultPatterns()
	rows := make([]PatternJSON, len(patterns))
	for i, p := range patterns {
		rows[i] = PatternJSON{
			Name:         p.Name,
			Description:  p.Description,
			MatchPattern: p.MatchPattern,
		}
	}
	return json.MarshalIndent(rows, "", "  ")
}
