// Package feature parses GWT (Given-When-Then) acceptance spec files and
// checks their steps against the step sentences declared in step files.
package feature

import "github.com/eykd/stepmap-go/internal/stepmap"

// Step represents a single GIVEN, WHEN, THEN, BUT or AND statement in a scenario.
type Step struct {
	// Keyword is the step keyword as written: "GIVEN", "WHEN", "THEN", "BUT" or "AND".
	Keyword string `json:"keyword"`
	// Kind is the step kind the keyword selects. AND continues the kind of the
	// previous step; an AND with no previous step has an empty Kind.
	Kind stepmap.StepKind `json:"kind"`
	// Text is the step sentence without the keyword prefix.
	Text string `json:"text"`
	// Line is the source line number where this step appears.
	Line int `json:"line"`
}

// Scenario represents a named acceptance scenario containing a sequence of steps.
type Scenario struct {
	// Description is the human-readable scenario title from the ;=== header.
	Description string `json:"description"`
	// Steps is the ordered sequence of steps.
	Steps []Step `json:"steps"`
	// Line is the source line number of the scenario description header.
	Line int `json:"line"`
}

// Feature represents a parsed acceptance spec file containing one or more scenarios.
type Feature struct {
	// SourceFile is the path to the spec file this feature was parsed from.
	SourceFile string `json:"source_file"`
	// Scenarios is the list of scenarios defined in the spec file.
	Scenarios []Scenario `json:"scenarios"`
}
