// Package stepmap extracts step annotations from Go step definition files and
// generates the Go source that maps every step sentence to its function.
package stepmap

// StepKind is one of the four BDD phrase categories a step sentence belongs to.
type StepKind string

const (
	// Given steps establish preconditions.
	Given StepKind = "given"
	// When steps perform the action under test.
	When StepKind = "when"
	// Then steps assert outcomes.
	Then StepKind = "then"
	// But steps add a contrasting precondition or outcome.
	But StepKind = "but"
)

// StepKinds lists every step kind in generation order.
var StepKinds = []StepKind{Given, When, Then, But}

// Valid reports whether k is one of StepKinds.
func (k StepKind) Valid() bool {
	switch k {
	case Given, When, Then, But:
		return true
	}
	return false
}

// Marker returns the annotation tag declaring a step of kind k, e.g. "@given".
func (k StepKind) Marker() string {
	return "@" + string(k)
}

// StepMapping associates a step sentence with the function implementing it.
type StepMapping struct {
	Sentence string `json:"sentence"`
	Func     string `json:"func"` // referenced as step.<Func> in generated code

	// Source metadata; not used for rendering.
	File string `json:"file"`
	Line int    `json:"line"` // 1-based line of the annotation
}

// Severity classifies the impact level of a diagnostic.
type Severity string

const (
	// SeverityError indicates a condition that must be resolved.
	SeverityError Severity = "error"
	// SeverityWarning indicates a condition that should be reviewed.
	SeverityWarning Severity = "warning"
)

// Code identifies the rule that produced a diagnostic.
type Code string

const (
	// STW001 indicates a doc comment carries a step marker but no well-formed sentence.
	STW001 Code = "STW001"
	// STW002 indicates the same sentence is declared more than once for one step kind.
	STW002 Code = "STW002"
	// STW003 indicates a step is assigned to the blank identifier and cannot be referenced.
	STW003 Code = "STW003"
	// STE001 indicates a feature spec step resolves to no step sentence.
	STE001 Code = "STE001"
	// STE002 indicates an AND step in a feature spec has no preceding keyword step.
	STE002 Code = "STE002"
)

// Diagnostic is a structured error or warning record.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
