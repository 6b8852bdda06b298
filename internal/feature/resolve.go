package feature

import (
	"fmt"
	"strings"

	"github.com/eykd/stepmap-go/internal/stepmap"
)

// Resolve checks every step of f against the step sentences of its kind.
// A step resolves when its text equals a sentence, or equals one once a single
// trailing period is removed. Unresolved steps are reported as STE001 errors
// and AND steps without a preceding step as STE002 errors.
//
// This is a pure function with no I/O.
func Resolve(f *Feature, mappings map[stepmap.StepKind][]stepmap.StepMapping) []stepmap.Diagnostic {
	sentences := make(map[stepmap.StepKind]map[string]bool, len(mappings))
	for kind, ms := range mappings {
		set := make(map[string]bool, len(ms))
		for _, m := range ms {
			set[m.Sentence] = true
		}
		sentences[kind] = set
	}

	var diags []stepmap.Diagnostic
	for _, sc := range f.Scenarios {
		for _, st := range sc.Steps {
			if st.Kind == "" {
				diags = append(diags, stepmap.Diagnostic{
					Severity: stepmap.SeverityError,
					Code:     stepmap.STE002,
					Message:  fmt.Sprintf("%s step %q has no preceding step to continue", st.Keyword, st.Text),
					File:     f.SourceFile,
					Line:     st.Line,
				})
				continue
			}
			set := sentences[st.Kind]
			if set[st.Text] || set[strings.TrimSuffix(st.Text, ".")] {
				continue
			}
			diags = append(diags, stepmap.Diagnostic{
				Severity: stepmap.SeverityError,
				Code:     stepmap.STE001,
				Message:  fmt.Sprintf("no %s step matches %q", st.Kind, st.Text),
				File:     f.SourceFile,
				Line:     st.Line,
			})
		}
	}
	return diags
}
