package stepmap

import (
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/eykd/stepmap-go/internal/naming"
)

// StepNamespace is the import name of the step barrel in generated code.
const StepNamespace = "step"

// MappingsTypeName is the generic map type every per-kind mapping conforms to.
const MappingsTypeName = "StepMappings"

// MappingsName returns the variable holding the mappings of kind, e.g. GivenStepMappings.
func MappingsName(kind StepKind) string {
	return naming.UpperFirst(string(kind)) + MappingsTypeName
}

// KeyTypeName returns the type of the sentences of kind, e.g. GivenStep.
func KeyTypeName(kind StepKind) string {
	return naming.UpperFirst(string(kind)) + "Step"
}

// Renderer renders step mappings as Go declarations. It is not safe for
// concurrent use.
type Renderer struct {
	tab      string
	quote    string
	collator *collate.Collator
}

// NewRenderer returns a Renderer indenting with tab, quoting sentences with
// quote and ordering them by the collation rules of locale.
func NewRenderer(tab, quote string, locale language.Tag) *Renderer {
	return &Renderer{
		tab:      tab,
		quote:    quote,
		collator: collate.New(locale),
	}
}

// Sort returns a copy of mappings ordered by sentence in the renderer's
// collation order. Mappings with equal sentences keep their relative order.
func (r *Renderer) Sort(mappings []StepMapping) []StepMapping {
	sorted := slices.Clone(mappings)
	slices.SortStableFunc(sorted, func(a, b StepMapping) int {
		return r.collator.CompareString(a.Sentence, b.Sentence)
	})
	return sorted
}

// Render returns the declarations for the mappings of kind: a map variable
// from sentence to step function, the sentence type, and one constant per
// sentence. Without mappings only the empty map and the type are declared.
// Sentences are quoted but not escaped.
//
// This is a pure function with no I/O.
func (r *Renderer) Render(mappings []StepMapping, kind StepKind) []string {
	mappingsName := MappingsName(kind)
	typeName := KeyTypeName(kind)
	typeDecl := fmt.Sprintf("type %s string", typeName)

	sorted := r.Sort(mappings)
	if len(sorted) == 0 {
		return []string{
			fmt.Sprintf("var %s = %s[%s]{}", mappingsName, MappingsTypeName, typeName),
			typeDecl,
		}
	}

	lines := make([]string, 0, 2*len(sorted)+5)
	lines = append(lines, fmt.Sprintf("var %s = %s[%s]{", mappingsName, MappingsTypeName, typeName))
	for _, m := range sorted {
		lines = append(lines, fmt.Sprintf("%s%s: %s.%s,", r.tab, naming.Surround(m.Sentence, r.quote), StepNamespace, m.Func))
	}
	lines = append(lines, "}", typeDecl, "const (")
	for i, name := range sentenceConstNames(sorted, kind) {
		lines = append(lines, fmt.Sprintf("%s%s %s = %s", r.tab, name, typeName, naming.Surround(sorted[i].Sentence, r.quote)))
	}
	return append(lines, ")")
}

// sentenceConstNames derives one identifier per mapping: the capitalised kind
// followed by the PascalCase words of the sentence. Identifiers already taken
// get a numeric suffix starting at 2.
func sentenceConstNames(mappings []StepMapping, kind StepKind) []string {
	taken := reservedNames()
	names := make([]string, len(mappings))
	prefix := naming.UpperFirst(string(kind))
	for i, m := range mappings {
		base := prefix + naming.PascalCase(m.Sentence)
		name := base
		for n := 2; taken[name]; n++ {
			name = base + strconv.Itoa(n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// reservedNames are the package-level identifiers of a generated file that
// are not sentence constants.
func reservedNames() map[string]bool {
	reserved := map[string]bool{MappingsTypeName: true}
	for _, kind := range StepKinds {
		reserved[MappingsName(kind)] = true
		reserved[KeyTypeName(kind)] = true
	}
	return reserved
}
