package stepmap

import (
	"errors"
	"fmt"

	"github.com/eykd/stepmap-go/internal/exports"
	"github.com/eykd/stepmap-go/internal/naming"
)

// Discoverer lists the exported functions of a step file.
type Discoverer interface {
	Discover(path string) ([]exports.Function, error)
}

// Collector turns step files into step mappings for one generation run.
// It is not safe for concurrent use.
type Collector struct {
	discoverer Discoverer
	names      *naming.Fallback
	defaults   map[string]string // default export name per file path
}

// NewCollector returns a Collector that reads exports through d and names
// default exports of unnameable files from names.
func NewCollector(d Discoverer, names *naming.Fallback) *Collector {
	return &Collector{
		discoverer: d,
		names:      names,
		defaults:   make(map[string]string),
	}
}

// Collect returns the mappings the step files declare for kind, in file,
// function, then comment order. Malformed annotations are skipped and
// reported as STW001 warnings, and steps assigned to the blank identifier as
// STW003 warnings. Only failures to read or parse a step file
// are returned as errors.
func (c *Collector) Collect(stepFiles []string, kind StepKind) ([]StepMapping, []Diagnostic, error) {
	var (
		mappings []StepMapping
		diags    []Diagnostic
	)
	for _, path := range stepFiles {
		funcs, err := c.discoverer.Discover(path)
		if err != nil {
			return nil, nil, fmt.Errorf("discovering exports in %s: %w", path, err)
		}
		for _, fn := range funcs {
			for _, doc := range fn.DocComments {
				sentence, ok, err := ExtractSentence(doc.Text, kind)
				if errors.Is(err, ErrMalformedAnnotation) {
					diags = append(diags, Diagnostic{
						Severity: SeverityWarning,
						Code:     STW001,
						Message:  fmt.Sprintf("%s: %s annotation is not of the form %s(\"sentence\"); skipped", fn.Name, kind.Marker(), kind.Marker()),
						File:     path,
						Line:     doc.Line,
					})
					continue
				}
				if err != nil {
					return nil, nil, err
				}
				if !ok {
					continue
				}
				if fn.Name == exports.BlankName {
					diags = append(diags, Diagnostic{
						Severity: SeverityWarning,
						Code:     STW003,
						Message:  fmt.Sprintf("%s sentence %q is declared on a function assigned to _, which cannot be referenced; skipped", kind, sentence),
						File:     path,
						Line:     doc.Line,
					})
					continue
				}
				mappings = append(mappings, StepMapping{
					Sentence: sentence,
					Func:     c.funcRef(path, fn.Name),
					File:     path,
					Line:     doc.Line,
				})
			}
		}
	}
	return mappings, diags, nil
}

// funcRef returns the name generated code uses for a function: its own name,
// or the file-derived name for the file's default export.
func (c *Collector) funcRef(path, name string) string {
	if name != exports.DefaultName {
		return name
	}
	if ref, ok := c.defaults[path]; ok {
		return ref
	}
	ref := naming.FuncNameFrom(naming.FileName(path))
	if ref == "" {
		ref = naming.FuncNameFrom(c.names.Next())
	}
	c.defaults[path] = ref
	return ref
}

// CollectAll collects the mappings of every step kind, each sorted in r's
// collation order, and adds an STW002 warning for every repeated sentence.
func CollectAll(c *Collector, r *Renderer, stepFiles []string) (map[StepKind][]StepMapping, []Diagnostic, error) {
	all := make(map[StepKind][]StepMapping, len(StepKinds))
	var diags []Diagnostic
	for _, kind := range StepKinds {
		mappings, kindDiags, err := c.Collect(stepFiles, kind)
		if err != nil {
			return nil, nil, err
		}
		sorted := r.Sort(mappings)
		all[kind] = sorted
		diags = append(diags, kindDiags...)
		diags = append(diags, duplicateDiagnostics(sorted, kind)...)
	}
	return all, diags, nil
}

// duplicateDiagnostics reports every mapping whose sentence was already
// declared by an earlier mapping of the same kind.
func duplicateDiagnostics(mappings []StepMapping, kind StepKind) []Diagnostic {
	first := make(map[string]StepMapping, len(mappings))
	var diags []Diagnostic
	for _, m := range mappings {
		prev, seen := first[m.Sentence]
		if !seen {
			first[m.Sentence] = m
			continue
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     STW002,
			Message:  fmt.Sprintf("%s sentence %q is also declared by %s (%s:%d)", kind, m.Sentence, prev.Func, prev.File, prev.Line),
			File:     m.File,
			Line:     m.Line,
		})
	}
	return diags
}
