package stepmap

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
)

// ErrMalformedAnnotation is returned when a comment carries a step marker
// that is not followed by a parenthesised, quoted sentence.
var ErrMalformedAnnotation = errors.New("malformed step annotation")

type annotationPattern struct {
	// marker matches the bare tag, not followed by an identifier character.
	marker *regexp2.Regexp
	// sentence matches @kind("...") with any of the three Go quote characters;
	// the closing quote must repeat the opening one.
	sentence *regexp2.Regexp
}

var annotationPatterns = compileAnnotationPatterns()

func compileAnnotationPatterns() map[StepKind]annotationPattern {
	patterns := make(map[StepKind]annotationPattern, len(StepKinds))
	for _, kind := range StepKinds {
		marker := regexp2.Escape(kind.Marker())
		patterns[kind] = annotationPattern{
			marker: regexp2.MustCompile(marker+`(?![\p{L}\p{N}_])`, regexp2.None),
			sentence: regexp2.MustCompile(
				marker+`\s*\(\s*(?<quote>["'`+"`"+`])(?<sentence>.*?)\k<quote>\s*\)`,
				regexp2.Singleline,
			),
		}
	}
	return patterns
}

// ExtractSentence reports the step sentence a doc comment declares for kind.
//
// ok is false with a nil error when the comment does not carry the kind's
// marker. A comment that carries the marker without a well-formed
// @kind("sentence") annotation yields ErrMalformedAnnotation. The sentence is
// returned verbatim; empty sentences are not rejected.
func ExtractSentence(comment string, kind StepKind) (sentence string, ok bool, err error) {
	p, known := annotationPatterns[kind]
	if !known {
		return "", false, fmt.Errorf("unknown step kind %q", kind)
	}

	hasMarker, err := p.marker.MatchString(comment)
	if err != nil {
		return "", false, fmt.Errorf("matching %s marker: %w", kind, err)
	}
	if !hasMarker {
		return "", false, nil
	}

	m, err := p.sentence.FindStringMatch(comment)
	if err != nil {
		return "", false, fmt.Errorf("matching %s annotation: %w", kind, err)
	}
	if m == nil {
		return "", false, fmt.Errorf("%w: %q", ErrMalformedAnnotation, comment)
	}
	return m.GroupByName("sentence").String(), true, nil
}
