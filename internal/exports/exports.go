// Package exports discovers the exported functions of a Go source file
// together with the doc comments attached to them.
package exports

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/eykd/stepmap-go/internal/naming"
)

// DefaultName is reported as the name of a file's default step: the exported
// function or function variable named after its file, such as DashboardShown
// in dashboard_shown.go.
const DefaultName = "default"

// BlankName is reported for a function literal assigned to the blank
// identifier. Such a step cannot be referenced from another package.
const BlankName = "_"

// Function describes one exported function of a step file.
type Function struct {
	// Name is the exported identifier, DefaultName for the file's default
	// step or BlankName for a step assigned to the blank identifier.
	Name string
	// DocComments holds each comment of the doc comment group, in source order.
	DocComments []DocComment
	// Line is the 1-based line of the declaration.
	Line int
}

// DocComment is a single comment with its comment markers removed.
type DocComment struct {
	Text string
	Line int
}

// Discover parses src as a Go source file named filename and returns its
// exported functions in declaration order. It reports:
//   - top-level functions without a receiver whose names are exported;
//   - exported package-level variables initialised with a function literal;
//   - package-level `var _ = func(...)` declarations, as BlankName.
//
// The declaration named after the file, as naming.FuncNameFrom derives it,
// is reported as DefaultName.
//
// This is a pure function with no I/O.
func Discover(filename string, src []byte) ([]Function, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	fileDefault := naming.FuncNameFrom(naming.FileName(filename))
	var funcs []Function
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil || !d.Name.IsExported() {
				continue
			}
			funcs = append(funcs, Function{
				Name:        exportedName(d.Name.Name, fileDefault),
				DocComments: docComments(fset, d.Doc),
				Line:        fset.Position(d.Pos()).Line,
			})
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			funcs = append(funcs, funcVars(fset, d, fileDefault)...)
		}
	}
	return funcs, nil
}

// funcVars reports the function-valued variables of a var declaration.
func funcVars(fset *token.FileSet, d *ast.GenDecl, fileDefault string) []Function {
	var funcs []Function
	for _, spec := range d.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		doc := vs.Doc
		if doc == nil && !d.Lparen.IsValid() {
			doc = d.Doc
		}
		for i, name := range vs.Names {
			if i >= len(vs.Values) {
				break
			}
			if _, isFunc := vs.Values[i].(*ast.FuncLit); !isFunc {
				continue
			}
			var exported string
			switch {
			case name.Name == BlankName:
				exported = BlankName
			case name.IsExported():
				exported = exportedName(name.Name, fileDefault)
			default:
				continue
			}
			funcs = append(funcs, Function{
				Name:        exported,
				DocComments: docComments(fset, doc),
				Line:        fset.Position(name.Pos()).Line,
			})
		}
	}
	return funcs
}

// exportedName reports name, or DefaultName when it is the file's own name.
func exportedName(name, fileDefault string) string {
	if fileDefault != "" && name == fileDefault {
		return DefaultName
	}
	return name
}

func docComments(fset *token.FileSet, group *ast.CommentGroup) []DocComment {
	if group == nil {
		return nil
	}
	comments := make([]DocComment, 0, len(group.List))
	for _, c := range group.List {
		comments = append(comments, DocComment{
			Text: stripMarkers(c.Text),
			Line: fset.Position(c.Slash).Line,
		})
	}
	return comments
}

// stripMarkers removes the // or /* */ markers around a raw comment.
func stripMarkers(text string) string {
	if strings.HasPrefix(text, "//") {
		return strings.TrimSpace(text[2:])
	}
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	return strings.TrimSpace(text)
}
