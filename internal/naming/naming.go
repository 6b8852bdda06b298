// Package naming provides the file, path and identifier helpers used to turn
// step definition files into references in generated Go source.
package naming

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FileName returns the base name of path, or "" when path does not name a
// file: an empty path, a path ending in a separator, ".", ".." or a root.
func FileName(path string) string {
	if path == "" || strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return ""
	}
	base := filepath.Base(path)
	switch base {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return base
}

// WithoutExtension strips the final extension from path.
func WithoutExtension(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// FuncNameFrom derives an exported Go identifier from a file name:
// "logged-in_user.go" becomes "LoggedInUser". It returns "" when the name
// holds no letters or digits.
func FuncNameFrom(fileName string) string {
	name := PascalCase(WithoutExtension(fileName))
	if name == "" {
		return ""
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		return "Step" + name
	}
	return name
}

// PascalCase splits s on every rune that is neither a letter nor a digit and
// joins the words with their first letters upper-cased. The rest of each word
// keeps its case, so "loginSteps" stays "LoginSteps".
func PascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(UpperFirst(w))
	}
	return b.String()
}

// UpperFirst upper-cases the first letter of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Title(language.Und, cases.NoLower).String(string(r)) + s[size:]
}

// Surround wraps s in quote. Nothing inside s is escaped.
func Surround(s, quote string) string {
	return quote + s + quote
}

// Slash normalizes path separators to forward slashes.
func Slash(path string) string {
	return filepath.ToSlash(path)
}

// RelativePath returns target relative to the directory holding fromFile,
// with forward slashes on every platform.
func RelativePath(target, fromFile string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(fromFile), target)
	if err != nil {
		return "", err
	}
	return Slash(rel), nil
}

// PackageName derives a Go package name from the base name of dir:
// lower-cased with everything but letters and digits removed.
func PackageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(dir)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return "stepmappings"
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		return "steps" + name
	}
	return name
}

// LineTerminator returns the native line terminator of the platform.
func LineTerminator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// EnsureDirectoryStructure creates every missing directory on the way to the
// file at path.
func EnsureDirectoryStructure(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
