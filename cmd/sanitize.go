package cmd

import (
	"strings"
	"unicode"
)

// sanitizeTerminal replaces every control character (C0, DEL and C1) with '?'
// in paths and diagnostic messages before they are written to the terminal,
// so file names and step sentences cannot carry escape sequences.
func sanitizeTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '?'
		}
		return r
	}, s)
}
