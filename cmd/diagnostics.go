package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/stepmap-go/internal/stepmap"
)

// printDiagnostics writes each diagnostic to stderr in human-readable form.
func printDiagnostics(cmd *cobra.Command, diags []stepmap.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s%s (%s)\n", d.Severity, location(d), sanitizeTerminal(d.Message), d.Code)
	}
}

// location renders "file:line: " for diagnostics that carry a source position.
func location(d stepmap.Diagnostic) string {
	switch {
	case d.File == "":
		return ""
	case d.Line <= 0:
		return sanitizeTerminal(d.File) + ": "
	default:
		return fmt.Sprintf("%s:%d: ", sanitizeTerminal(d.File), d.Line)
	}
}
