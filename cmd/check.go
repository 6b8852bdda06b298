package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/stepmap-go/internal/feature"
	"github.com/eykd/stepmap-go/internal/stepmap"
)

// CheckIO handles I/O for the check command.
type CheckIO interface {
	ListIO
	// ScanSpecFiles lists the GWT spec files below dir.
	ScanSpecFiles(ctx context.Context, dir string) ([]string, error)
	// ParseSpecFile reads and parses the spec file at path.
	ParseSpecFile(path string) (*feature.Feature, error)
}

// NewCheckCmd creates the check subcommand.
func NewCheckCmd(io CheckIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check <spec-dir>",
		Short:        "Check that every step of the GWT spec files has a step function",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logger := newLogger(cmd)

			settings, err := io.LoadSettings(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			stepFiles, err := io.ScanStepFiles(cmd.Context(), settings)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", settings.StepsDir, err)
			}
			mappings, diags, err := io.CollectMappings(cmd.Context(), settings, stepFiles)
			if err != nil {
				return fmt.Errorf("collecting step mappings: %w", err)
			}

			specFiles, err := io.ScanSpecFiles(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("scanning %s: %w", args[0], err)
			}

			steps := 0
			for _, path := range specFiles {
				f, err := io.ParseSpecFile(path)
				if err != nil {
					return fmt.Errorf("parsing %s: %w", path, err)
				}
				for _, sc := range f.Scenarios {
					steps += len(sc.Steps)
				}
				logger.Debug("spec file parsed", "path", path, "scenarios", len(f.Scenarios))
				diags = append(diags, feature.Resolve(f, mappings)...)
			}

			printDiagnostics(cmd, diags)
			fmt.Fprintf(cmd.OutOrStdout(), "Checked %d steps in %d spec files\n", steps, len(specFiles))
			return checkError(diags)
		},
	}
	return cmd
}

// checkError summarizes the error diagnostics of a check run, or returns nil
// when there are none.
func checkError(diags []stepmap.Diagnostic) error {
	total := countErrors(diags)
	unresolved := 0
	for _, d := range diags {
		if d.Code == stepmap.STE001 {
			unresolved++
		}
	}
	switch {
	case total == 0:
		return nil
	case unresolved == total:
		return fmt.Errorf("%d steps have no step function", unresolved)
	case unresolved == 0:
		return fmt.Errorf("%d step errors", total)
	default:
		return fmt.Errorf("%d step errors, %d steps have no step function", total, unresolved)
	}
}

func countErrors(diags []stepmap.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == stepmap.SeverityError {
			n++
		}
	}
	return n
}

func newDefaultCheckIO() *fileProjectIO {
	return newFileProjectIO()
}
