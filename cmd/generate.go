package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/eykd/stepmap-go/internal/config"
	"github.com/eykd/stepmap-go/internal/stepmap"
)

// GenerateIO handles I/O for the generate command.
type GenerateIO interface {
	ProjectIO
	// Generate writes the mapping file for stepFiles.
	Generate(ctx context.Context, settings config.Settings, stepFiles []string, logger *log.Logger) (*stepmap.Result, error)
}

// NewGenerateCmd creates the generate subcommand.
func NewGenerateCmd(io GenerateIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [step-file...]",
		Short: "Generate the step mappings file from annotated step files",
		Long: `Generate scans the step files (the configured steps directory, or the
files given as arguments) for @given, @when, @then and @but doc comment
annotations and writes the Go file mapping every sentence to its function.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logger := newLogger(cmd)

			settings, err := io.LoadSettings(cmd.Context(), configPath)
			if err != nil {
				return err
			}

			stepFiles := args
			if len(stepFiles) == 0 {
				stepFiles, err = io.ScanStepFiles(cmd.Context(), settings)
				if err != nil {
					return fmt.Errorf("scanning %s: %w", settings.StepsDir, err)
				}
			}
			logger.Debug("step files found", "dir", settings.StepsDir, "count", len(stepFiles))

			result, err := io.Generate(cmd.Context(), settings, stepFiles, logger)
			if err != nil {
				return fmt.Errorf("generating %s: %w", settings.MappingFile, err)
			}

			printDiagnostics(cmd, result.Diagnostics)
			if stepmap.HasErrors(result.Diagnostics) {
				return errors.New("generation reported errors")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d mappings)\n", sanitizeTerminal(result.OutputPath), result.Count())
			return nil
		},
	}
	return cmd
}

func newDefaultGenerateIO() *fileProjectIO {
	return newFileProjectIO()
}
