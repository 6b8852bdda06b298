package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/stepmap-go/internal/config"
	"github.com/eykd/stepmap-go/internal/stepmap"
)

// ListIO handles I/O for the list command.
type ListIO interface {
	ProjectIO
	// CollectMappings collects the sorted mappings of every step kind.
	CollectMappings(ctx context.Context, settings config.Settings, stepFiles []string) (map[stepmap.StepKind][]stepmap.StepMapping, []stepmap.Diagnostic, error)
}

// ListResult is the JSON output of the list command.
type ListResult struct {
	Version     string                                     `json:"version"`
	Mappings    map[stepmap.StepKind][]stepmap.StepMapping `json:"mappings"`
	Diagnostics []stepmap.Diagnostic                       `json:"diagnostics"`
}

// NewListCmd creates the list subcommand.
func NewListCmd(io ListIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List the step sentences declared by the step files",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			jsonMode, _ := cmd.Flags().GetBool("json")

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

			if jsonMode {
				out := ListResult{Version: "1", Mappings: mappings, Diagnostics: diags}
				if out.Mappings == nil {
					out.Mappings = make(map[stepmap.StepKind][]stepmap.StepMapping, len(stepmap.StepKinds))
				}
				for _, kind := range stepmap.StepKinds {
					if out.Mappings[kind] == nil {
						out.Mappings[kind] = []stepmap.StepMapping{}
					}
				}
				if out.Diagnostics == nil {
					out.Diagnostics = []stepmap.Diagnostic{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			printDiagnostics(cmd, diags)
			w := cmd.OutOrStdout()
			for _, kind := range stepmap.StepKinds {
				fmt.Fprintf(w, "%s (%d)\n", kind, len(mappings[kind]))
				for _, m := range mappings[kind] {
					fmt.Fprintf(w, "  %q -> %s.%s (%s:%d)\n", m.Sentence, stepmap.StepNamespace, m.Func, sanitizeTerminal(filepath.Base(m.File)), m.Line)
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func newDefaultListIO() *fileProjectIO {
	return newFileProjectIO()
}
