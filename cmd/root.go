// Package cmd implements the stepmap CLI commands.
package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/eykd/stepmap-go/internal/config"
)

// NewRootCmd creates the root stepmap command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stepmap",
		Short:         "stepmap - generate step sentence mappings from annotated Go step files",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.PersistentFlags().String("config", "", "config file (default: ./"+config.FileName+")")
	root.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	root.AddCommand(NewGenerateCmd(newDefaultGenerateIO()))
	root.AddCommand(NewListCmd(newDefaultListIO()))
	root.AddCommand(NewCheckCmd(newDefaultCheckIO()))
	root.AddCommand(NewInitCmd(newDefaultInitIO()))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// newLogger returns the command's stderr logger: warnings only, or debug
// output when --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "stepmap",
		Level:  log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
