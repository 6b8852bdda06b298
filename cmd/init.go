package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/stepmap-go/internal/config"
	"github.com/eykd/stepmap-go/internal/stepmap"
)

// InitIO handles I/O for the init command.
type InitIO interface {
	StatFile(path string) (bool, error)
	WriteFileAtomic(path, content string) error
}

// NewInitCmd creates the init subcommand.
func NewInitCmd(io InitIO) *cobra.Command {
	return newInitCmdWithGetCWD(io, os.Getwd)
}

func newInitCmdWithGetCWD(io InitIO, getwd func() (string, error)) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Write a default " + config.FileName + " in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetString("project")
			if project == "" {
				cwd, err := getwd()
				if err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
				project = cwd
			}

			configPath := filepath.Join(project, config.FileName)
			exists, err := io.StatFile(configPath)
			if err != nil {
				return fmt.Errorf("checking %s: %w", configPath, err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.FileName, project)
			}

			content, err := config.Marshal(config.Default())
			if err != nil {
				return err
			}
			if err := io.WriteFileAtomic(configPath, string(content)); err != nil {
				return fmt.Errorf("writing %s: %w", config.FileName, err)
			}

			if exists {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: overwriting existing "+config.FileName)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized "+sanitizeTerminal(configPath))
			return nil
		},
	}

	cmd.Flags().String("project", "", "project directory (default: current directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// fileInitIO implements InitIO using OS file I/O.
type fileInitIO struct {
	fs stepmap.OSFileSystem
}

func newDefaultInitIO() *fileInitIO {
	return &fileInitIO{}
}

// StatFile returns true if the file at path exists, false if it does not.
// Returns an error only for unexpected OS errors.
func (f *fileInitIO) StatFile(path string) (bool, error) {
	return f.fs.StatFile(path)
}

// WriteFileAtomic writes content to path atomically via a temp file.
func (f *fileInitIO) WriteFileAtomic(path, content string) error {
	return f.fs.WriteFileAtomic(path, content)
}
