package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/eykd/stepmap-go/internal/config"
	"github.com/eykd/stepmap-go/internal/exports"
	"github.com/eykd/stepmap-go/internal/feature"
	"github.com/eykd/stepmap-go/internal/stepmap"
)

// ProjectIO loads the project settings and locates its step files.
type ProjectIO interface {
	// LoadSettings loads settings from configPath, or from the working
	// directory's config file when configPath is empty.
	LoadSettings(ctx context.Context, configPath string) (config.Settings, error)
	// ScanStepFiles lists the step definition files of the steps directory.
	ScanStepFiles(ctx context.Context, settings config.Settings) ([]string, error)
}

// fileProjectIO implements the command IO interfaces using OS file I/O.
type fileProjectIO struct {
	getwd func() (string, error)
}

func newFileProjectIO() *fileProjectIO {
	return &fileProjectIO{getwd: os.Getwd}
}

// LoadSettings resolves the working directory and loads the settings.
func (f *fileProjectIO) LoadSettings(ctx context.Context, configPath string) (config.Settings, error) {
	cwd, err := f.getwd()
	if err != nil {
		return config.Settings{}, fmt.Errorf("getting working directory: %w", err)
	}
	settings, _, err := config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath, WorkDir: cwd})
	return settings, err
}

// ScanStepFiles lists the step files of settings.StepsDir.
func (f *fileProjectIO) ScanStepFiles(ctx context.Context, settings config.Settings) ([]string, error) {
	return ScanStepFilesImpl(ctx, settings.StepsDir, settings.MappingFile)
}

// Generate writes the mapping file for stepFiles.
func (f *fileProjectIO) Generate(ctx context.Context, settings config.Settings, stepFiles []string, logger *log.Logger) (*stepmap.Result, error) {
	b, err := stepmap.Generate(settings.MappingFile, settings, stepmap.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return b.FromContext(ctx, stepFiles)
}

// CollectMappings collects the mappings of stepFiles without writing anything.
func (f *fileProjectIO) CollectMappings(ctx context.Context, settings config.Settings, stepFiles []string) (map[stepmap.StepKind][]stepmap.StepMapping, []stepmap.Diagnostic, error) {
	return stepmap.CollectFiles(ctx, settings, exports.FileDiscoverer{}, stepFiles)
}

// ScanSpecFiles lists the GWT spec files below dir.
func (f *fileProjectIO) ScanSpecFiles(ctx context.Context, dir string) ([]string, error) {
	return ScanSpecFilesImpl(ctx, dir)
}

// ParseSpecFile reads and parses the spec file at path.
func (f *fileProjectIO) ParseSpecFile(path string) (*feature.Feature, error) {
	return feature.ParseSpecFileImpl(path)
}
