package cmd

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/eykd/stepmap-go/internal/config"
	"github.com/eykd/stepmap-go/internal/feature"
	"github.com/eykd/stepmap-go/internal/stepmap"
)

// mockProjectIO is a test double for GenerateIO, ListIO and CheckIO.
type mockProjectIO struct {
	settings    config.Settings
	loadErr     error
	configPath  string // last configPath passed to LoadSettings
	stepFiles   []string
	scanErr     error
	result      *stepmap.Result
	generateErr error
	generated   []string // stepFiles passed to Generate
	mappings    map[stepmap.StepKind][]stepmap.StepMapping
	diags       []stepmap.Diagnostic
	collectErr  error
	specFiles   []string
	specScanErr error
	features    map[string]*feature.Feature
	parseErr    error
}

func newMockProjectIO() *mockProjectIO {
	s := config.Default().Resolve("/proj")
	return &mockProjectIO{
		settings: s,
		features: make(map[string]*feature.Feature),
	}
}

func (m *mockProjectIO) LoadSettings(_ context.Context, configPath string) (config.Settings, error) {
	m.configPath = configPath
	return m.settings, m.loadErr
}

func (m *mockProjectIO) ScanStepFiles(context.Context, config.Settings) ([]string, error) {
	return m.stepFiles, m.scanErr
}

func (m *mockProjectIO) Generate(_ context.Context, _ config.Settings, stepFiles []string, _ *log.Logger) (*stepmap.Result, error) {
	m.generated = stepFiles
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.result, nil
}

func (m *mockProjectIO) CollectMappings(context.Context, config.Settings, []string) (map[stepmap.StepKind][]stepmap.StepMapping, []stepmap.Diagnostic, error) {
	return m.mappings, m.diags, m.collectErr
}

func (m *mockProjectIO) ScanSpecFiles(context.Context, string) ([]string, error) {
	return m.specFiles, m.specScanErr
}

func (m *mockProjectIO) ParseSpecFile(path string) (*feature.Feature, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.features[path], nil
}
