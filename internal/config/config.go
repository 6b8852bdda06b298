// Package config holds the stepmap settings: indentation, quoting, and the
// locations of the step files, the step barrel and the generated mapping file.
//
// Settings are loaded with Viper from an optional .stepmap.yml file and
// STEPMAP_* environment variables, on top of the defaults returned by Default.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the name of the project configuration file.
	FileName = ".stepmap.yml"
	// EnvPrefix prefixes environment variable overrides, e.g. STEPMAP_QUOTE.
	EnvPrefix = "STEPMAP"
)

// Settings configures one generation run.
type Settings struct {
	// Tab is the indentation unit of the generated source.
	Tab string `mapstructure:"tab" yaml:"tab"`
	// Quote surrounds step sentences in the generated source: `"` or a backtick.
	Quote string `mapstructure:"quote" yaml:"quote"`
	// GeneratorFile names the generator in the banner of the generated file.
	GeneratorFile string `mapstructure:"generator_file" yaml:"generator_file,omitempty"`
	// StepsDir is scanned for step definition files.
	StepsDir string `mapstructure:"steps_dir" yaml:"steps_dir"`
	// BarrelFile is the file of the package re-exporting every step function.
	BarrelFile string `mapstructure:"barrel_file" yaml:"barrel_file"`
	// BarrelImport overrides the import path derived from BarrelFile.
	BarrelImport string `mapstructure:"barrel_import" yaml:"barrel_import,omitempty"`
	// MappingFile is the generated output file.
	MappingFile string `mapstructure:"mapping_file" yaml:"mapping_file"`
	// Package overrides the package name of the generated file.
	Package string `mapstructure:"package" yaml:"package,omitempty"`
	// Locale selects the collation used to order step sentences.
	Locale string `mapstructure:"locale" yaml:"locale"`
	// Format runs gofmt over the generated source before writing it.
	Format bool `mapstructure:"format" yaml:"format"`
}

// Default returns the settings used when no configuration file exists.
func Default() Settings {
	return Settings{
		Tab:         "\t",
		Quote:       `"`,
		StepsDir:    "steps",
		BarrelFile:  "steps/steps.go",
		MappingFile: "internal/stepmappings/stepmappings_gen.go",
		Locale:      "en",
		Format:      true,
	}
}

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// WorkDir is searched for FileName and anchors relative paths when no
	// config file is found.
	WorkDir string
}

// Load reads settings from the requested source, resolves relative paths
// against the directory of the config file (or WorkDir) and validates them.
// It returns the path of the config file that was read, or "" when only
// defaults and the environment applied.
func Load(ctx context.Context, opts LoadOptions) (Settings, string, error) {
	select {
	case <-ctx.Done():
		return Settings{}, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := Default()
	v.SetDefault("tab", defaults.Tab)
	v.SetDefault("quote", defaults.Quote)
	v.SetDefault("generator_file", defaults.GeneratorFile)
	v.SetDefault("steps_dir", defaults.StepsDir)
	v.SetDefault("barrel_file", defaults.BarrelFile)
	v.SetDefault("barrel_import", defaults.BarrelImport)
	v.SetDefault("mapping_file", defaults.MappingFile)
	v.SetDefault("package", defaults.Package)
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("format", defaults.Format)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	resolvedPath := ""
	switch {
	case opts.ConfigFilePath != "":
		if !fileExists(opts.ConfigFilePath) {
			return Settings{}, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	case fileExists(filepath.Join(opts.WorkDir, FileName)):
		resolvedPath = filepath.Join(opts.WorkDir, FileName)
	}

	root := opts.WorkDir
	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, "", fmt.Errorf("reading %s: %w", resolvedPath, err)
		}
		root = filepath.Dir(resolvedPath)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, "", fmt.Errorf("failed to parse config: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Settings{}, "", fmt.Errorf("resolving %s: %w", root, err)
	}
	s = s.Resolve(absRoot)
	if err := s.Validate(); err != nil {
		return Settings{}, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return s, resolvedPath, nil
}

// Resolve returns a copy of s with every relative path joined onto root.
func (s Settings) Resolve(root string) Settings {
	s.GeneratorFile = resolvePath(root, s.GeneratorFile)
	s.StepsDir = resolvePath(root, s.StepsDir)
	s.BarrelFile = resolvePath(root, s.BarrelFile)
	s.MappingFile = resolvePath(root, s.MappingFile)
	return s
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Validate reports every setting that cannot produce a usable mapping file.
func (s Settings) Validate() error {
	var errs []error
	if s.Tab == "" {
		errs = append(errs, errors.New("tab must not be empty"))
	}
	if s.Quote != `"` && s.Quote != "`" {
		errs = append(errs, fmt.Errorf("quote must be %q or a backtick, got %q", `"`, s.Quote))
	}
	if s.MappingFile == "" {
		errs = append(errs, errors.New("mapping_file must be set"))
	} else if !strings.HasSuffix(s.MappingFile, ".go") {
		errs = append(errs, fmt.Errorf("mapping_file must be a .go file, got %s", s.MappingFile))
	}
	if s.BarrelFile == "" && s.BarrelImport == "" {
		errs = append(errs, errors.New("one of barrel_file or barrel_import must be set"))
	}
	if _, err := language.Parse(s.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", s.Locale, err))
	}
	return errors.Join(errs...)
}

// LocaleTag returns the collation locale; unparseable locales fall back to
// language.Und (root collation order).
func (s Settings) LocaleTag() language.Tag {
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// Marshal renders s as the YAML content of a configuration file.
func Marshal(s Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return append([]byte("# stepmap configuration\n"), data...), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
