package stepmap

import (
	"context"
	"fmt"
	"go/format"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/eykd/stepmap-go/internal/config"
	"github.com/eykd/stepmap-go/internal/exports"
	"github.com/eykd/stepmap-go/internal/naming"
)

// Placeholder is the content of a mapping file that is being generated for
// the first time.
const Placeholder = "// stepmap: importing steps and creating given/when/then mappings..."

// FileSystem is the filesystem surface the generator writes through.
type FileSystem interface {
	EnsureDir(path string) error
	StatFile(path string) (bool, error)
	WriteFileAtomic(path, content string) error
}

// Builder generates one mapping file. It is returned by Generate once the
// output location is prepared; From produces the content.
type Builder struct {
	outputPath string
	settings   config.Settings
	fs         FileSystem
	discoverer Discoverer
	logger     *log.Logger
	runID      string
}

// Option configures a Builder.
type Option func(*Builder)

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fs FileSystem) Option {
	return func(b *Builder) { b.fs = fs }
}

// WithDiscoverer replaces the export discovery used to read step files.
func WithDiscoverer(d Discoverer) Option {
	return func(b *Builder) { b.discoverer = d }
}

// WithLogger sets the logger receiving progress at debug level.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// Result describes a completed generation run.
type Result struct {
	RunID       string
	OutputPath  string
	Mappings    map[StepKind][]StepMapping // sorted per kind
	Diagnostics []Diagnostic
}

// Count returns the number of mappings over all step kinds.
func (r *Result) Count() int {
	n := 0
	for _, m := range r.Mappings {
		n += len(m)
	}
	return n
}

// Generate prepares outputPath for generation: it creates the missing
// directories leading to it and, when no previous output exists, writes the
// Placeholder so the location never looks absent while generation runs.
// Unlike a strict placeholder-then-content lifecycle, an existing output is
// not overwritten with the Placeholder: it stays in place until From
// replaces it atomically, so a failed run leaves the last good file.
func Generate(outputPath string, settings config.Settings, opts ...Option) (*Builder, error) {
	b := &Builder{
		outputPath: outputPath,
		settings:   settings,
		fs:         OSFileSystem{},
		discoverer: exports.FileDiscoverer{},
		logger:     log.New(io.Discard),
		runID:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.fs.EnsureDir(outputPath); err != nil {
		return nil, fmt.Errorf("creating directories for %s: %w", outputPath, err)
	}
	exists, err := b.fs.StatFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", outputPath, err)
	}
	if !exists {
		if err := b.fs.WriteFileAtomic(outputPath, Placeholder+naming.LineTerminator()); err != nil {
			return nil, fmt.Errorf("writing placeholder %s: %w", outputPath, err)
		}
	}
	b.logger.Debug("generation started", "run", b.runID, "output", outputPath, "placeholder", !exists)
	return b, nil
}

// From collects the mappings declared by stepFiles, renders the mapping file
// and writes it in a single atomic write.
func (b *Builder) From(stepFiles []string) (*Result, error) {
	return b.FromContext(context.Background(), stepFiles)
}

// FromContext is From with cancellation: ctx is checked before each step
// file is read, and a cancelled run leaves the previous output untouched.
func (b *Builder) FromContext(ctx context.Context, stepFiles []string) (*Result, error) {
	renderer := NewRenderer(b.settings.Tab, b.settings.Quote, b.settings.LocaleTag())
	collector := NewCollector(newRunDiscoverer(ctx, b.discoverer, b.logger), naming.NewFallback())

	mappings, diags, err := CollectAll(collector, renderer, stepFiles)
	if err != nil {
		return nil, err
	}

	header, err := b.header(referencesSteps(mappings))
	if err != nil {
		return nil, err
	}
	lines := header
	for _, kind := range StepKinds {
		b.logger.Debug("rendering step mappings", "kind", kind, "count", len(mappings[kind]))
		lines = append(lines, "")
		lines = append(lines, renderer.Render(mappings[kind], kind)...)
	}
	lines = append(lines, "")

	content := strings.Join(lines, "\n")
	if b.settings.Format {
		formatted, err := format.Source([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("formatting generated source: %w", err)
		}
		content = string(formatted)
	}
	if eol := naming.LineTerminator(); eol != "\n" {
		content = strings.ReplaceAll(content, "\n", eol)
	}

	if err := b.fs.WriteFileAtomic(b.outputPath, content); err != nil {
		return nil, fmt.Errorf("writing %s: %w", b.outputPath, err)
	}

	result := &Result{
		RunID:       b.runID,
		OutputPath:  b.outputPath,
		Mappings:    mappings,
		Diagnostics: diags,
	}
	b.logger.Debug("generation finished", "run", b.runID, "files", len(stepFiles), "mappings", result.Count())
	return result, nil
}

// CollectFiles collects and sorts the mappings of every step kind declared by
// stepFiles, as a generation run would, without writing anything.
func CollectFiles(ctx context.Context, settings config.Settings, d Discoverer, stepFiles []string) (map[StepKind][]StepMapping, []Diagnostic, error) {
	renderer := NewRenderer(settings.Tab, settings.Quote, settings.LocaleTag())
	collector := NewCollector(newRunDiscoverer(ctx, d, log.New(io.Discard)), naming.NewFallback())
	return CollectAll(collector, renderer, stepFiles)
}

// referencesSteps reports whether any mapping refers into the step package.
func referencesSteps(mappings map[StepKind][]StepMapping) bool {
	for _, m := range mappings {
		if len(m) > 0 {
			return true
		}
	}
	return false
}

// header renders the banner, package clause, imports and the shared
// StepMappings type. The step package is imported only when withSteps is set.
func (b *Builder) header(withSteps bool) ([]string, error) {
	mappingFile := b.settings.MappingFile
	if mappingFile == "" {
		mappingFile = b.outputPath
	}

	banner := "// Code generated by stepmap. DO NOT EDIT."
	if b.settings.GeneratorFile != "" {
		rel, err := naming.RelativePath(b.settings.GeneratorFile, mappingFile)
		if err != nil {
			return nil, fmt.Errorf("relating generator %s to %s: %w", b.settings.GeneratorFile, mappingFile, err)
		}
		banner = fmt.Sprintf("// Code generated by '%s'. DO NOT EDIT.", rel)
	}

	pkg := b.settings.Package
	if pkg == "" {
		pkg = naming.PackageName(filepath.Dir(b.outputPath))
	}

	tab := b.settings.Tab
	lines := []string{
		banner,
		"",
		"package " + pkg,
		"",
		"import (",
		tab + `"context"`,
	}
	if withSteps {
		importLine, err := b.barrelImport(mappingFile)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "", tab+importLine)
	}
	return append(lines,
		")",
		"",
		"// "+MappingsTypeName+" resolves the step sentences of one kind to the functions implementing them.",
		"type "+MappingsTypeName+"[K ~string] map[K]func(ctx context.Context, sentence string) error",
	), nil
}

// barrelImport renders the import of the step barrel, annotated with the
// barrel's path relative to the mapping file.
func (b *Builder) barrelImport(mappingFile string) (string, error) {
	importPath := b.settings.BarrelImport
	if importPath == "" {
		var err error
		importPath, err = naming.ImportPath(filepath.Dir(b.settings.BarrelFile))
		if err != nil {
			return "", fmt.Errorf("resolving import path of %s: %w", b.settings.BarrelFile, err)
		}
	}
	line := fmt.Sprintf("%s %q", StepNamespace, importPath)
	if b.settings.BarrelFile == "" {
		return line, nil
	}
	rel, err := naming.RelativePath(b.settings.BarrelFile, mappingFile)
	if err != nil {
		return "", fmt.Errorf("relating barrel %s to %s: %w", b.settings.BarrelFile, mappingFile, err)
	}
	return line + " // " + naming.WithoutExtension(rel), nil
}

// runDiscoverer memoizes discovery for the duration of one run, so each step
// file is parsed once for all four step kinds.
type runDiscoverer struct {
	ctx    context.Context
	next   Discoverer
	logger *log.Logger
	cache  map[string][]exports.Function
}

func newRunDiscoverer(ctx context.Context, next Discoverer, logger *log.Logger) *runDiscoverer {
	return &runDiscoverer{
		ctx:    ctx,
		next:   next,
		logger: logger,
		cache:  make(map[string][]exports.Function),
	}
}

func (d *runDiscoverer) Discover(path string) ([]exports.Function, error) {
	if funcs, ok := d.cache[path]; ok {
		return funcs, nil
	}
	if err := d.ctx.Err(); err != nil {
		return nil, err
	}
	d.logger.Debug("reading step file", "path", path)
	funcs, err := d.next.Discover(path)
	if err != nil {
		return nil, err
	}
	d.cache[path] = funcs
	return funcs, nil
}
