package stepmap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eykd/stepmap-go/internal/config"
	"github.com/eykd/stepmap-go/internal/exports"
	"github.com/eykd/stepmap-go/internal/naming"
)

// mockFileSystem is a test double for FileSystem.
type mockFileSystem struct {
	exists   map[string]bool
	statErr  error
	dirErr   error
	writeErr error
	writes   []string // content of every write, in order
	files    map[string]string
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{exists: make(map[string]bool), files: make(map[string]string)}
}

func (m *mockFileSystem) EnsureDir(string) error { return m.dirErr }

func (m *mockFileSystem) StatFile(path string) (bool, error) {
	return m.exists[path], m.statErr
}

func (m *mockFileSystem) WriteFileAtomic(path, content string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, content)
	m.files[path] = content
	m.exists[path] = true
	return nil
}

func testSettings() config.Settings {
	s := config.Default()
	s.BarrelFile = "/work/steps/steps.go"
	s.BarrelImport = "example.com/app/steps"
	s.MappingFile = "/work/internal/stepmappings/stepmappings_gen.go"
	s.Format = false
	return s
}

const outPath = "/work/internal/stepmappings/stepmappings_gen.go"

func TestGenerate_WritesPlaceholderWhenOutputAbsent(t *testing.T) {
	fs := newMockFileSystem()
	if _, err := Generate(outPath, testSettings(), WithFileSystem(fs)); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := fs.files[outPath]; got != Placeholder+naming.LineTerminator() {
		t.Errorf("output = %q, want placeholder", got)
	}
}

func TestGenerate_KeepsExistingOutput(t *testing.T) {
	fs := newMockFileSystem()
	fs.exists[outPath] = true
	if _, err := Generate(outPath, testSettings(), WithFileSystem(fs)); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(fs.writes) != 0 {
		t.Errorf("Generate() wrote %d times over existing output, want 0", len(fs.writes))
	}
}

func TestGenerate_Errors(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(*mockFileSystem)
	}{
		{"ensure dir", func(m *mockFileSystem) { m.dirErr = errBoom }},
		{"stat", func(m *mockFileSystem) { m.statErr = errBoom }},
		{"placeholder write", func(m *mockFileSystem) { m.writeErr = errBoom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newMockFileSystem()
			tt.setup(fs)
			if _, err := Generate(outPath, testSettings(), WithFileSystem(fs)); !errors.Is(err, errBoom) {
				t.Errorf("Generate() error = %v, want wrapped %v", err, errBoom)
			}
		})
	}
}

func TestFrom_RoundTrip(t *testing.T) {
	fs := newMockFileSystem()
	d := newFakeDiscoverer()
	d.funcs["/work/steps/login.go"] = []exports.Function{fn("Login", `@given("a logged-in user")`)}

	b, err := Generate(outPath, testSettings(), WithFileSystem(fs), WithDiscoverer(d))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	res, err := b.From([]string{"/work/steps/login.go"})
	if err != nil {
		t.Fatalf("From() error = %v", err)
	}

	want := strings.Join([]string{
		"// Code generated by stepmap. DO NOT EDIT.",
		"",
		"package stepmappings",
		"",
		"import (",
		"\t\"context\"",
		"",
		"\tstep \"example.com/app/steps\" // ../../steps/steps",
		")",
		"",
		"// StepMappings resolves the step sentences of one kind to the functions implementing them.",
		"type StepMappings[K ~string] map[K]func(ctx context.Context, sentence string) error",
		"",
		"var GivenStepMappings = StepMappings[GivenStep]{",
		"\t\"a logged-in user\": step.Login,",
		"}",
		"type GivenStep string",
		"const (",
		"\tGivenALoggedInUser GivenStep = \"a logged-in user\"",
		")",
		"",
		"var WhenStepMappings = StepMappings[WhenStep]{}",
		"type WhenStep string",
		"",
		"var ThenStepMappings = StepMappings[ThenStep]{}",
		"type ThenStep string",
		"",
		"var ButStepMappings = StepMappings[ButStep]{}",
		"type ButStep string",
		"",
	}, naming.LineTerminator())
	if got := fs.files[outPath]; got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}

	if res.Count() != 1 {
		t.Errorf("Count() = %d, want 1", res.Count())
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if res.OutputPath != outPath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, outPath)
	}
}

func TestFrom_NoMappingsOmitsStepImport(t *testing.T) {
	fs := newMockFileSystem()
	d := newFakeDiscoverer()
	d.funcs["/work/steps/none.go"] = []exports.Function{fn("Helper", "Helper is not a step.")}
	s := testSettings()
	s.BarrelImport = ""
	s.BarrelFile = "/nonexistent/steps/steps.go"

	b, err := Generate(outPath, s, WithFileSystem(fs), WithDiscoverer(d))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := b.From([]string{"/work/steps/none.go"}); err != nil {
		t.Fatalf("From() error = %v", err)
	}

	want := strings.Join([]string{
		"// Code generated by stepmap. DO NOT EDIT.",
		"",
		"package stepmappings",
		"",
		"import (",
		"\t\"context\"",
		")",
		"",
		"// StepMappings resolves the step sentences of one kind to the functions implementing them.",
		"type StepMappings[K ~string] map[K]func(ctx context.Context, sentence string) error",
		"",
		"var GivenStepMappings = StepMappings[GivenStep]{}",
		"type GivenStep string",
		"",
		"var WhenStepMappings = StepMappings[WhenStep]{}",
		"type WhenStep string",
		"",
		"var ThenStepMappings = StepMappings[ThenStep]{}",
		"type ThenStep string",
		"",
		"var ButStepMappings = StepMappings[ButStep]{}",
		"type ButStep string",
		"",
	}, naming.LineTerminator())
	if got := fs.files[outPath]; got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestFrom_PlaceholderIsReplaced(t *testing.T) {
	fs := newMockFileSystem()
	b, err := Generate(outPath, testSettings(), WithFileSystem(fs), WithDiscoverer(newFakeDiscoverer()))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := b.From(nil); err != nil {
		t.Fatalf("From() error = %v", err)
	}
	if len(fs.writes) != 2 {
		t.Fatalf("writes = %d, want placeholder then output", len(fs.writes))
	}
	if strings.Contains(fs.files[outPath], Placeholder) {
		t.Error("placeholder survived a successful run")
	}
}

func TestFrom_BannerRelativeToMappingFile(t *testing.T) {
	fs := newMockFileSystem()
	s := testSettings()
	s.GeneratorFile = "/work/tools/stepgen/main.go"
	b, err := Generate(outPath, s, WithFileSystem(fs), WithDiscoverer(newFakeDiscoverer()))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := b.From(nil); err != nil {
		t.Fatalf("From() error = %v", err)
	}
	want := "// Code generated by '../../tools/stepgen/main.go'. DO NOT EDIT."
	if first := strings.SplitN(fs.files[outPath], "\n", 2)[0]; first != want {
		t.Errorf("banner = %q, want %q", first, want)
	}
}

func TestFrom_PackageOverride(t *testing.T) {
	fs := newMockFileSystem()
	s := testSettings()
	s.Package = "bdd"
	b, err := Generate(outPath, s, WithFileSystem(fs), WithDiscoverer(newFakeDiscoverer()))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := b.From(nil); err != nil {
		t.Fatalf("From() error = %v", err)
	}
	if !strings.Contains(fs.files[outPath], "\npackage bdd\n") {
		t.Errorf("output does not declare package bdd:\n%s", fs.files[outPath])
	}
}

func TestFrom_DiscoversEachFileOnce(t *testing.T) {
	d := newFakeDiscoverer()
	d.funcs["a.go"] = []exports.Function{fn("A", `@given("a")`, `@then("b")`)}
	b, err := Generate(outPath, testSettings(), WithFileSystem(newMockFileSystem()), WithDiscoverer(d))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := b.From([]string{"a.go"}); err != nil {
		t.Fatalf("From() error = %v", err)
	}
	if d.calls["a.go"] != 1 {
		t.Errorf("a.go discovered %d times, want 1", d.calls["a.go"])
	}
}

func TestFrom_DiscoveryErrorKeepsPlaceholder(t *testing.T) {
	fs := newMockFileSystem()
	d := newFakeDiscoverer()
	d.errs["bad.go"] = errors.New("syntax error")
	b, err := Generate(outPath, testSettings(), WithFileSystem(fs), WithDiscoverer(d))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := b.From([]string{"bad.go"}); err == nil {
		t.Fatal("From() error = nil, want discovery error")
	}
	if len(fs.writes) != 1 {
		t.Errorf("writes = %d, want only the placeholder", len(fs.writes))
	}
}

func TestFromContext_Canceled(t *testing.T) {
	d := newFakeDiscoverer()
	b, err := Generate(outPath, testSettings(), WithFileSystem(newMockFileSystem()), WithDiscoverer(d))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.FromContext(ctx, []string{"a.go"}); !errors.Is(err, context.Canceled) {
		t.Errorf("FromContext() error = %v, want context.Canceled", err)
	}
	if d.calls["a.go"] != 0 {
		t.Error("canceled run read a step file")
	}
}

func TestFrom_WriteError(t *testing.T) {
	fs := newMockFileSystem()
	fs.exists[outPath] = true
	b, err := Generate(outPath, testSettings(), WithFileSystem(fs), WithDiscoverer(newFakeDiscoverer()))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	errBoom := errors.New("disk full")
	fs.writeErr = errBoom
	if _, err := b.From(nil); !errors.Is(err, errBoom) {
		t.Errorf("From() error = %v, want wrapped %v", err, errBoom)
	}
}

func TestFrom_FormatFailureAbortsWrite(t *testing.T) {
	fs := newMockFileSystem()
	fs.exists[outPath] = true
	d := newFakeDiscoverer()
	d.funcs["a.go"] = []exports.Function{fn("A", `@given('say "hi"')`)}
	s := testSettings()
	s.Format = true
	b, err := Generate(outPath, s, WithFileSystem(fs), WithDiscoverer(d))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := b.From([]string{"a.go"}); err == nil {
		t.Fatal("From() error = nil, want format error for unescaped quote")
	}
	if len(fs.writes) != 0 {
		t.Errorf("writes = %d, want 0", len(fs.writes))
	}
}

// writeFile creates path below dir with content.
func writeFile(t *testing.T, dir, path, content string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

func TestGenerate_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n\ngo 1.25\n")
	writeFile(t, dir, "steps/steps.go", "// Package steps re-exports every step.\npackage steps\n")
	login := writeFile(t, dir, "steps/login.go", `package steps

import "context"

// Login signs the default user in.
//
// @given("a logged-in user")
func Login(ctx context.Context, sentence string) error { return nil }

// SignOut ends the session.
//
// @when("the user signs out")
// @but("the session is kept")
func SignOut(ctx context.Context, sentence string) error { return nil }
`)
	dashboard := writeFile(t, dir, "steps/dashboard_shown.go", `package steps

import "context"

// @then("the dashboard is shown")
var DashboardShown = func(ctx context.Context, sentence string) error { return nil }

// @then("the menu is shown")
var _ = func(ctx context.Context, sentence string) error { return nil }
`)

	s := config.Default().Resolve(dir)
	s.GeneratorFile = filepath.Join(dir, "tools", "gen.go")
	out := s.MappingFile

	run := func() string {
		t.Helper()
		b, err := Generate(out, s)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		res, err := b.From([]string{login, dashboard})
		if err != nil {
			t.Fatalf("From() error = %v", err)
		}
		if res.Count() != 4 {
			t.Errorf("Count() = %d, want 4", res.Count())
		}
		if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != STW003 {
			t.Errorf("Diagnostics = %+v, want one STW003", res.Diagnostics)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		return string(data)
	}

	first := run()
	for _, want := range []string{
		"// Code generated by '../../tools/gen.go'. DO NOT EDIT.",
		"package stepmappings",
		`step "example.com/app/steps" // ../../steps/steps`,
		`"a logged-in user": step.Login,`,
		`"the user signs out": step.SignOut,`,
		`"the dashboard is shown": step.DashboardShown,`,
		`"the session is kept": step.SignOut,`,
		"type ButStep string",
	} {
		if !strings.Contains(first, want) {
			t.Errorf("output missing %q:\n%s", want, first)
		}
	}

	if strings.Contains(first, "the menu is shown") {
		t.Errorf("step assigned to _ was mapped:\n%s", first)
	}
	typeCheck(t, filepath.Join(dir, "steps"), "example.com/app/steps", out)

	if second := run(); second != first {
		t.Errorf("re-run output differs:\n%s\nwant\n%s", second, first)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("output permissions = %o, want 644", perm)
	}
}

func TestCollectFiles(t *testing.T) {
	d := newFakeDiscoverer()
	d.funcs["a.go"] = []exports.Function{fn("B", `@when("b")`), fn("A", `@when("a")`)}
	mappings, diags, err := CollectFiles(context.Background(), testSettings(), d, []string{"a.go"})
	if err != nil {
		t.Fatalf("CollectFiles() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diags = %+v, want none", diags)
	}
	if got := mappings[When]; len(got) != 2 || got[0].Func != "A" {
		t.Errorf("mappings[when] = %+v, want A then B", got)
	}
	if d.calls["a.go"] != 1 {
		t.Errorf("a.go discovered %d times, want 1", d.calls["a.go"])
	}
}
