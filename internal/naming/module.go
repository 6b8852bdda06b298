package naming

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod is found above a directory.
var ErrNoModule = errors.New("no go.mod found")

// ImportPath resolves the Go import path of the package in dir by locating
// the nearest enclosing go.mod and joining its module path with dir's
// position below the module root. dir must be absolute.
func ImportPath(dir string) (string, error) {
	root, modPath, err := findModule(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", fmt.Errorf("relating %s to module root %s: %w", dir, root, err)
	}
	if rel == "." {
		return modPath, nil
	}
	return path.Join(modPath, Slash(rel)), nil
}

// findModule walks up from dir until it finds a go.mod declaring a module.
func findModule(dir string) (root, modPath string, err error) {
	for current := dir; ; {
		data, readErr := os.ReadFile(filepath.Join(current, "go.mod"))
		switch {
		case readErr == nil:
			modPath = modfile.ModulePath(data)
			if modPath == "" {
				return "", "", fmt.Errorf("%s: go.mod has no module directive", current)
			}
			return current, modPath, nil
		case !os.IsNotExist(readErr):
			return "", "", fmt.Errorf("reading go.mod: %w", readErr)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", "", fmt.Errorf("%w above %s", ErrNoModule, dir)
		}
		current = parent
	}
}
