package cmd

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScanStepFilesImpl lists the .go files directly inside stepsDir in name
// order, skipping test files and the generated mapping file. Step files form
// one package, so subdirectories are not scanned. It is an Impl function: it
// performs OS filesystem operations and is excluded from unit test coverage
// calculations.
func ScanStepFilesImpl(ctx context.Context, stepsDir, mappingFile string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(stepsDir)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		path := filepath.Join(stepsDir, name)
		if filepath.Clean(path) == filepath.Clean(mappingFile) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// ScanSpecFilesImpl walks dir recursively, collecting all .txt spec files in
// lexical order. It is an Impl function: it performs OS filesystem operations
// and is excluded from unit test coverage calculations.
func ScanSpecFilesImpl(ctx context.Context, dir string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".txt") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
