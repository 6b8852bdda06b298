package stepmap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eykd/stepmap-go/internal/naming"
)

// OSFileSystem implements FileSystem using OS file I/O.
type OSFileSystem struct{}

// EnsureDir creates the directories leading to path.
func (f OSFileSystem) EnsureDir(path string) error {
	return naming.EnsureDirectoryStructure(path)
}

// StatFile returns true if the file at path exists, false if it does not.
// Returns an error only for unexpected OS errors.
func (f OSFileSystem) StatFile(path string) (bool, error) {
	return f.StatFileImpl(path)
}

// StatFileImpl wraps os.Stat to check file existence.
func (f OSFileSystem) StatFileImpl(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes content to path atomically via a temp file in the
// same directory. The result has 0644 permissions like any other source file.
func (f OSFileSystem) WriteFileAtomic(path, content string) error {
	return f.WriteFileAtomicImpl(path, content)
}

// WriteFileAtomicImpl performs the atomic write via OS temp file rename.
func (f OSFileSystem) WriteFileAtomicImpl(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stepmap-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write([]byte(content)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
