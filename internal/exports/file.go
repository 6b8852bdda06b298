package exports

import "os"

// FileDiscoverer discovers exported functions by reading step files from disk.
type FileDiscoverer struct{}

// Discover reads the file at path and returns its exported functions.
func (FileDiscoverer) Discover(path string) ([]Function, error) {
	return DiscoverFileImpl(path)
}

// DiscoverFileImpl reads a Go source file from disk and discovers its exports.
// This is an Impl function exempt from coverage requirements.
func DiscoverFileImpl(path string) ([]Function, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Discover(path, src)
}
