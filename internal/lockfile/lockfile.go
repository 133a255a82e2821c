package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("lock file not found")

// Ref points at an externally verified lock file. The contents are never
// read here; integrity checking belongs to the build executor.
type Ref struct {
	Path string
}

// NewRef checks that the named lock file exists under root and returns a
// reference to it.
func NewRef(root, name string) (Ref, error) {
	path := filepath.Join(root, name)
	info, err := os.Stat(path)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if info.IsDir() {
		return Ref{}, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return Ref{Path: path}, nil
}
