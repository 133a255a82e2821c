// Package source filters a source tree down to the files relevant to the
// build, decoupling what is versioned from what is needed to build.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
)

var (
	ErrInvalidPattern = errors.New("invalid source pattern")
	ErrEmptySelection = errors.New("source selection is empty")
)

// Tree is an immutable filtered view of a source root. Only paths matching
// the selection patterns are visible; everything else behaves as if it does
// not exist, so unlisted files cannot leak into a build.
type Tree struct {
	root  fs.FS
	files []string
}

// Select filters root down to the paths matching at least one pattern.
// Patterns are regular expressions anchored against slash-separated paths
// relative to root.
func Select(root fs.FS, patterns []string) (*Tree, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no patterns given", ErrInvalidPattern)
	}

	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p, err)
		}
		compiled[i] = re
	}

	var files []string
	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, re := range compiled {
			if re.MatchString(path) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source root: %w", err)
	}

	// Zero selected files almost certainly means a descriptor mistake.
	if len(files) == 0 {
		return nil, ErrEmptySelection
	}

	sort.Strings(files)
	return &Tree{root: root, files: files}, nil
}

// Files returns the selected paths in sorted order.
func (t *Tree) Files() []string {
	return append([]string(nil), t.files...)
}

// Contains reports whether a path is part of the selection.
func (t *Tree) Contains(path string) bool {
	i := sort.SearchStrings(t.files, path)
	return i < len(t.files) && t.files[i] == path
}

// Open opens a selected file. Paths outside the selection are reported as
// not existing, even when present under the root.
func (t *Tree) Open(name string) (fs.File, error) {
	if !t.Contains(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return t.root.Open(name)
}

// Equal reports whether two trees select the same set of paths.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.files) != len(o.files) {
		return false
	}
	for i, f := range t.files {
		if o.files[i] != f {
			return false
		}
	}
	return true
}
