// Package store supplies platform package collections from a pinned
// toolchain index file. The index is the local form of the package-store
// collaborator: an opaque name→artifact resolver per platform.
package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matt1432/planmat/internal/platform"
)

var ErrNoCollection = errors.New("no package collection for platform")

// Entry is one tool pinned in the toolchain index.
type Entry struct {
	Version string `yaml:"version"`
	Path    string `yaml:"path"`
}

type indexFile struct {
	Platforms map[string]map[string]Entry `yaml:"platforms"`
}

// Index holds the pinned toolchains for every platform it was loaded with.
type Index struct {
	platforms map[platform.Platform]map[string]Entry
}

// Load reads a toolchain index file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading toolchain index: %w", err)
	}
	return Parse(data)
}

// Parse decodes toolchain index content. Platform keys must belong to the
// supported enumeration.
func Parse(data []byte) (*Index, error) {
	var f indexFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing toolchain index: %w", err)
	}

	idx := &Index{platforms: make(map[platform.Platform]map[string]Entry, len(f.Platforms))}
	for key, tools := range f.Platforms {
		p, err := platform.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("toolchain index: %w", err)
		}
		idx.platforms[p] = tools
	}
	return idx, nil
}

// Collection returns the package collection for one platform.
func (idx *Index) Collection(p platform.Platform) (platform.Collection, error) {
	tools, ok := idx.platforms[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCollection, p)
	}
	return &collection{platform: p, tools: tools}, nil
}

// collection is a read-only view over one platform's index section.
type collection struct {
	platform platform.Platform
	tools    map[string]Entry
}

func (c *collection) Platform() platform.Platform {
	return c.platform
}

func (c *collection) Lookup(name string) (platform.Artifact, bool) {
	e, ok := c.tools[name]
	if !ok {
		return platform.Artifact{}, false
	}
	return platform.Artifact{Name: name, Version: e.Version, Path: e.Path}, true
}
