package platform

import (
	"errors"
	"fmt"
)

// Platform identifies a build target as an os/arch pair.
type Platform string

// The supported platforms: two 64-bit architectures crossed with two
// operating-system families. The set is fixed at compile time and is never
// discovered dynamically.
const (
	LinuxAmd64  Platform = "linux/amd64"
	LinuxArm64  Platform = "linux/arm64"
	DarwinAmd64 Platform = "darwin/amd64"
	DarwinArm64 Platform = "darwin/arm64"
)

// All returns the supported platforms in enumeration order.
func All() []Platform {
	return []Platform{LinuxAmd64, LinuxArm64, DarwinAmd64, DarwinArm64}
}

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrUnresolved      = errors.New("unresolved dependency")
)

// Parse validates a platform identifier against the supported enumeration.
func Parse(s string) (Platform, error) {
	for _, p := range All() {
		if Platform(s) == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

// Artifact is one concrete tool supplied by a platform's package collection.
type Artifact struct {
	Name    string
	Version string
	Path    string
}

// Collection resolves abstract tool names to concrete artifacts for one
// platform. Two platforms never resolve a name to the same artifact, so
// callers must not cache lookups across collections.
type Collection interface {
	Platform() Platform
	Lookup(name string) (Artifact, bool)
}

// ResolveAll resolves names against a collection, preserving declaration
// order. Resolution stops at the first missing name.
func ResolveAll(coll Collection, names []string) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(names))
	for _, name := range names {
		a, ok := coll.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolved, name)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}
