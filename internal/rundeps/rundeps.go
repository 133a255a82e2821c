// Package rundeps enumerates the external executables a built program must
// be able to invoke at run time, independent of platform.
package rundeps

import (
	"github.com/matt1432/planmat/internal/platform"
)

// Set is an ordered list of abstract executable names. Order matters:
// earlier entries shadow later ones on the injected lookup path.
type Set struct {
	names []string
}

// New declares a runtime dependency set.
func New(names []string) Set {
	return Set{names: append([]string(nil), names...)}
}

// Names returns the declared names in declaration order.
func (s Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Resolve looks every declared name up in a platform's package collection,
// preserving declaration order. A missing name aborts resolution so a
// platform with an incomplete toolchain produces no plan at all.
func (s Set) Resolve(coll platform.Collection) ([]platform.Artifact, error) {
	return platform.ResolveAll(coll, s.names)
}
