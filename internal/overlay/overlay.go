// Package overlay exposes the plan builder as an injectable extension
// point, so a consumer's own platform package collection can be extended
// with this package without re-deriving the matrix logic.
package overlay

import (
	"github.com/matt1432/planmat/internal/plan"
	"github.com/matt1432/planmat/internal/platform"
)

// Extension extends an existing platform package collection with one
// package, keyed by package name.
type Extension func(platform.Collection) (map[string]*plan.BuildPlan, error)

// Publisher publishes a package's builder as an extension.
type Publisher struct {
	name    string
	builder *plan.Builder
}

// NewPublisher creates a publisher for the named package.
func NewPublisher(name string, builder *plan.Builder) *Publisher {
	return &Publisher{name: name, builder: builder}
}

// Extension returns a function that builds this package against a
// caller-supplied collection. The function is pure; it may be invoked any
// number of times with different collections.
func (p *Publisher) Extension() Extension {
	return func(coll platform.Collection) (map[string]*plan.BuildPlan, error) {
		bp, err := p.builder.Build(coll)
		if err != nil {
			return nil, err
		}
		return map[string]*plan.BuildPlan{p.name: bp}, nil
	}
}
