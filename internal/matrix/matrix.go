// Package matrix projects one build descriptor onto every supported
// platform, yielding a mapping from platform identifier to that platform's
// published outputs.
package matrix

import (
	"fmt"
	"sync"

	"github.com/matt1432/planmat/internal/plan"
	"github.com/matt1432/planmat/internal/platform"
)

// DevShell is the development environment for one platform. It exposes the
// resolved runtime tool set only, never build-time-only inputs.
type DevShell struct {
	Packages []platform.Artifact
}

// Entry is everything published for one platform.
type Entry struct {
	// Plan is the platform's build plan.
	Plan *plan.BuildPlan

	// Default is the default-package descriptor, equal to Plan.
	Default *plan.BuildPlan

	DevShell DevShell

	// Formatter is the platform-resolved code-formatting tool, when the
	// descriptor selects one.
	Formatter platform.Artifact
}

// Matrix maps each supported platform to its published outputs.
type Matrix map[platform.Platform]Entry

// CollectionFunc supplies the package collection for one platform.
type CollectionFunc func(platform.Platform) (platform.Collection, error)

// Evaluator applies the plan builder once per supported platform. Each
// platform is evaluated independently: no state flows between iterations,
// so evaluation fans out across goroutines.
type Evaluator struct {
	builder   *plan.Builder
	formatter string
}

// NewEvaluator creates an evaluator around a plan builder. formatter names
// the code-formatting tool to resolve per platform; empty selects none.
func NewEvaluator(builder *plan.Builder, formatter string) *Evaluator {
	return &Evaluator{builder: builder, formatter: formatter}
}

// Evaluate computes every platform's entry, failing on the first error in
// enumeration order. The error is attributed to its platform identifier.
func (e *Evaluator) Evaluate(collectionFor CollectionFunc) (Matrix, error) {
	m, failed := e.EvaluateIsolated(collectionFor)
	for _, p := range platform.All() {
		if err := failed[p]; err != nil {
			return nil, err
		}
	}
	return m, nil
}

// EvaluateIsolated computes every platform's entry, collecting failures per
// platform. A failing platform produces no entry and never blocks the
// others.
func (e *Evaluator) EvaluateIsolated(collectionFor CollectionFunc) (Matrix, map[platform.Platform]error) {
	platforms := platform.All()
	entries := make([]Entry, len(platforms))
	errs := make([]error, len(platforms))

	var wg sync.WaitGroup
	for i, p := range platforms {
		wg.Add(1)
		go func(i int, p platform.Platform) {
			defer wg.Done()
			entries[i], errs[i] = e.evaluateOne(p, collectionFor)
		}(i, p)
	}
	wg.Wait()

	m := make(Matrix, len(platforms))
	failed := make(map[platform.Platform]error)
	for i, p := range platforms {
		if errs[i] != nil {
			failed[p] = fmt.Errorf("platform %s: %w", p, errs[i])
			continue
		}
		m[p] = entries[i]
	}
	return m, failed
}

func (e *Evaluator) evaluateOne(p platform.Platform, collectionFor CollectionFunc) (Entry, error) {
	coll, err := collectionFor(p)
	if err != nil {
		return Entry{}, err
	}
	if coll.Platform() != p {
		return Entry{}, fmt.Errorf("collection reports platform %s", coll.Platform())
	}

	bp, err := e.builder.Build(coll)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Plan:     bp,
		Default:  bp,
		DevShell: DevShell{Packages: bp.RuntimeInputs},
	}

	if e.formatter != "" {
		f, ok := coll.Lookup(e.formatter)
		if !ok {
			return Entry{}, fmt.Errorf("formatter: %w: %s", platform.ErrUnresolved, e.formatter)
		}
		entry.Formatter = f
	}
	return entry, nil
}
