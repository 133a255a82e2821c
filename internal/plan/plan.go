// Package plan constructs fully resolved, reproducible build plans: one
// platform's package collection plus the shared package description yields
// the complete set of inputs, steps and post-install actions the external
// build executor needs.
package plan

import (
	"github.com/matt1432/planmat/internal/lockfile"
	"github.com/matt1432/planmat/internal/platform"
	"github.com/matt1432/planmat/internal/source"
)

// StepKind enumerates the post-install actions a build plan schedules.
type StepKind string

const (
	StepWrapProgram        StepKind = "wrap-program"
	StepInstallManPage     StepKind = "install-man-page"
	StepInstallCompletions StepKind = "install-completions"
)

// Completion is one generated shell completion artifact.
type Completion struct {
	Shell string
	Path  string
}

// Step is one ordered post-install action.
type Step struct {
	Kind StepKind

	// PathPrefix holds the resolved locations prepended to the wrapped
	// executable's lookup path. The inherited path stays as fallback, so
	// system-level resolution still works.
	PathPrefix []string

	// ManPage is the generated man page artifact to install.
	ManPage string

	// Completions holds one artifact per shell family.
	Completions []Completion
}

// Metadata is carried verbatim from the manifest into the produced
// artifact's provenance record.
type Metadata struct {
	Description string
	License     string
	Maintainers []string
}

// BuildPlan is the output of the builder for one platform. A plan is fully
// self-contained: it references no mutable process state and does not depend
// on the evaluation order of other platforms' plans.
type BuildPlan struct {
	PName    string
	Version  string
	Platform platform.Platform

	Source   *source.Tree
	LockFile lockfile.Ref

	// NativeBuildInputs are build-time-only tools.
	NativeBuildInputs []platform.Artifact

	// BuildInputs are platform-conditional link inputs. Empty on platforms
	// outside every extra_inputs table entry.
	BuildInputs []platform.Artifact

	// RuntimeInputs are the resolved runtime dependencies, in declaration
	// order. They feed the wrap step's path prefix and the dev shell.
	RuntimeInputs []platform.Artifact

	Env         map[string]string
	PostInstall []Step

	// DoCheck is always false: the upstream test suite needs network
	// access, which the build environment does not provide.
	DoCheck bool

	Meta Metadata
}
