package plan

import (
	"fmt"

	"github.com/matt1432/planmat/internal/descriptor"
	"github.com/matt1432/planmat/internal/lockfile"
	"github.com/matt1432/planmat/internal/manifest"
	"github.com/matt1432/planmat/internal/platform"
	"github.com/matt1432/planmat/internal/rundeps"
	"github.com/matt1432/planmat/internal/source"
)

// Builder constructs one build plan per platform package collection. The
// manifest, source tree, lock file and descriptor are shared read-only
// across every platform.
type Builder struct {
	meta    *manifest.Manifest
	tree    *source.Tree
	lock    lockfile.Ref
	desc    *descriptor.Descriptor
	runtime rundeps.Set
}

// NewBuilder creates a builder over the shared, platform-independent inputs.
func NewBuilder(meta *manifest.Manifest, tree *source.Tree, lock lockfile.Ref, desc *descriptor.Descriptor) *Builder {
	return &Builder{
		meta:    meta,
		tree:    tree,
		lock:    lock,
		desc:    desc,
		runtime: rundeps.New(desc.Runtime),
	}
}

// Runtime returns the declared runtime dependency set.
func (b *Builder) Runtime() rundeps.Set {
	return b.runtime
}

// Build resolves one platform's collection into a complete build plan.
// Build is a pure function of its inputs: identical inputs yield
// structurally equal plans.
func (b *Builder) Build(coll platform.Collection) (*BuildPlan, error) {
	native, err := platform.ResolveAll(coll, b.desc.Native)
	if err != nil {
		return nil, fmt.Errorf("native build inputs: %w", err)
	}

	extra, err := platform.ResolveAll(coll, b.desc.ExtraFor(coll.Platform()))
	if err != nil {
		return nil, fmt.Errorf("build inputs: %w", err)
	}

	runtime, err := b.runtime.Resolve(coll)
	if err != nil {
		return nil, fmt.Errorf("runtime dependencies: %w", err)
	}

	steps, err := postInstallSteps(b.desc.Artifacts, runtime)
	if err != nil {
		return nil, err
	}

	env := make(map[string]string, len(b.desc.Env))
	for k, v := range b.desc.Env {
		env[k] = v
	}

	return &BuildPlan{
		PName:             b.meta.Name,
		Version:           b.meta.Version,
		Platform:          coll.Platform(),
		Source:            b.tree,
		LockFile:          b.lock,
		NativeBuildInputs: native,
		BuildInputs:       extra,
		RuntimeInputs:     runtime,
		Env:               env,
		PostInstall:       steps,
		DoCheck:           false,
		Meta: Metadata{
			Description: b.meta.Description,
			License:     b.meta.License,
			Maintainers: append([]string(nil), b.meta.Maintainers...),
		},
	}, nil
}

// postInstallSteps assembles the post-install actions in their fixed order:
// wrap the executable, install the man page, install the completions. The
// order is invariant across platforms.
func postInstallSteps(a *descriptor.Artifacts, runtime []platform.Artifact) ([]Step, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: no artifacts declared", ErrMissingArtifact)
	}
	if a.ManPage == "" {
		return nil, fmt.Errorf("%w: man page", ErrMissingArtifact)
	}

	completions, err := completionArtifacts(a.Completions)
	if err != nil {
		return nil, err
	}

	prefix := make([]string, len(runtime))
	for i, art := range runtime {
		prefix[i] = art.Path
	}

	return []Step{
		{Kind: StepWrapProgram, PathPrefix: prefix},
		{Kind: StepInstallManPage, ManPage: a.ManPage},
		{Kind: StepInstallCompletions, Completions: completions},
	}, nil
}

// completionArtifacts requires one distinct generated artifact per shell
// family. An absent path means a prerequisite generation step was skipped.
func completionArtifacts(c *descriptor.Completions) ([]Completion, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no completion scripts declared", ErrMissingArtifact)
	}

	shells := []struct {
		shell string
		path  string
	}{
		{"bash", c.Bash},
		{"zsh", c.Zsh},
		{"fish", c.Fish},
	}

	completions := make([]Completion, 0, len(shells))
	for _, s := range shells {
		if s.path == "" {
			return nil, fmt.Errorf("%w: %s completion script", ErrMissingArtifact, s.shell)
		}
		completions = append(completions, Completion{Shell: s.shell, Path: s.path})
	}
	return completions, nil
}
