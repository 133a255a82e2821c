// Package emit writes an evaluated matrix as a YAML document for the
// external build executor. Output is deterministic: platforms appear in
// enumeration order and repeated emission of the same matrix is
// byte-identical.
package emit

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matt1432/planmat/internal/matrix"
	"github.com/matt1432/planmat/internal/plan"
	"github.com/matt1432/planmat/internal/platform"
)

// Emitter writes matrix documents.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates a new matrix emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

type document struct {
	Package   string        `yaml:"package"`
	Version   string        `yaml:"version"`
	Platforms []platformDoc `yaml:"platforms"`
}

type platformDoc struct {
	Platform  string        `yaml:"platform"`
	Plan      planDoc       `yaml:"plan"`
	DevShell  []artifactDoc `yaml:"devShell"`
	Formatter *artifactDoc  `yaml:"formatter,omitempty"`
}

type planDoc struct {
	PName             string            `yaml:"pname"`
	Version           string            `yaml:"version"`
	Source            []string          `yaml:"source"`
	LockFile          string            `yaml:"lockFile"`
	NativeBuildInputs []artifactDoc     `yaml:"nativeBuildInputs"`
	BuildInputs       []artifactDoc     `yaml:"buildInputs"`
	Env               map[string]string `yaml:"env,omitempty"`
	PostInstall       []stepDoc         `yaml:"postInstall"`
	DoCheck           bool              `yaml:"doCheck"`
	Description       string            `yaml:"description,omitempty"`
	License           string            `yaml:"license,omitempty"`
	Maintainers       []string          `yaml:"maintainers,omitempty"`
}

type artifactDoc struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
	Path    string `yaml:"path"`
}

type stepDoc struct {
	Kind        string          `yaml:"kind"`
	PathPrefix  []string        `yaml:"pathPrefix,omitempty"`
	ManPage     string          `yaml:"manPage,omitempty"`
	Completions []completionDoc `yaml:"completions,omitempty"`
}

type completionDoc struct {
	Shell string `yaml:"shell"`
	Path  string `yaml:"path"`
}

// Emit writes one document for the given matrix. Platforms missing from the
// matrix (failed in isolated mode) are left out; present ones keep
// enumeration order.
func (e *Emitter) Emit(name, version string, m matrix.Matrix) error {
	doc := document{Package: name, Version: version}

	for _, p := range platform.All() {
		entry, ok := m[p]
		if !ok {
			continue
		}
		doc.Platforms = append(doc.Platforms, platformEntry(p, entry))
	}

	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding matrix: %w", err)
	}
	return enc.Close()
}

func platformEntry(p platform.Platform, entry matrix.Entry) platformDoc {
	doc := platformDoc{
		Platform: string(p),
		Plan:     planEntry(entry.Plan),
		DevShell: artifacts(entry.DevShell.Packages),
	}
	if entry.Formatter != (platform.Artifact{}) {
		f := artifact(entry.Formatter)
		doc.Formatter = &f
	}
	return doc
}

func planEntry(bp *plan.BuildPlan) planDoc {
	return planDoc{
		PName:             bp.PName,
		Version:           bp.Version,
		Source:            bp.Source.Files(),
		LockFile:          bp.LockFile.Path,
		NativeBuildInputs: artifacts(bp.NativeBuildInputs),
		BuildInputs:       artifacts(bp.BuildInputs),
		Env:               bp.Env,
		PostInstall:       steps(bp.PostInstall),
		DoCheck:           bp.DoCheck,
		Description:       bp.Meta.Description,
		License:           bp.Meta.License,
		Maintainers:       bp.Meta.Maintainers,
	}
}

func steps(in []plan.Step) []stepDoc {
	out := make([]stepDoc, 0, len(in))
	for _, s := range in {
		doc := stepDoc{
			Kind:       string(s.Kind),
			PathPrefix: s.PathPrefix,
			ManPage:    s.ManPage,
		}
		for _, c := range s.Completions {
			doc.Completions = append(doc.Completions, completionDoc{Shell: c.Shell, Path: c.Path})
		}
		out = append(out, doc)
	}
	return out
}

func artifacts(in []platform.Artifact) []artifactDoc {
	out := make([]artifactDoc, 0, len(in))
	for _, a := range in {
		out = append(out, artifact(a))
	}
	return out
}

func artifact(a platform.Artifact) artifactDoc {
	return artifactDoc{Name: a.Name, Version: a.Version, Path: a.Path}
}
