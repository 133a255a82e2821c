// Package descriptor loads the declarative build descriptor: the single
// package description that the evaluator projects, unmodified, onto every
// supported platform.
package descriptor

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/matt1432/planmat/internal/platform"
)

// Descriptor is one package's build description. All fields are
// platform-independent; platform-conditional behavior is expressed as data
// in ExtraInputs blocks, never as code.
type Descriptor struct {
	LockFile  string         `hcl:"lock_file"`
	Source    *SourceBlock   `hcl:"source,block"`
	Runtime   []string       `hcl:"runtime"`
	Native    []string       `hcl:"native"`
	EnvExpr   hcl.Expression `hcl:"env,optional"`
	Extra     []*ExtraInputs `hcl:"extra_inputs,block"`
	Artifacts *Artifacts     `hcl:"artifacts,block"`
	Formatter string         `hcl:"formatter,optional"`

	// Env is the decoded env attribute. Copied into every build plan.
	Env map[string]string
}

// SourceBlock declares the inclusion patterns that filter the source tree.
type SourceBlock struct {
	Patterns []string `hcl:"patterns"`
}

// ExtraInputs appends link-time packages on the listed platforms only. The
// platform list is the one branch point of the whole builder, kept as data
// so adding a platform touches this table and nothing else.
type ExtraInputs struct {
	Name      string   `hcl:"name,label"`
	Platforms []string `hcl:"platforms"`
	Packages  []string `hcl:"packages"`
}

// Artifacts names the generated files the post-install steps consume.
type Artifacts struct {
	ManPage     string       `hcl:"man_page,optional"`
	Completions *Completions `hcl:"completions,block"`
}

// Completions holds one generated completion script per shell family.
type Completions struct {
	Bash string `hcl:"bash,optional"`
	Zsh  string `hcl:"zsh,optional"`
	Fish string `hcl:"fish,optional"`
}

type root struct {
	Package *Descriptor `hcl:"package,block"`
}

// Load reads and validates a build descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates descriptor content. The filename is used in
// diagnostics only.
func Parse(data []byte, filename string) (*Descriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing descriptor %s: %w", filename, diags)
	}

	var r root
	if diags := gohcl.DecodeBody(file.Body, nil, &r); diags.HasErrors() {
		return nil, fmt.Errorf("decoding descriptor %s: %w", filename, diags)
	}
	if r.Package == nil {
		return nil, errors.New("descriptor: missing package block")
	}

	d := r.Package
	if err := d.decodeEnv(); err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// decodeEnv evaluates the env attribute into a string map. The attribute is
// optional; a nil expression yields an empty map.
func (d *Descriptor) decodeEnv() error {
	d.Env = make(map[string]string)
	if d.EnvExpr == nil {
		return nil
	}

	val, diags := d.EnvExpr.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("descriptor: evaluating env: %w", diags)
	}
	if val.IsNull() {
		return nil
	}

	val, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return fmt.Errorf("descriptor: env must be a map of strings: %w", err)
	}
	for name, v := range val.AsValueMap() {
		d.Env[name] = v.AsString()
	}
	return nil
}

func (d *Descriptor) validate() error {
	if d.LockFile == "" {
		return errors.New("descriptor: lock_file is required")
	}
	if d.Source == nil || len(d.Source.Patterns) == 0 {
		return errors.New("descriptor: source patterns are required")
	}
	if len(d.Runtime) == 0 {
		return errors.New("descriptor: runtime tool list is required")
	}
	if len(d.Native) == 0 {
		return errors.New("descriptor: native tool list is required")
	}
	for _, extra := range d.Extra {
		for _, s := range extra.Platforms {
			if _, err := platform.Parse(s); err != nil {
				return fmt.Errorf("descriptor: extra_inputs %q: %w", extra.Name, err)
			}
		}
	}
	return nil
}

// ExtraFor returns the extra input packages for one platform, in declaration
// order. Platforms outside every extra_inputs block get an empty list.
func (d *Descriptor) ExtraFor(p platform.Platform) []string {
	var packages []string
	for _, extra := range d.Extra {
		for _, s := range extra.Platforms {
			if platform.Platform(s) == p {
				packages = append(packages, extra.Packages...)
				break
			}
		}
	}
	return packages
}
