package rundeps

import (
	"errors"
	"strings"
	"testing"

	"github.com/matt1432/planmat/internal/platform"
)

type fakeCollection struct {
	platform platform.Platform
	tools    map[string]platform.Artifact
}

func (c *fakeCollection) Platform() platform.Platform { return c.platform }

func (c *fakeCollection) Lookup(name string) (platform.Artifact, bool) {
	a, ok := c.tools[name]
	return a, ok
}

func TestSet_Resolve_Order(t *testing.T) {
	coll := &fakeCollection{
		platform: platform.LinuxAmd64,
		tools: map[string]platform.Artifact{
			"nix":       {Name: "nix", Path: "/store/nix/bin"},
			"git":       {Name: "git", Path: "/store/git/bin"},
			"mercurial": {Name: "mercurial", Path: "/store/hg/bin"},
		},
	}

	set := New([]string{"git", "mercurial", "nix"})
	artifacts, err := set.Resolve(coll)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Declaration order is lookup-path precedence; it must survive
	// resolution untouched.
	want := []string{"git", "mercurial", "nix"}
	for i, name := range want {
		if artifacts[i].Name != name {
			t.Errorf("artifacts[%d] = %s, want %s", i, artifacts[i].Name, name)
		}
	}
}

func TestSet_Resolve_Missing(t *testing.T) {
	coll := &fakeCollection{
		platform: platform.LinuxAmd64,
		tools: map[string]platform.Artifact{
			"git": {Name: "git"},
			"nix": {Name: "nix"},
		},
	}

	set := New([]string{"git", "mercurial", "nix"})
	_, err := set.Resolve(coll)
	if !errors.Is(err, platform.ErrUnresolved) {
		t.Fatalf("Resolve() error = %v, want ErrUnresolved", err)
	}
	if !strings.Contains(err.Error(), "mercurial") {
		t.Errorf("Resolve() error %q does not name mercurial", err)
	}
}

func TestSet_Names_Copies(t *testing.T) {
	declared := []string{"git", "nix"}
	set := New(declared)

	declared[0] = "changed"
	if set.Names()[0] != "git" {
		t.Error("New() should copy the declared names")
	}

	names := set.Names()
	names[0] = "changed"
	if set.Names()[0] != "git" {
		t.Error("Names() should return a copy")
	}
}
