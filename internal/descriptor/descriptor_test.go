package descriptor

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matt1432/planmat/internal/platform"
)

const fullDescriptor = `
package {
  lock_file = "Cargo.lock"

  source {
    patterns = ["src/.*", "Cargo\\.(toml|lock)"]
  }

  runtime = ["git", "mercurial", "nix"]
  native  = ["installShellFiles", "makeBinaryWrapper", "cargo"]

  env = {
    GEN_ARTIFACTS = "artifacts"
  }

  extra_inputs "darwin" {
    platforms = ["darwin/amd64", "darwin/arm64"]
    packages  = ["Security"]
  }

  artifacts {
    man_page = "target/man/nurl.1"

    completions {
      bash = "artifacts/nurl.bash"
      zsh  = "artifacts/_nurl"
      fish = "artifacts/nurl.fish"
    }
  }

  formatter = "nixpkgs-fmt"
}
`

func TestParse_Full(t *testing.T) {
	d, err := Parse([]byte(fullDescriptor), "build.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if d.LockFile != "Cargo.lock" {
		t.Errorf("LockFile = %s, want Cargo.lock", d.LockFile)
	}
	if diff := cmp.Diff([]string{"src/.*", `Cargo\.(toml|lock)`}, d.Source.Patterns); diff != "" {
		t.Errorf("Source.Patterns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"git", "mercurial", "nix"}, d.Runtime); diff != "" {
		t.Errorf("Runtime mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"installShellFiles", "makeBinaryWrapper", "cargo"}, d.Native); diff != "" {
		t.Errorf("Native mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"GEN_ARTIFACTS": "artifacts"}, d.Env); diff != "" {
		t.Errorf("Env mismatch (-want +got):\n%s", diff)
	}
	if d.Artifacts == nil || d.Artifacts.ManPage != "target/man/nurl.1" {
		t.Errorf("Artifacts.ManPage = %+v, want target/man/nurl.1", d.Artifacts)
	}
	if d.Artifacts.Completions == nil || d.Artifacts.Completions.Zsh != "artifacts/_nurl" {
		t.Errorf("Completions = %+v", d.Artifacts.Completions)
	}
	if d.Formatter != "nixpkgs-fmt" {
		t.Errorf("Formatter = %s, want nixpkgs-fmt", d.Formatter)
	}
}

func TestParse_NoEnv(t *testing.T) {
	content := `
package {
  lock_file = "Cargo.lock"
  source { patterns = ["src/.*"] }
  runtime = ["git"]
  native  = ["cargo"]
  artifacts { man_page = "nurl.1" }
}
`
	d, err := Parse([]byte(content), "build.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(d.Env) != 0 {
		t.Errorf("Env = %v, want empty", d.Env)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid hcl",
			content: "package {",
			wantErr: "parsing descriptor",
		},
		{
			name:    "no package block",
			content: "",
			wantErr: "missing package block",
		},
		{
			name: "missing patterns",
			content: `
package {
  lock_file = "Cargo.lock"
  source { patterns = [] }
  runtime = ["git"]
  native  = ["cargo"]
}
`,
			wantErr: "source patterns are required",
		},
		{
			name: "missing runtime",
			content: `
package {
  lock_file = "Cargo.lock"
  source { patterns = ["src/.*"] }
  runtime = []
  native  = ["cargo"]
}
`,
			wantErr: "runtime tool list is required",
		},
		{
			name: "unknown extra platform",
			content: `
package {
  lock_file = "Cargo.lock"
  source { patterns = ["src/.*"] }
  runtime = ["git"]
  native  = ["cargo"]

  extra_inputs "windows" {
    platforms = ["windows/amd64"]
    packages  = ["Security"]
  }
}
`,
			wantErr: "unknown platform",
		},
		{
			name: "env not a map",
			content: `
package {
  lock_file = "Cargo.lock"
  source { patterns = ["src/.*"] }
  runtime = ["git"]
  native  = ["cargo"]
  env = "nope"
}
`,
			wantErr: "env must be a map of strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "build.hcl")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExtraFor(t *testing.T) {
	d, err := Parse([]byte(fullDescriptor), "build.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		platform platform.Platform
		want     []string
	}{
		{platform.LinuxAmd64, nil},
		{platform.LinuxArm64, nil},
		{platform.DarwinAmd64, []string{"Security"}},
		{platform.DarwinArm64, []string{"Security"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, d.ExtraFor(tt.platform)); diff != "" {
				t.Errorf("ExtraFor(%s) mismatch (-want +got):\n%s", tt.platform, diff)
			}
		})
	}
}
