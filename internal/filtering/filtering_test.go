// SPDX-License-Identifier: MPL-2.0

package filtering

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tilekit/tilekit/pkg/pom"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()

	lookup := func(name string) (string, bool) {
		values := map[string]string{"a": "1", "project.version": "2.0"}
		v, ok := values[name]
		return v, ok
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single token", "<v>@a@</v>", "<v>1</v>"},
		{"several tokens", "@a@-@project.version@", "1-2.0"},
		{"unknown token kept", "<v>@missing@</v>", "<v>@missing@</v>"},
		{"unknown then known", "x@ y @a@", "x@ y 1"},
		{"lone delimiter", "mail user@example.org", "mail user@example.org"},
		{"dollar syntax untouched", "${a}", "${a}"},
		{"empty token", "@@a@", "@1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := string(Interpolate([]byte(tt.input), lookup)); got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModelLookup(t *testing.T) {
	t.Parallel()

	m := &pom.Model{
		ArtifactID: "svc",
		Parent:     &pom.Parent{GroupID: "io.example", ArtifactID: "parent", Version: "3.1"},
		Properties: pom.NewProperties("java.version", "21", "project.version", "overridden"),
	}
	lookup := ModelLookup(m, "/work/svc")

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"java.version", "21", true},
		{"project.version", "overridden", true},
		{"project.groupId", "io.example", true},
		{"project.artifactId", "svc", true},
		{"basedir", "/work/svc", true},
		{"project.build.directory", filepath.Join("/work/svc", "target"), true},
		{"project.name", "", false},
		{"nothing", "", false},
	}
	for _, tt := range tests {
		got, ok := lookup(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("lookup(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFilterFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "tile.xml")
	if err := os.WriteFile(src, []byte("<project><properties><v>@project.version@</v></properties></project>"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "target", "generated-sources", "tiles", "tile.xml")

	m := &pom.Model{GroupID: "g", ArtifactID: "a", Version: "1.2"}
	if err := New(nil).FilterFile(src, dst, ModelLookup(m, dir)); err != nil {
		t.Fatalf("FilterFile() error = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<project><properties><v>1.2</v></properties></project>"; string(got) != want {
		t.Errorf("filtered = %q, want %q", got, want)
	}
}
