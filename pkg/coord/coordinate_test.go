// SPDX-License-Identifier: MPL-2.0

package coord

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ref     string
		want    Coordinate
		wantErr bool
	}{
		{
			name: "three fields",
			ref:  "io.example:tile-a:1.0",
			want: Coordinate{Group: "io.example", Artifact: "tile-a", Type: "xml", Version: "1.0"},
		},
		{
			name: "five fields",
			ref:  "io.example:tile-a:pom:extra:[1.0,2.0)",
			want: Coordinate{Group: "io.example", Artifact: "tile-a", Type: "pom", Classifier: "extra", Version: "[1.0,2.0)"},
		},
		{
			name: "surrounding whitespace",
			ref:  "  g:a:1  ",
			want: Coordinate{Group: "g", Artifact: "a", Type: "xml", Version: "1"},
		},
		{name: "two fields", ref: "g:a", wantErr: true},
		{name: "four fields", ref: "g:a:xml:1.0", wantErr: true},
		{name: "six fields", ref: "g:a:b:c:d:e", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.ref, "pom.xml")
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedCoordinate) {
					t.Fatalf("Parse(%q) error = %v, want ErrMalformedCoordinate", tt.ref, err)
				}
				var mce *MalformedCoordinateError
				if !errors.As(err, &mce) || mce.Origin != "pom.xml" {
					t.Errorf("expected MalformedCoordinateError naming origin, got %v", err)
				}
				if !strings.Contains(err.Error(), strings.TrimSpace(tt.ref)) {
					t.Errorf("error %q does not name the reference", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestKeyIgnoresTypeClassifierAndVersion(t *testing.T) {
	t.Parallel()

	a, err := Parse("g:a:1.0", "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("g:a:pom:cls:[2,3)", "")
	if err != nil {
		t.Fatal(err)
	}
	c, err := Parse("g:b:1.0", "")
	if err != nil {
		t.Fatal(err)
	}

	if a.Key() != b.Key() {
		t.Errorf("Key() differs for same group/artifact: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Errorf("Key() equal for different artifacts: %q", a.Key())
	}
}

func TestSanitizedAndSnapshot(t *testing.T) {
	t.Parallel()

	c := Coordinate{Group: "g", Artifact: "a", Version: "1.0-SNAPSHOT"}
	if got := c.Sanitized(); got != "g_a_1.0-SNAPSHOT" {
		t.Errorf("Sanitized() = %q", got)
	}
	if !c.IsSnapshot() {
		t.Error("IsSnapshot() = false, want true")
	}
	if c.WithVersion("1.0").IsSnapshot() {
		t.Error("release version reported as snapshot")
	}
}
