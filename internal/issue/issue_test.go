// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	ids := []Id{
		MalformedCoordinateId,
		UnknownSmellId,
		TileResolutionFailedId,
		SnapshotOnReleaseId,
		MissingMergeTargetId,
		InjectionTargetNotFoundId,
		TileValidationFailedId,
		ProhibitedTopologyId,
		ProjectNotFoundId,
		ConfigLoadFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}
	if len(Values()) != len(ids) {
		t.Errorf("Values() has %d issues, want %d", len(Values()), len(ids))
	}
	if MalformedCoordinateId != 1 {
		t.Errorf("MalformedCoordinateId = %d, want 1", MalformedCoordinateId)
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	t.Parallel()

	msg := Get(InjectionTargetNotFoundId).MarkdownMsg()
	if !strings.Contains(string(msg), "applyBefore") {
		t.Errorf("MarkdownMsg() = %q, want it to mention applyBefore", msg)
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	issue := Get(ConfigLoadFailedId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("ExtLinks() is empty")
	}
	links[0] = "modified"
	if issue.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	// Not parallel: swaps the package-level render func.
	original := render
	t.Cleanup(func() { render = original })

	var got string
	render = func(in, _ string) (string, error) {
		got = in
		return in, nil
	}
	if _, err := Get(ConfigLoadFailedId).Render("dark"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, "## See also:") || !strings.Contains(got, "https://cuelang.org/docs/") {
		t.Errorf("rendered markdown = %q", got)
	}
}
