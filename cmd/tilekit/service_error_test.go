// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/tilekit/tilekit/internal/config"
	"github.com/tilekit/tilekit/internal/issue"
	"github.com/tilekit/tilekit/internal/tiles"
	"github.com/tilekit/tilekit/pkg/coord"
)

func TestIssueFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"malformed coordinate", &coord.MalformedCoordinateError{Reference: "g:a"}, issue.MalformedCoordinateId},
		{"unknown smell", &tiles.UnknownSmellError{Smells: []string{"x"}}, issue.UnknownSmellId},
		{"snapshot on release", &tiles.SnapshotOnReleaseError{Tile: "g:a:1-SNAPSHOT"}, issue.SnapshotOnReleaseId},
		{"missing merge target", &tiles.MissingMergeTargetError{Fragment: "g:f"}, issue.MissingMergeTargetId},
		{"injection target", &tiles.InjectionTargetNotFoundError{}, issue.InjectionTargetNotFoundId},
		{"validation", &tiles.ValidationError{File: "tile.xml"}, issue.TileValidationFailedId},
		{"topology", &tiles.ProhibitedTopologyError{}, issue.ProhibitedTopologyId},
		{"resolution", &tiles.ResolutionError{Tile: "g:a:1"}, issue.TileResolutionFailedId},
		{"invalid config", &config.InvalidConfigError{}, issue.ConfigLoadFailedId},
		{"missing project", fmt.Errorf("failed to load project: %w", fs.ErrNotExist), issue.ProjectNotFoundId},
		{"wrapped", fmt.Errorf("g:app:1: %w", &tiles.MissingMergeTargetError{}), issue.MissingMergeTargetId},
		{"unclassified", errors.New("boom"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := issueFor(tt.err); got != tt.want {
				t.Errorf("issueFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	plain := errors.New("boom")
	if got := classify(plain); got != plain {
		t.Errorf("classify() = %v, want the error unchanged", got)
	}

	svc := newServiceError(plain, issue.ProjectNotFoundId)
	if got := classify(svc); got != svc {
		t.Error("classify() should not wrap a ServiceError twice")
	}

	err := classify(&tiles.SnapshotOnReleaseError{Tile: "g:a:1-SNAPSHOT"})
	var got *ServiceError
	if !errors.As(err, &got) || got.IssueID != issue.SnapshotOnReleaseId {
		t.Errorf("classify() = %v, want SnapshotOnReleaseId", err)
	}
	if !errors.Is(err, tiles.ErrSnapshotOnRelease) {
		t.Error("classified error should keep its chain")
	}
}

func TestNewServiceErrorPanicsOnNil(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("newServiceError(nil) should panic")
		}
	}()
	_ = newServiceError(nil, 0)
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderServiceError(&buf, newServiceError(errors.New("x"), 0))
	if buf.Len() != 0 {
		t.Errorf("no issue id should render nothing, got %q", buf.String())
	}

	renderServiceError(&buf, newServiceError(errors.New("x"), issue.ProhibitedTopologyId))
	if buf.Len() == 0 {
		t.Error("issue help was not rendered")
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := &ExitError{Code: 3, Err: inner}
	if err.Error() != "inner" || !errors.Is(err, inner) {
		t.Errorf("ExitError = %v", err)
	}
	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
}
