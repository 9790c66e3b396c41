// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/config"
	"github.com/tilekit/tilekit/internal/issue"
	"github.com/tilekit/tilekit/internal/tiles"
	"github.com/tilekit/tilekit/pkg/coord"
)

// issueStyle is the glamour style issue help is rendered with.
const issueStyle = "dark"

// ServiceError is an error that carries the issue catalog entry explaining it. Always
// create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classify attaches the catalog entry matching err. Errors without one are returned as is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	if id := issueFor(err); id != 0 {
		return newServiceError(err, id)
	}
	return err
}

// issueFor maps an error to the issue catalog. The most specific cause wins.
func issueFor(err error) issue.Id {
	if id := issue.IssueOf(err); id != 0 {
		return id
	}
	switch {
	case errors.Is(err, coord.ErrMalformedCoordinate):
		return issue.MalformedCoordinateId
	case errors.Is(err, tiles.ErrUnknownSmell):
		return issue.UnknownSmellId
	case errors.Is(err, tiles.ErrSnapshotOnRelease):
		return issue.SnapshotOnReleaseId
	case errors.Is(err, tiles.ErrMissingMergeTarget):
		return issue.MissingMergeTargetId
	case errors.Is(err, tiles.ErrInjectionTargetNotFound):
		return issue.InjectionTargetNotFoundId
	case errors.Is(err, tiles.ErrValidationFailed):
		return issue.TileValidationFailedId
	case errors.Is(err, tiles.ErrProhibitedTopology):
		return issue.ProhibitedTopologyId
	case errors.Is(err, tiles.ErrTileResolutionFailed):
		return issue.TileResolutionFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, fs.ErrNotExist):
		return issue.ProjectNotFoundId
	default:
		return 0
	}
}

// renderServiceError prints the issue help of svcErr, if it has one.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil || svcErr.IssueID == 0 {
		return
	}
	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(issueStyle)
	if err != nil {
		log.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", err)
		return
	}
	fmt.Fprint(stderr, rendered)
}
