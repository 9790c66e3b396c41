// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSmell is returned when the allowed smells name an unsupported construct.
	ErrUnknownSmell = errors.New("unknown tile smell")
	// ErrTileResolutionFailed is returned when a tile version or artifact cannot be resolved.
	ErrTileResolutionFailed = errors.New("tile resolution failed")
	// ErrSnapshotOnRelease is returned when a snapshot tile is resolved in release mode.
	ErrSnapshotOnRelease = errors.New("snapshot tile used in release")
	// ErrMissingMergeTarget is returned when a merge-source tile has no matching target.
	ErrMissingMergeTarget = errors.New("missing merge target tile")
	// ErrInjectionTargetNotFound is returned when the applyBefore ancestor is never read.
	ErrInjectionTargetNotFound = errors.New("tile injection target not found")
	// ErrValidationFailed is returned when a tile file fails the purity checks.
	ErrValidationFailed = errors.New("tile validation failed")
	// ErrProhibitedTopology is returned when a tile-consuming aggregator is also a reactor parent.
	ErrProhibitedTopology = errors.New("prohibited project topology")
)

type (
	// UnknownSmellError lists the smell names that are not supported.
	UnknownSmellError struct {
		Smells []string
	}

	// ResolutionError describes a tile that could not be resolved or loaded.
	ResolutionError struct {
		Tile   string
		Reason string
		Err    error
	}

	// SnapshotOnReleaseError names the snapshot tile.
	SnapshotOnReleaseError struct {
		Tile string
	}

	// MissingMergeTargetError names the fragment and the execution or tile it needs.
	MissingMergeTargetError struct {
		Fragment string
		// Execution is the plugin-group:plugin-artifact:execution-id identity.
		Execution string
		// Expected is the tile named by the fragment's tile-merge-expected-target, if any.
		Expected string
	}

	// InjectionTargetNotFoundError names the configured applyBefore target.
	InjectionTargetNotFoundError struct {
		Target  string
		Project string
	}

	// ValidationError lists every purity problem found in a tile file.
	ValidationError struct {
		File     string
		Problems []string
	}

	// ProhibitedTopologyError names the aggregator and a project using it as parent.
	ProhibitedTopologyError struct {
		Project string
		Child   string
		File    string
	}
)

// Error implements the error interface.
func (e *UnknownSmellError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownSmell, strings.Join(e.Smells, ", "))
}

// Unwrap returns ErrUnknownSmell for errors.Is() compatibility.
func (e *UnknownSmellError) Unwrap() error { return ErrUnknownSmell }

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrTileResolutionFailed, e.Tile)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrTileResolutionFailed and the underlying cause.
func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTileResolutionFailed}
	}
	return []error{ErrTileResolutionFailed, e.Err}
}

// Error implements the error interface.
func (e *SnapshotOnReleaseError) Error() string {
	return fmt.Sprintf("tile %s is a SNAPSHOT and we are releasing", e.Tile)
}

// Unwrap returns ErrSnapshotOnRelease for errors.Is() compatibility.
func (e *SnapshotOnReleaseError) Unwrap() error { return ErrSnapshotOnRelease }

// Error implements the error interface.
func (e *MissingMergeTargetError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: please add missing tile %s, it is required by tile %s for plugin %s",
			ErrMissingMergeTarget, e.Expected, e.Fragment, e.Execution)
	}
	return fmt.Sprintf("%s: tile %s requires a target tile with plugin execution %s",
		ErrMissingMergeTarget, e.Fragment, e.Execution)
}

// Unwrap returns ErrMissingMergeTarget for errors.Is() compatibility.
func (e *MissingMergeTargetError) Unwrap() error { return ErrMissingMergeTarget }

// Error implements the error interface.
func (e *InjectionTargetNotFoundError) Error() string {
	return fmt.Sprintf("%s: cannot apply tiles to %s, the expected parent %s was not found",
		ErrInjectionTargetNotFound, e.Project, e.Target)
}

// Unwrap returns ErrInjectionTargetNotFound for errors.Is() compatibility.
func (e *InjectionTargetNotFoundError) Unwrap() error { return ErrInjectionTargetNotFound }

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidationFailed, e.File, strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrValidationFailed for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// Error implements the error interface.
func (e *ProhibitedTopologyError) Error() string {
	return fmt.Sprintf("%s: tiles are not allowed in %s, a multi-module build used as parent of %s",
		ErrProhibitedTopology, e.Project, e.Child)
}

// Unwrap returns ErrProhibitedTopology for errors.Is() compatibility.
func (e *ProhibitedTopologyError) Unwrap() error { return ErrProhibitedTopology }
