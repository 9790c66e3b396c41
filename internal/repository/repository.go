// SPDX-License-Identifier: MPL-2.0

// Package repository provides artifact repositories that tiles and their descriptors are
// resolved from: a local directory in the conventional group/artifact/version layout, an
// S3-compatible object store, and a chain that reads through to remotes and caches locally.
package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/tilekit/tilekit/pkg/coord"
)

// ErrNotFound is returned when a repository holds no artifact for a coordinate.
var ErrNotFound = errors.New("artifact not found")

type (
	// Artifact is a fetched artifact file.
	Artifact struct {
		Coordinate coord.Coordinate
		Data       []byte
		// Location is the file path or object URL the data was read from.
		Location string
	}

	// Repository lists versions of and fetches artifacts.
	Repository interface {
		// Versions returns every version available for group:artifact, in no particular order.
		Versions(ctx context.Context, group, artifact string) ([]string, error)
		// Fetch returns the artifact file for a fully versioned coordinate.
		Fetch(ctx context.Context, c coord.Coordinate) (*Artifact, error)
	}

	// Publisher stores artifacts.
	Publisher interface {
		// Install stores data under c and returns the location it was written to.
		Install(ctx context.Context, c coord.Coordinate, data []byte) (string, error)
	}

	// NotFoundError names the coordinate a repository could not serve.
	NotFoundError struct {
		Coordinate coord.Coordinate
		Repository string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s not found in %s", ErrNotFound, e.Coordinate, e.Repository)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ArtifactPath returns the slash-separated layout path of c:
// group/as/dirs/artifact/version/artifact-version[-classifier].type
func ArtifactPath(c coord.Coordinate) string {
	name := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	name += "." + c.Type
	return path.Join(ArtifactDir(c.Group, c.Artifact), c.Version, name)
}

// ArtifactDir returns the slash-separated directory holding all versions of group:artifact.
func ArtifactDir(group, artifact string) string {
	return path.Join(strings.ReplaceAll(group, ".", "/"), artifact)
}

func validateCoordinate(c coord.Coordinate) error {
	if c.Group == "" || c.Artifact == "" || c.Version == "" || c.Type == "" {
		return fmt.Errorf("incomplete artifact coordinate %q", c.String())
	}
	return nil
}
