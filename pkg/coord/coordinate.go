// SPDX-License-Identifier: MPL-2.0

package coord

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultType is the artifact type of a tile reference given in the 3-field form.
	DefaultType = "xml"
	// DescriptorType is the artifact type of a plain project descriptor.
	DescriptorType = "pom"
	// SnapshotQualifier marks an unreleased version.
	SnapshotQualifier = "-SNAPSHOT"
)

// ErrMalformedCoordinate is the sentinel error wrapped by MalformedCoordinateError.
var ErrMalformedCoordinate = errors.New("malformed coordinate")

type (
	// Coordinate identifies a fetchable artifact. The Version field holds either a concrete
	// version or a version range until the coordinate is resolved.
	Coordinate struct {
		Group      string
		Artifact   string
		Type       string
		Classifier string
		Version    string
	}

	// MalformedCoordinateError is returned when a reference does not have 3 or 5 fields.
	MalformedCoordinateError struct {
		Reference string
		Origin    string
	}
)

// Error implements the error interface.
func (e *MalformedCoordinateError) Error() string {
	msg := fmt.Sprintf("%s does not have the form group:artifact:version-range or group:artifact:extension:classifier:version-range", e.Reference)
	if e.Origin != "" {
		msg += " (in " + e.Origin + ")"
	}
	return msg
}

// Unwrap returns ErrMalformedCoordinate so callers can use errors.Is.
func (e *MalformedCoordinateError) Unwrap() error { return ErrMalformedCoordinate }

// Parse turns a textual reference into a Coordinate. origin names the file the reference
// was read from and is only used in error messages.
func Parse(ref, origin string) (Coordinate, error) {
	ref = strings.TrimSpace(ref)
	parts := strings.Split(ref, ":")

	switch len(parts) {
	case 3:
		return Coordinate{
			Group:    parts[0],
			Artifact: parts[1],
			Type:     DefaultType,
			Version:  parts[2],
		}, nil
	case 5:
		return Coordinate{
			Group:      parts[0],
			Artifact:   parts[1],
			Type:       parts[2],
			Classifier: parts[3],
			Version:    parts[4],
		}, nil
	default:
		return Coordinate{}, &MalformedCoordinateError{Reference: ref, Origin: origin}
	}
}

// Key returns the group:artifact identity.
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

// GAV returns group:artifact:version.
func (c Coordinate) GAV() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// String returns the full 5-field form, or the 3-field form when type and classifier are defaults.
func (c Coordinate) String() string {
	if (c.Type == "" || c.Type == DefaultType) && c.Classifier == "" {
		return c.GAV()
	}
	return strings.Join([]string{c.Group, c.Artifact, c.Type, c.Classifier, c.Version}, ":")
}

// WithVersion returns a copy of c with a different version.
func (c Coordinate) WithVersion(v string) Coordinate {
	c.Version = v
	return c
}

// WithType returns a copy of c with a different type and classifier.
func (c Coordinate) WithType(typ, classifier string) Coordinate {
	c.Type = typ
	c.Classifier = classifier
	return c
}

// Descriptor returns the coordinate of the plain project descriptor of the same artifact.
func (c Coordinate) Descriptor() Coordinate {
	return c.WithType(DescriptorType, "")
}

// IsSnapshot reports whether the version is a snapshot.
func (c Coordinate) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, SnapshotQualifier)
}

// Sanitized returns group_artifact_version, suitable as an identifier prefix.
func (c Coordinate) Sanitized() string {
	return strings.ReplaceAll(c.GAV(), ":", "_")
}
