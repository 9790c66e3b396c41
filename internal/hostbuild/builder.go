// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/modelcache"
	"github.com/tilekit/tilekit/pkg/pom"
)

// maxDepth bounds ancestor walks so a malformed chain cannot loop forever.
const maxDepth = 256

var (
	// ErrParentCycle is returned when a descriptor is its own ancestor.
	ErrParentCycle = errors.New("descriptor inheritance cycle")

	// ErrParentMismatch is returned when a resolved parent is not the descriptor the child references.
	ErrParentMismatch = errors.New("resolved parent does not match reference")
)

type (
	// ModelSource locates descriptor bytes. When Data is nil the bytes are read from Location.
	ModelSource struct {
		Location string
		Data     []byte
	}

	// RawReader reads a descriptor exactly as written, before any inheritance is applied.
	RawReader interface {
		ReadRaw(ctx context.Context, src ModelSource) (*pom.Model, error)
	}

	// RawReaderFunc adapts a function to RawReader.
	RawReaderFunc func(ctx context.Context, src ModelSource) (*pom.Model, error)

	// ParentResolver locates the source of a parent descriptor referenced from child.
	ParentResolver interface {
		ResolveParent(ctx context.Context, child ModelSource, parent *pom.Parent) (ModelSource, error)
	}

	// Request describes one project build. The same request is passed to both passes.
	Request struct {
		Source   ModelSource
		Reader   RawReader
		Resolver ParentResolver
		Cache    modelcache.Cache
		// Dependencies are contributed to the project in addition to its declared ones.
		// Entries flagged Synthetic survive only the interim pass.
		Dependencies []pom.Dependency
	}

	// Result is the outcome of one pass.
	Result struct {
		// Effective is the project descriptor with every ancestor layered in.
		Effective *pom.Model
		// Lineage holds the raw descriptors from the project (index 0) up to the root ancestor.
		Lineage []*pom.Model
		// Locations holds the source location of each Lineage entry.
		Locations []string
	}

	// Builder computes effective descriptors.
	Builder struct {
		logger *log.Logger
	}

	// XMLReader is the default RawReader: it parses the source bytes.
	XMLReader struct{}

	// ParentError describes a failure to resolve a parent reference.
	ParentError struct {
		Child  string
		Parent string
		Err    error
	}
)

// ReadRaw implements RawReader.
func (f RawReaderFunc) ReadRaw(ctx context.Context, src ModelSource) (*pom.Model, error) {
	return f(ctx, src)
}

// ReadRaw parses src.Data, or the file at src.Location when no data is attached.
func (XMLReader) ReadRaw(_ context.Context, src ModelSource) (*pom.Model, error) {
	if src.Data == nil {
		return pom.ReadFile(src.Location)
	}
	m, err := pom.ReadBytes(src.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Location, err)
	}
	return m, nil
}

// Error implements the error interface.
func (e *ParentError) Error() string {
	return fmt.Sprintf("failed to resolve parent %s of %s: %v", e.Parent, e.Child, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParentError) Unwrap() error {
	return e.Err
}

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Builder{logger: logger}
}

// Build runs one pass. With a nil interim result the ancestor chain is read through
// req.Reader; otherwise the interim lineage is reused and synthetic dependencies are dropped.
func (b *Builder) Build(ctx context.Context, req Request, interim *Result) (*Result, error) {
	if interim != nil {
		b.logger.Debug("Building final descriptor", "project", interim.Lineage[0].RealGA())
		return &Result{
			Effective: effective(interim.Lineage, req.Dependencies, true),
			Lineage:   interim.Lineage,
			Locations: interim.Locations,
		}, nil
	}

	lineage, locations, err := b.readLineage(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{
		Effective: effective(lineage, req.Dependencies, false),
		Lineage:   lineage,
		Locations: locations,
	}, nil
}

func (b *Builder) readLineage(ctx context.Context, req Request) ([]*pom.Model, []string, error) {
	reader := req.Reader
	if reader == nil {
		reader = XMLReader{}
	}

	m, err := reader.ReadRaw(ctx, req.Source)
	if err != nil {
		return nil, nil, err
	}
	lineage := []*pom.Model{m}
	locations := []string{req.Source.Location}
	seen := []string{m.RealGA()}
	src := req.Source

	for m.Parent != nil {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if len(lineage) >= maxDepth {
			return nil, nil, fmt.Errorf("%w: chain deeper than %d at %s", ErrParentCycle, maxDepth, m.RealGA())
		}

		ref := m.Parent
		parent, parentSrc, err := b.resolveParent(ctx, req, reader, src, ref)
		if err != nil {
			return nil, nil, &ParentError{Child: m.RealGA(), Parent: ref.GAV(), Err: err}
		}
		if parent.RealGroupID() != ref.GroupID || parent.ArtifactID != ref.ArtifactID {
			return nil, nil, &ParentError{
				Child:  m.RealGA(),
				Parent: ref.GAV(),
				Err:    fmt.Errorf("%w: got %s", ErrParentMismatch, parent.RealGA()),
			}
		}
		if slices.Contains(seen, parent.RealGA()) {
			return nil, nil, fmt.Errorf("%w: %s", ErrParentCycle, parent.RealGA())
		}

		seen = append(seen, parent.RealGA())
		lineage = append(lineage, parent)
		locations = append(locations, parentSrc.Location)
		m, src = parent, parentSrc
	}
	return lineage, locations, nil
}

// resolveParent serves ref from the cache or reads it through reader and caches the result.
func (b *Builder) resolveParent(ctx context.Context, req Request, reader RawReader, child ModelSource, ref *pom.Parent) (*pom.Model, ModelSource, error) {
	key := modelcache.RawKey(ref.GroupID, ref.ArtifactID, ref.Version)
	if req.Cache != nil {
		if cached, ok := req.Cache.Get(key); ok {
			b.logger.Debug("Parent served from cache", "parent", ref.GAV())
			return cached, ModelSource{Location: "cache:" + key.String()}, nil
		}
	}
	if req.Resolver == nil {
		return nil, ModelSource{}, fmt.Errorf("no parent resolver configured")
	}

	src, err := req.Resolver.ResolveParent(ctx, child, ref)
	if err != nil {
		return nil, ModelSource{}, err
	}
	parent, err := reader.ReadRaw(ctx, src)
	if err != nil {
		return nil, ModelSource{}, err
	}
	if req.Cache != nil {
		req.Cache.Put(modelcache.RawKey(parent.RealGroupID(), parent.ArtifactID, parent.RealVersion()), parent)
	}
	return parent, src, nil
}

// fileExists reports whether path names a readable regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
