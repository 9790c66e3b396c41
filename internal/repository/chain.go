// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/pkg/coord"
)

// Chain reads from a local repository first and falls back to remotes in order.
// Artifacts downloaded from a remote are installed into the local repository.
type Chain struct {
	local   *Local
	remotes []Repository
	logger  *log.Logger
}

// NewChain creates a chain over local and remotes. A nil logger discards output.
func NewChain(local *Local, logger *log.Logger, remotes ...Repository) *Chain {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Chain{local: local, remotes: remotes, logger: logger}
}

// Local returns the chain's local repository.
func (c *Chain) Local() *Local {
	return c.local
}

// Versions returns the union of versions known to every repository.
func (c *Chain) Versions(ctx context.Context, group, artifact string) ([]string, error) {
	versions, err := c.local.Versions(ctx, group, artifact)
	if err != nil {
		return nil, err
	}
	for _, r := range c.remotes {
		remote, err := r.Versions(ctx, group, artifact)
		if err != nil {
			return nil, err
		}
		for _, v := range remote {
			if !slices.Contains(versions, v) {
				versions = append(versions, v)
			}
		}
	}
	return versions, nil
}

// Fetch returns the first copy of c found, local repository first.
func (c *Chain) Fetch(ctx context.Context, co coord.Coordinate) (*Artifact, error) {
	a, err := c.local.Fetch(ctx, co)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	for _, r := range c.remotes {
		a, err := r.Fetch(ctx, co)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Downloaded artifact", "coordinate", co.String(), "from", a.Location)
		if _, err := c.local.Install(ctx, co, a.Data); err != nil {
			return nil, fmt.Errorf("failed to cache %s locally: %w", co, err)
		}
		return a, nil
	}
	return nil, &NotFoundError{Coordinate: co, Repository: c.local.Root()}
}

// Install stores data in the local repository.
func (c *Chain) Install(ctx context.Context, co coord.Coordinate, data []byte) (string, error) {
	return c.local.Install(ctx, co, data)
}
