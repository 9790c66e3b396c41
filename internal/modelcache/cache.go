// SPDX-License-Identifier: MPL-2.0

// Package modelcache provides the session-wide descriptor cache shared by the
// descriptor-building engine and the tile interceptor.
//
// Entries are keyed by (group, artifact, version, tag). The cache outlives a single
// project: every project of a multi-project build reads and writes the same instance, so
// readers must tolerate both previously resolved descriptors and misses.
package modelcache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tilekit/tilekit/pkg/pom"
)

const (
	// TagRaw marks descriptors as read from their source, before inheritance is applied.
	TagRaw = "raw"

	// DefaultSize is the number of entries kept when no size is configured.
	DefaultSize = 4096
)

type (
	// Key identifies a cache entry.
	Key struct {
		Group    string
		Artifact string
		Version  string
		Tag      string
	}

	// Cache stores descriptors by key. Putting a nil model evicts the entry.
	Cache interface {
		Get(key Key) (*pom.Model, bool)
		Put(key Key, model *pom.Model)
	}

	// LRU is a bounded Cache safe for concurrent use.
	LRU struct {
		entries *lru.Cache[Key, *pom.Model]
	}
)

// RawKey builds a TagRaw key.
func RawKey(group, artifact, version string) Key {
	return Key{Group: group, Artifact: artifact, Version: version, Tag: TagRaw}
}

// String returns group:artifact:version#tag.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s#%s", k.Group, k.Artifact, k.Version, k.Tag)
}

// NewLRU creates a cache holding at most size entries. A non-positive size selects DefaultSize.
func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, *pom.Model](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create descriptor cache: %w", err)
	}
	return &LRU{entries: entries}, nil
}

// Get returns the cached descriptor for key.
func (c *LRU) Get(key Key) (*pom.Model, bool) {
	return c.entries.Get(key)
}

// Put stores model under key, or evicts key when model is nil.
func (c *LRU) Put(key Key, model *pom.Model) {
	if model == nil {
		c.entries.Remove(key)
		return
	}
	c.entries.Add(key, model)
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	return c.entries.Len()
}
