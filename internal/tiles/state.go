// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tilekit/tilekit/pkg/coord"
)

// DiscoveryState is the working set of one discovery run. Create a fresh state for every
// project; states are never shared.
type DiscoveryState struct {
	processed      *orderedmap.OrderedMap[string, *Tile]
	unprocessed    *orderedmap.OrderedMap[string, coord.Coordinate]
	discoveryOrder []string
	mergeTargets   map[string]*Tile
	mergeSources   []*Tile
}

// NewDiscoveryState creates an empty state.
func NewDiscoveryState() *DiscoveryState {
	return &DiscoveryState{
		processed:    orderedmap.New[string, *Tile](),
		unprocessed:  orderedmap.New[string, coord.Coordinate](),
		mergeTargets: make(map[string]*Tile),
	}
}

// enqueue queues c unless its group:artifact was already requested. A repeated request
// moves the existing entry to the end of its map and reports true.
func (s *DiscoveryState) enqueue(c coord.Coordinate) (duplicate bool) {
	key := c.Key()
	if _, ok := s.processed.Get(key); ok {
		_ = s.processed.MoveToBack(key)
		return true
	}
	if _, ok := s.unprocessed.Get(key); ok {
		_ = s.unprocessed.MoveToBack(key)
		return true
	}
	s.unprocessed.Set(key, c)
	s.discoveryOrder = append(s.discoveryOrder, key)
	return false
}

// next removes and returns the oldest queued coordinate.
func (s *DiscoveryState) next() (coord.Coordinate, bool) {
	oldest := s.unprocessed.Oldest()
	if oldest == nil {
		return coord.Coordinate{}, false
	}
	s.unprocessed.Delete(oldest.Key)
	return oldest.Value, true
}

func (s *DiscoveryState) markProcessed(key string, t *Tile) {
	s.processed.Set(key, t)
}

// prune drops discovery order entries that never produced a processed tile.
func (s *DiscoveryState) prune() {
	s.discoveryOrder = slices.DeleteFunc(s.discoveryOrder, func(key string) bool {
		_, ok := s.processed.Get(key)
		return !ok
	})
}

// Tiles returns the processed tiles in discovery order.
func (s *DiscoveryState) Tiles() []*Tile {
	out := make([]*Tile, 0, len(s.discoveryOrder))
	for _, key := range s.discoveryOrder {
		if t, ok := s.processed.Get(key); ok {
			out = append(out, t)
		}
	}
	return out
}

// DiscoveryOrder returns the group:artifact keys in the order they were first requested.
func (s *DiscoveryState) DiscoveryOrder() []string {
	return slices.Clone(s.discoveryOrder)
}

// ProcessedKeys returns the processed group:artifact keys in iteration order, which
// reflects repeated requests moving entries to the end.
func (s *DiscoveryState) ProcessedKeys() []string {
	keys := make([]string, 0, s.processed.Len())
	for pair := s.processed.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// PendingKeys returns the queued group:artifact keys in FIFO order.
func (s *DiscoveryState) PendingKeys() []string {
	keys := make([]string, 0, s.unprocessed.Len())
	for pair := s.unprocessed.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// MergeTargets returns the registered merge targets by execution identity.
func (s *DiscoveryState) MergeTargets() map[string]*Tile {
	return s.mergeTargets
}
