package resolver

import (
	"maps"

	"github.com/specialistvlad/nodemachine/internal/node"
)

// Cache stores the last computed outputs per node id.
type Cache interface {
	// Get returns (outputs, true) on a hit. A hit may carry nil outputs when
	// the node reported that it has no output yet.
	Get(nodeID string) (node.Outputs, bool)
	// Set stores the outputs of a node.
	Set(nodeID string, outputs node.Outputs)
	// Delete drops the entry of a node and reports whether there was one.
	Delete(nodeID string) bool
	// Clear drops every entry.
	Clear()
	// Snapshot returns a copy of the cache.
	Snapshot() map[string]node.Outputs
}

// MemoryCache is the in-memory Cache used by default.
type MemoryCache struct {
	store map[string]node.Outputs
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: make(map[string]node.Outputs)}
}

// Get retrieves a value from the cache.
func (m *MemoryCache) Get(nodeID string) (node.Outputs, bool) {
	out, ok := m.store[nodeID]
	return out, ok
}

// Set stores a value in the cache.
func (m *MemoryCache) Set(nodeID string, outputs node.Outputs) {
	m.store[nodeID] = outputs
}

// Delete removes a single entry from the cache.
func (m *MemoryCache) Delete(nodeID string) bool {
	if _, ok := m.store[nodeID]; !ok {
		return false
	}
	delete(m.store, nodeID)
	return true
}

// Clear removes all entries from the cache.
func (m *MemoryCache) Clear() {
	m.store = make(map[string]node.Outputs)
}

// Snapshot returns a copy of all cached values (useful for debugging/inspection).
func (m *MemoryCache) Snapshot() map[string]node.Outputs {
	return maps.Clone(m.store)
}
