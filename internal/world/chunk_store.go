package world

import (
	"sync"

	"spherecraft/internal/coords"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ChunkStore manages the storage and retrieval of chunks.
// Only the world's tick goroutine mutates it; the lock keeps concurrent
// read-only observers safe.
type ChunkStore struct {
	// Map of chunks indexed by key; one owner per key
	chunks   map[coords.ChunkKey]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates a new chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[coords.ChunkKey]*Chunk),
	}
}

// Get returns the chunk for key, or nil.
func (cs *ChunkStore) Get(key coords.ChunkKey) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[key]
}

// GetChunkFromBlockCoords returns the full-detail chunk containing the block.
func (cs *ChunkStore) GetChunkFromBlockCoords(p coords.BlockPos) *Chunk {
	return cs.Get(coords.ChunkKey{Coord: p.Chunk(), LOD: 1})
}

// HasChunk checks if a chunk exists.
func (cs *ChunkStore) HasChunk(key coords.ChunkKey) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[key]
	cs.mu.RUnlock()
	return exists
}

// AddChunk adds a generated chunk to the store. An existing chunk for the
// same key is kept and false is returned.
func (cs *ChunkStore) AddChunk(chunk *Chunk) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[chunk.key]; ok {
		return false
	}
	cs.chunks[chunk.key] = chunk
	cs.modCount++
	return true
}

// EvictExcept removes every chunk whose key is not in keep and returns how
// many were removed.
func (cs *ChunkStore) EvictExcept(keep map[coords.ChunkKey]struct{}) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	removed := 0
	for _, key := range maps.Keys(cs.chunks) {
		if _, ok := keep[key]; ok {
			continue
		}
		cs.chunks[key].evict()
		delete(cs.chunks, key)
		cs.modCount++
		removed++
	}
	return removed
}

// Len returns the number of stored chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// GetModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// AllChunks returns every stored chunk ordered by key, so iteration is
// stable from frame to frame.
func (cs *ChunkStore) AllChunks() []*Chunk {
	cs.mu.RLock()
	out := maps.Values(cs.chunks)
	cs.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Chunk) int { return compareKeys(a.key, b.key) })
	return out
}

func compareKeys(a, b coords.ChunkKey) int {
	switch {
	case a.LOD != b.LOD:
		return a.LOD - b.LOD
	case a.Coord.X != b.Coord.X:
		return a.Coord.X - b.Coord.X
	case a.Coord.Y != b.Coord.Y:
		return a.Coord.Y - b.Coord.Y
	default:
		return a.Coord.Z - b.Coord.Z
	}
}
