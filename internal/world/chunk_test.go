package world

import (
	"testing"

	"spherecraft/internal/block"
	"spherecraft/internal/coords"
)

func TestNewChunkStartsLoading(t *testing.T) {
	c := NewChunk(coords.ChunkKey{Coord: coords.ChunkCoord{X: 1, Y: 2, Z: 3}})
	if c.LOD() != 1 {
		t.Errorf("zero LOD must normalise to 1, got %d", c.LOD())
	}
	if c.State() != StateLoading {
		t.Errorf("state = %v, want loading", c.State())
	}
	if c.Flags() != FlagMeshDirty|FlagBuffersNotCreated {
		t.Errorf("flags = %b", c.Flags())
	}
	if len(c.Blocks()) != coords.ChunkVolume {
		t.Errorf("blocks len = %d", len(c.Blocks()))
	}
}

func TestChunkSetBlockBounds(t *testing.T) {
	c := NewChunk(coords.ChunkKey{LOD: 1})
	if c.SetBlock(-1, 0, 0, block.Stone) || c.SetBlock(0, ChunkSize, 0, block.Stone) {
		t.Errorf("out-of-range SetBlock reported a change")
	}
	if !c.SetBlock(15, 15, 15, block.Stone) {
		t.Fatalf("in-range SetBlock reported no change")
	}
	if c.SetBlock(15, 15, 15, block.Stone) {
		t.Errorf("writing the same type twice reported a change")
	}
	if got := c.GetBlock(15, 15, 15); got != block.Stone {
		t.Errorf("GetBlock = %v, want stone", got)
	}
	if c.GetBlock(0, 0, 0) != block.Air || c.GetBlock(99, 0, 0) != block.Air {
		t.Errorf("unset and out-of-range voxels must read as air")
	}
}

func TestChunkBufferLifecycle(t *testing.T) {
	s := testSphere()
	c := generated(s, coords.ChunkKey{Coord: coords.ChunkCoord{Y: surfaceChunkY(s)}, LOD: 1})

	c.RegenerateMesh(s)
	if c.IsMeshDirty() {
		t.Errorf("mesh still dirty after rebuild")
	}
	if c.BuffersDirty() {
		t.Errorf("buffers must not be flagged dirty before they exist")
	}
	if !c.BuffersNotCreated() {
		t.Errorf("buffers reported created")
	}
	if c.IndexCount() == 0 {
		t.Errorf("surface chunk produced no geometry")
	}

	c.MarkBuffersCreated()
	if c.BuffersNotCreated() || c.BuffersDirty() {
		t.Fatalf("flags after create = %b", c.Flags())
	}

	c.SetBlock(4, 15, 4, block.Air)
	if !c.IsMeshDirty() {
		t.Fatalf("edit did not dirty the mesh")
	}
	c.RegenerateMesh(s)
	if !c.BuffersDirty() {
		t.Errorf("rebuild after create must flag a re-upload")
	}
	c.MarkBuffersUploaded()
	if c.Flags() != 0 {
		t.Errorf("flags after upload = %b, want 0", c.Flags())
	}
}

func TestChunkRegenerateRequiresResident(t *testing.T) {
	s := testSphere()
	c := NewChunk(coords.ChunkKey{Coord: coords.ChunkCoord{Y: surfaceChunkY(s)}, LOD: 1})
	c.RegenerateMesh(s)
	if !c.IsMeshDirty() || c.IndexCount() != 0 {
		t.Errorf("loading chunk must not be meshed")
	}
}

func TestChunkEvict(t *testing.T) {
	s := testSphere()
	c := generated(s, coords.ChunkKey{Coord: coords.ChunkCoord{Y: surfaceChunkY(s)}, LOD: 1})
	c.RegenerateMesh(s)
	c.evict()

	if c.State() != StateEvicted {
		t.Errorf("state = %v, want evicted", c.State())
	}
	if c.Blocks() != nil || c.IndexCount() != 0 {
		t.Errorf("evicted chunk kept its storage")
	}
	if c.SetBlock(0, 0, 0, block.Stone) {
		t.Errorf("SetBlock on evicted chunk reported a change")
	}
	c.MarkMeshDirty()
	if c.IsMeshDirty() {
		t.Errorf("evicted chunk accepted a dirty mark")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateLoading:  "loading",
		StateResident: "resident",
		StateEvicted:  "evicted",
		State(9):      "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}
