package world

import (
	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/meshing"
	"spherecraft/internal/spheremath"
)

// ChunkSize is the edge length of a full-detail chunk.
const ChunkSize = coords.ChunkSize

// State is the lifecycle stage of a chunk.
type State uint8

const (
	// StateLoading: created, terrain not generated yet.
	StateLoading State = iota
	// StateResident: terrain generated, owned by the world map.
	StateResident
	// StateEvicted: dropped from the world map; storage released.
	StateEvicted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateResident:
		return "resident"
	case StateEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Flags are the per-chunk dirty bits polled once per tick.
type Flags uint8

const (
	// FlagMeshDirty: voxels changed since the cached mesh was built.
	FlagMeshDirty Flags = 1 << iota
	// FlagBuffersDirty: the cached mesh changed since the last GPU upload.
	FlagBuffersDirty
	// FlagBuffersNotCreated: the renderer has never allocated buffers for this chunk.
	FlagBuffersNotCreated
)

// Chunk is a cube of voxels plus its cached mesh and GPU lifecycle flags.
// Merged (LOD > 1) chunks carry no voxels and mesh to a proxy quad.
type Chunk struct {
	key    coords.ChunkKey
	blocks []block.Block
	mesh   meshing.Mesh
	state  State
	flags  Flags

	// set on merged chunks that overlap the full-detail neighbourhood
	cutout    meshing.Cutout
	hasCutout bool
}

// NewChunk creates a chunk in the loading state.
func NewChunk(key coords.ChunkKey) *Chunk {
	if key.LOD < 1 {
		key.LOD = 1
	}
	c := &Chunk{
		key:   key,
		state: StateLoading,
		flags: FlagMeshDirty | FlagBuffersNotCreated,
	}
	if key.LOD == 1 {
		c.blocks = make([]block.Block, coords.ChunkVolume)
	}
	return c
}

// Key returns the chunk's map key.
func (c *Chunk) Key() coords.ChunkKey { return c.key }

// Coord returns the chunk coordinate on its own grid.
func (c *Chunk) Coord() coords.ChunkCoord { return c.key.Coord }

// LOD returns the merge factor.
func (c *Chunk) LOD() int { return c.key.LOD }

// Origin returns the absolute block position of the chunk's minimum corner.
func (c *Chunk) Origin() coords.BlockPos { return c.key.Origin() }

// State returns the lifecycle stage.
func (c *Chunk) State() State { return c.state }

// Blocks exposes the voxel array for meshing. Callers must not modify it.
func (c *Chunk) Blocks() []block.Block { return c.blocks }

// GetBlock returns the block type at the specified local coordinates
func (c *Chunk) GetBlock(x, y, z int) block.Type {
	if !coords.InChunk(x, y, z) || c.blocks == nil {
		return block.Air
	}
	return c.blocks[coords.LocalIndex(x, y, z)].Type
}

// SetBlock writes one voxel. It only marks the mesh dirty; the rebuild happens
// on the next tick so edits made in the same frame share one rebuild.
// It reports whether anything changed.
func (c *Chunk) SetBlock(x, y, z int, t block.Type) bool {
	if !coords.InChunk(x, y, z) || c.blocks == nil || c.state == StateEvicted {
		return false
	}
	idx := coords.LocalIndex(x, y, z)
	if c.blocks[idx].Type == t {
		return false
	}
	c.blocks[idx] = block.Block{Type: t}
	c.flags |= FlagMeshDirty
	return true
}

// Mesh returns the cached mesh. It may be stale while IsMeshDirty is true.
func (c *Chunk) Mesh() meshing.Mesh { return c.mesh }

// IndexCount is the cached mesh's index count; zero means nothing to draw.
func (c *Chunk) IndexCount() int { return c.mesh.IndexCount() }

// VertexCount is the cached mesh's vertex count.
func (c *Chunk) VertexCount() int { return c.mesh.VertexCount() }

// Flags returns the raw dirty bits.
func (c *Chunk) Flags() Flags { return c.flags }

// IsMeshDirty reports whether the mesh must be rebuilt.
func (c *Chunk) IsMeshDirty() bool { return c.flags&FlagMeshDirty != 0 }

// MarkMeshDirty schedules a rebuild.
func (c *Chunk) MarkMeshDirty() {
	if c.state != StateEvicted {
		c.flags |= FlagMeshDirty
	}
}

// BuffersNotCreated reports whether the renderer still has to allocate buffers.
func (c *Chunk) BuffersNotCreated() bool { return c.flags&FlagBuffersNotCreated != 0 }

// BuffersDirty reports whether the renderer has to re-upload the mesh.
func (c *Chunk) BuffersDirty() bool { return c.flags&FlagBuffersDirty != 0 }

// MarkBuffersCreated is called by the renderer after allocating and filling buffers.
func (c *Chunk) MarkBuffersCreated() {
	c.flags &^= FlagBuffersNotCreated | FlagBuffersDirty
}

// MarkBuffersUploaded is called by the renderer after re-uploading the mesh.
func (c *Chunk) MarkBuffersUploaded() {
	c.flags &^= FlagBuffersDirty
}

// RegenerateMesh rebuilds the cached mesh and flags the buffers for upload.
func (c *Chunk) RegenerateMesh(s spheremath.Sphere) {
	if c.state != StateResident {
		return
	}
	if c.key.LOD == 1 && c.SolidCount() == 0 {
		c.mesh = meshing.Mesh{}
	} else {
		c.mesh = meshing.Build(c, s)
	}
	c.flags &^= FlagMeshDirty
	if c.flags&FlagBuffersNotCreated == 0 {
		c.flags |= FlagBuffersDirty
	}
}

// evict releases the chunk's storage. The renderer frees its buffers once it
// notices the key is gone from the world.
func (c *Chunk) evict() {
	c.state = StateEvicted
	c.blocks = nil
	c.mesh = meshing.Mesh{}
	c.flags = 0
}

// Cutout returns the detail neighbourhood a merged chunk's proxy leaves out.
func (c *Chunk) Cutout() (meshing.Cutout, bool) { return c.cutout, c.hasCutout }

// setCutout updates the proxy cutout and schedules a rebuild when it changed.
func (c *Chunk) setCutout(cut meshing.Cutout, ok bool) {
	if !ok {
		cut = meshing.Cutout{}
	}
	if cut == c.cutout && ok == c.hasCutout {
		return
	}
	c.cutout, c.hasCutout = cut, ok
	c.MarkMeshDirty()
}

// SolidCount returns the number of non-air voxels.
func (c *Chunk) SolidCount() int {
	n := 0
	for _, b := range c.blocks {
		if b.Type.IsSolid() {
			n++
		}
	}
	return n
}
