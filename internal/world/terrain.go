package world

import (
	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/spheremath"

	"github.com/go-gl/mathgl/mgl64"
)

// GenerateTerrain fills the chunk from the sphere's elevation function. It is a
// pure function of the chunk key and the planet, so a chunk regenerated after
// eviction comes back identical. Merged chunks have no voxels and only change
// state.
func (c *Chunk) GenerateTerrain(s spheremath.Sphere) {
	if c.state != StateLoading {
		return
	}
	if c.blocks != nil {
		fillTerrain(c, s)
	}
	c.state = StateResident
	c.flags |= FlagMeshDirty
}

func fillTerrain(c *Chunk, s spheremath.Sphere) {
	origin := c.Origin()

	// Voxel centres span [origin+0.5, origin+Size-0.5]. Chunks entirely above
	// the surface or entirely below the grass shell are filled without sampling.
	lo := origin.Vec().Add(mgl64.Vec3{0.5, 0.5, 0.5})
	hi := lo.Add(mgl64.Vec3{ChunkSize - 1, ChunkSize - 1, ChunkSize - 1})
	near, far := spheremath.DistanceRange(lo, hi)
	switch {
	case s.BlockTypeForElevation(near) == block.Air:
		fillUniform(c, block.Air)
		return
	case s.BlockTypeForElevation(far) == block.Dirt:
		fillUniform(c, block.Dirt)
		return
	}

	for lx := 0; lx < ChunkSize; lx++ {
		for ly := 0; ly < ChunkSize; ly++ {
			for lz := 0; lz < ChunkSize; lz++ {
				p := origin.Add(lx, ly, lz)
				c.blocks[coords.LocalIndex(lx, ly, lz)] = block.Block{Type: s.BlockTypeAt(p)}
			}
		}
	}
}

func fillUniform(c *Chunk, t block.Type) {
	for i := range c.blocks {
		c.blocks[i] = block.Block{Type: t}
	}
}
