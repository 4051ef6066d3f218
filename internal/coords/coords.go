package coords

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// ChunkSize is the edge length of a full-detail chunk in blocks.
const ChunkSize = 16

// ChunkCoord addresses a chunk on the chunk grid.
type ChunkCoord struct {
	X, Y, Z int
}

// Add returns the coordinate offset by (dx, dy, dz).
func (c ChunkCoord) Add(dx, dy, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// DistSq is the squared chunk-grid distance between two coordinates.
func (c ChunkCoord) DistSq(o ChunkCoord) int {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Origin returns the absolute block position of the chunk's minimum corner
// for a chunk of the given merge factor.
func (c ChunkCoord) Origin(lod int) BlockPos {
	s := ChunkSize * lod
	return BlockPos{X: c.X * s, Y: c.Y * s, Z: c.Z * s}
}

// ChunkKey identifies a chunk in the world map: grid coordinate plus merge factor.
// LOD 1 is full detail; a key with LOD n lives on a grid n times coarser.
type ChunkKey struct {
	Coord ChunkCoord
	LOD   int
}

// Origin is the absolute block origin of the keyed chunk.
func (k ChunkKey) Origin() BlockPos {
	return k.Coord.Origin(k.LOD)
}

// Extent is the edge length of the keyed chunk in blocks.
func (k ChunkKey) Extent() int {
	return ChunkSize * k.LOD
}

// BlockPos is an absolute integer voxel position.
type BlockPos struct {
	X, Y, Z int
}

// Add returns the position offset by (dx, dy, dz).
func (p BlockPos) Add(dx, dy, dz int) BlockPos {
	return BlockPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Vec returns the minimum corner of the voxel.
func (p BlockPos) Vec() mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
}

// Center returns the centre of the voxel.
func (p BlockPos) Center() mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X) + 0.5, float64(p.Y) + 0.5, float64(p.Z) + 0.5}
}

// Chunk returns the full-detail chunk holding the voxel.
func (p BlockPos) Chunk() ChunkCoord {
	return ChunkCoord{X: FloorDiv(p.X, ChunkSize), Y: FloorDiv(p.Y, ChunkSize), Z: FloorDiv(p.Z, ChunkSize)}
}

// Local returns the voxel's coordinate inside its chunk, each in [0, ChunkSize).
func (p BlockPos) Local() (x, y, z int) {
	return Mod(p.X, ChunkSize), Mod(p.Y, ChunkSize), Mod(p.Z, ChunkSize)
}

// BlockAt returns the voxel containing an absolute position.
func BlockAt(pos mgl64.Vec3) BlockPos {
	return BlockPos{
		X: int(math.Floor(pos.X())),
		Y: int(math.Floor(pos.Y())),
		Z: int(math.Floor(pos.Z())),
	}
}

// ChunkAt returns the full-detail chunk containing an absolute position.
func ChunkAt(pos mgl64.Vec3) ChunkCoord {
	return BlockAt(pos).Chunk()
}

// FloorDiv divides rounding toward negative infinity, so -1/16 is -1 rather than 0.
func FloorDiv[T constraints.Integer](a, b T) T {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod returns a non-negative remainder for positive b.
func Mod[T constraints.Integer](a, b T) T {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// ChunkVolume is the number of voxels in a full-detail chunk.
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

// LocalIndex converts local chunk coordinates to a flat index (x-major).
func LocalIndex(x, y, z int) int {
	return (x*ChunkSize+y)*ChunkSize + z
}

// InChunk reports whether local coordinates lie inside a chunk.
func InChunk(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}
