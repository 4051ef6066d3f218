package meshing

import (
	"math"

	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/spheremath"

	"github.com/go-gl/mathgl/mgl64"
)

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz + material)
const VertexStride = 7

// Voxels is the read-only view of a chunk the mesher needs.
type Voxels interface {
	Key() coords.ChunkKey
	// Blocks returns the chunk's voxels indexed by coords.LocalIndex, or nil
	// for chunks that carry no per-block storage.
	Blocks() []block.Block
}

// Cutout is the full-detail neighbourhood a merged chunk's proxy must leave
// uncovered: every chunk within Radius of Center on each axis.
type Cutout struct {
	Center coords.ChunkCoord
	Radius int
}

// Contains reports whether the chunk holding p lies inside the cutout.
func (c Cutout) Contains(p mgl64.Vec3) bool {
	cc := coords.ChunkAt(p)
	return abs(cc.X-c.Center.X) <= c.Radius && abs(cc.Y-c.Center.Y) <= c.Radius && abs(cc.Z-c.Center.Z) <= c.Radius
}

// CutoutSource is implemented by merged chunks that overlap the full-detail
// neighbourhood.
type CutoutSource interface {
	Cutout() (Cutout, bool)
}

// Mesh is an indexed triangle list. Vertex positions are relative to the
// chunk origin so a chunk can be drawn with a single translation.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int { return len(m.Vertices) / VertexStride }

// IndexCount returns the number of indices; zero means nothing to draw.
func (m Mesh) IndexCount() int { return len(m.Indices) }

// Empty reports whether the mesh has nothing to draw.
func (m Mesh) Empty() bool { return len(m.Indices) == 0 }

// Build meshes a chunk. Full-detail chunks get one quad per exposed voxel face
// projected onto the sphere; merged chunks get a proxy, cut around the detail
// neighbourhood when src reports a cutout. A chunk
// whose voxel array is missing or the wrong size yields an empty mesh.
func Build(src Voxels, s spheremath.Sphere) Mesh {
	if src == nil {
		return Mesh{}
	}
	key := src.Key()
	if key.LOD > 1 {
		if cs, ok := src.(CutoutSource); ok {
			if cut, ok := cs.Cutout(); ok {
				return BuildProxy(key, s, &cut)
			}
		}
		return BuildProxy(key, s, nil)
	}

	blocks := src.Blocks()
	if len(blocks) != coords.ChunkVolume {
		return Mesh{}
	}

	b := newBuilder(key.Origin())
	for x := 0; x < coords.ChunkSize; x++ {
		for y := 0; y < coords.ChunkSize; y++ {
			for z := 0; z < coords.ChunkSize; z++ {
				bt := blocks[coords.LocalIndex(x, y, z)].Type
				if !bt.IsSolid() {
					continue
				}
				for _, f := range block.Faces {
					dx, dy, dz := f.Offset()
					nx, ny, nz := x+dx, y+dy, z+dz
					// Neighbours across the chunk border are treated as visible.
					if coords.InChunk(nx, ny, nz) && blocks[coords.LocalIndex(nx, ny, nz)].Type.IsSolid() {
						continue
					}
					b.voxelFace(s, x, y, z, f, bt)
				}
			}
		}
	}
	return b.mesh()
}

type builder struct {
	origin    coords.BlockPos
	originVec mgl64.Vec3
	vertices  []float32
	indices   []uint32
}

func newBuilder(origin coords.BlockPos) *builder {
	return &builder{
		origin:    origin,
		originVec: origin.Vec(),
		vertices:  make([]float32, 0, 1024),
		indices:   make([]uint32, 0, 256),
	}
}

func (b *builder) mesh() Mesh {
	if len(b.indices) == 0 {
		return Mesh{}
	}
	return Mesh{Vertices: b.vertices, Indices: b.indices}
}

// voxelFace projects the four corners of one voxel face and emits the quad.
// A face with any non-finite corner is dropped as a whole.
func (b *builder) voxelFace(s spheremath.Sphere, x, y, z int, f block.Face, bt block.Type) {
	voxel := b.origin.Add(x, y, z)
	base := voxel.Vec()

	var quad [4]mgl64.Vec3
	for i, c := range f.Corners() {
		corner := base.Add(mgl64.Vec3{c[0], c[1], c[2]})
		p := s.ProjectFaceVertex(corner, voxel, f)
		rel := p.Sub(b.originVec)
		if !finite(rel) {
			return
		}
		quad[i] = rel
	}
	b.quad(quad, f.Normal(), bt)
}

// quad emits four vertices and two triangles (v0,v1,v2) and (v2,v3,v0).
func (b *builder) quad(q [4]mgl64.Vec3, n mgl64.Vec3, bt block.Type) {
	first := uint32(len(b.vertices) / VertexStride)
	for _, v := range q {
		b.vertices = append(b.vertices,
			float32(v.X()), float32(v.Y()), float32(v.Z()),
			float32(n.X()), float32(n.Y()), float32(n.Z()),
			float32(bt),
		)
	}
	b.indices = append(b.indices,
		first, first+1, first+2,
		first+2, first+3, first,
	)
}

// BuildProxy emits the low-detail stand-in for a merged chunk: a square of
// edge Size*LOD lying in the tangent plane at the surface radius above the
// cell centre. Cells the surface does not pass through produce nothing.
// Without a cutout the square is one quad. With one it is split into a tile
// per chunk width, and tiles whose centre falls in a cutout chunk are left out.
func BuildProxy(key coords.ChunkKey, s spheremath.Sphere, cut *Cutout) Mesh {
	if key.LOD < 1 {
		return Mesh{}
	}
	extent := float64(key.Extent())
	origin := key.Origin().Vec()
	max := origin.Add(mgl64.Vec3{extent, extent, extent})
	if !s.CrossesSurface(origin, max) {
		return Mesh{}
	}

	center := origin.Add(mgl64.Vec3{extent / 2, extent / 2, extent / 2})
	if center.Len() == 0 {
		return Mesh{}
	}
	up := center.Normalize()
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(up.Y()) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	t1 := up.Cross(ref).Normalize()
	t2 := up.Cross(t1)
	p := s.SurfacePoint(center)

	tiles := 1
	if cut != nil {
		tiles = key.LOD
	}
	size := extent / float64(tiles)
	a := t1.Mul(size / 2)
	c := t2.Mul(size / 2)

	b := newBuilder(key.Origin())
	for i := 0; i < tiles; i++ {
		for j := 0; j < tiles; j++ {
			tc := p.Add(t1.Mul((float64(i)+0.5)*size - extent/2)).Add(t2.Mul((float64(j)+0.5)*size - extent/2))
			if cut != nil && cut.Contains(tc) {
				continue
			}
			q := [4]mgl64.Vec3{
				tc.Sub(a).Sub(c).Sub(origin),
				tc.Add(a).Sub(c).Sub(origin),
				tc.Add(a).Add(c).Sub(origin),
				tc.Sub(a).Add(c).Sub(origin),
			}
			if !finite(q[0]) || !finite(q[1]) || !finite(q[2]) || !finite(q[3]) {
				continue
			}
			b.quad(q, up, block.Grass)
		}
	}
	return b.mesh()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
