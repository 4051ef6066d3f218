package physics

import (
	"math"

	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/profiling"
	"spherecraft/internal/spheremath"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// FacingProbe is how far ahead of the body CheckCollision looks.
	FacingProbe = 0.3
	// BodyHalfWidth and BodyHeight describe the observer's collision box.
	BodyHalfWidth = 0.3
	BodyHeight    = 1.8
)

// BlockSource is the read-only world view collision and raycasting need.
// *world.World implements it.
type BlockSource interface {
	GetBlock(x, y, z int) block.Type
	Sphere() spheremath.Sphere
}

// CollisionQuery answers occupancy questions against the same projected
// geometry the mesher emits: a solid voxel fills the radial shell of its
// height layer inside its own cell.
type CollisionQuery struct {
	src  BlockSource
	prof *profiling.Profiler
}

// NewCollisionQuery creates a query over src. prof may be nil.
func NewCollisionQuery(src BlockSource, prof *profiling.Profiler) *CollisionQuery {
	return &CollisionQuery{src: src, prof: prof}
}

// CheckCollision reports whether pos is blocked: inside the solid core below
// the collision radius, inside a solid voxel, or with a solid voxel just ahead
// along facing. facing may be zero.
func (q *CollisionQuery) CheckCollision(pos, facing mgl64.Vec3) bool {
	defer q.prof.Track("physics.CheckCollision")()
	if q.belowCore(pos) || q.PointInSolid(pos) {
		return true
	}
	if l := facing.Len(); l > 0 {
		return q.PointInSolid(pos.Add(facing.Mul(FacingProbe / l)))
	}
	return false
}

func (q *CollisionQuery) belowCore(pos mgl64.Vec3) bool {
	return pos.Len() < q.src.Sphere().CollisionRadius()
}

// PointInSolid reports whether pos lies inside the projected volume of any
// solid voxel. Layers are floored, so the voxel occupying a point can sit one
// cell away from the cube cell containing it; the 3x3x3 neighbourhood covers that.
func (q *CollisionQuery) PointInSolid(pos mgl64.Vec3) bool {
	if !finite(pos) {
		return false
	}
	s := q.src.Sphere()
	d := pos.Len()
	cell := coords.BlockAt(pos)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				v := cell.Add(dx, dy, dz)
				if !q.src.GetBlock(v.X, v.Y, v.Z).IsSolid() {
					continue
				}
				if voxelContains(s, v, pos, d) {
					return true
				}
			}
		}
	}
	return false
}

// voxelContains tests the radial shell of the voxel's layer, then the two
// lateral axes. The mesher scales each corner along its own direction and ties
// the corner's offset along the up axis to its radius, so the cross-section at
// radius base+t is the cube cell's slice at offset t along the up axis. pos is
// projected centrally onto that slice before the lateral bounds are checked.
func voxelContains(s spheremath.Sphere, v coords.BlockPos, pos mgl64.Vec3, d float64) bool {
	center := v.Center()
	cd := center.Len()
	base := s.LayerBase(int(math.Floor(cd - s.SurfaceRadius())))
	if d < base || d >= base+1 || d == 0 {
		return false
	}
	axis := spheremath.UpFaceAt(v).Axis()
	corner := v.Vec()
	t := d - base
	slice := corner[axis] + t
	if center[axis] < 0 {
		slice = corner[axis] + 1 - t
	}
	if pos[axis] == 0 || (pos[axis] > 0) != (slice > 0) {
		return false
	}
	p := pos.Mul(slice / pos[axis])
	for a := 0; a < 3; a++ {
		if a == axis {
			continue
		}
		if p[a] < corner[a] || p[a] >= corner[a]+1 {
			return false
		}
	}
	return true
}

// CollidesBox reports whether an upright box standing at pos (its feet) with
// the given half width and height overlaps solid ground. The box is aligned to
// the local up direction at pos.
func (q *CollisionQuery) CollidesBox(pos mgl64.Vec3, halfWidth, height float64) bool {
	defer q.prof.Track("physics.CollidesBox")()
	if q.belowCore(pos) {
		return true
	}
	l := pos.Len()
	if l == 0 {
		return true
	}
	up := pos.Mul(1 / l)
	t1, t2 := tangents(up)
	offsets := [5][2]float64{{0, 0}, {-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, h := range [3]float64{0, height / 2, height} {
		base := pos.Add(up.Mul(h))
		for _, o := range offsets {
			p := base.Add(t1.Mul(o[0] * halfWidth)).Add(t2.Mul(o[1] * halfWidth))
			if q.PointInSolid(p) {
				return true
			}
		}
	}
	return false
}

// GroundRadius finds the radius of the first solid surface straight below
// pos, scanning layer by layer down to the collision radius. ok is false when
// nothing solid was found above the core.
func (q *CollisionQuery) GroundRadius(pos mgl64.Vec3) (radius float64, ok bool) {
	s := q.src.Sphere()
	l := pos.Len()
	if l == 0 {
		return s.CollisionRadius(), false
	}
	dir := pos.Mul(1 / l)
	top := s.HeightLayer(pos)
	if limit := int(math.Ceil(s.Planet().MaxBuildHeight)); top > limit {
		top = limit
	}
	bottom := int(math.Floor(s.CollisionRadius() - s.SurfaceRadius()))
	for layer := top; layer >= bottom; layer-- {
		r := s.LayerBase(layer) + 0.5
		if q.PointInSolid(dir.Mul(r)) {
			return s.LayerBase(layer) + 1, true
		}
	}
	return s.CollisionRadius(), false
}

// tangents returns two unit vectors perpendicular to up and to each other.
func tangents(up mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(up.Y()) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	t1 := up.Cross(ref).Normalize()
	return t1, up.Cross(t1)
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
