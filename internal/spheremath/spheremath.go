// Package spheremath is the single source of sphere geometry for the planet:
// surface radius, elevation to block type, face projection and build range.
// Terrain generation, meshing, collision and editing all call into it so they
// agree on where the ground is.
package spheremath

import (
	"math"

	"spherecraft/internal/block"
	"spherecraft/internal/config"
	"spherecraft/internal/coords"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is an immutable view of one planet's geometry.
type Sphere struct {
	planet  config.Planet
	surface float64
}

// New builds the sphere for a planet configuration.
func New(p config.Planet) Sphere {
	return Sphere{planet: p, surface: p.Radius + p.SurfaceOffset}
}

// Planet returns the configuration the sphere was built from.
func (s Sphere) Planet() config.Planet { return s.planet }

// PlanetRadius is the configured base radius.
func (s Sphere) PlanetRadius() float64 { return s.planet.Radius }

// SurfaceRadius is the radius of ground level: planet radius plus the surface offset.
func (s Sphere) SurfaceRadius() float64 { return s.surface }

// CollisionRadius is the radius below which everything is solid. It is the
// floor of the build range, so no edit can ever open space beneath it.
func (s Sphere) CollisionRadius() float64 {
	return s.planet.Radius - s.planet.TerrainDepth
}

// BlockTypeForElevation maps a distance from the planet centre to the block
// terrain generation places there. Dirt below the grass shell, grass inside
// it, air from the surface radius up.
func (s Sphere) BlockTypeForElevation(distance float64) block.Type {
	switch {
	case math.IsNaN(distance) || distance >= s.surface:
		return block.Air
	case distance >= s.surface-s.planet.TerrainDepth:
		return block.Grass
	default:
		return block.Dirt
	}
}

// BlockTypeAt is BlockTypeForElevation for the centre of a voxel.
func (s Sphere) BlockTypeAt(p coords.BlockPos) block.Type {
	return s.BlockTypeForElevation(p.Center().Len())
}

// IsWithinBuildRange reports whether pos lies in the editable shell.
func (s Sphere) IsWithinBuildRange(pos mgl64.Vec3) bool {
	d := pos.Len()
	return d >= s.planet.Radius-s.planet.TerrainDepth && d <= s.surface+s.planet.MaxBuildHeight
}

// HeightLayer is the integer layer of a point above the surface radius.
// The floor (not round) is what lines up stacked voxel faces.
func (s Sphere) HeightLayer(pos mgl64.Vec3) int {
	return int(math.Floor(pos.Len() - s.surface))
}

// LayerBase is the radius at which a layer starts.
func (s Sphere) LayerBase(layer int) float64 {
	return s.surface + float64(layer)
}

// ProjectFaceVertex moves a face corner of a voxel onto the sphere.
//
// vertex is the corner in absolute block-aligned space and voxel the block the
// face belongs to. The voxel centre's height layer picks the base radius; the
// face role relative to the voxel's radial up axis picks the final radius:
// top faces sit at base+1, bottom faces at base, and side faces interpolate by
// the corner's offset along the up axis. The corner is returned scaled along
// its own direction from the centre, so corners shared by neighbouring faces
// of the same layer land on the same point.
func (s Sphere) ProjectFaceVertex(vertex mgl64.Vec3, voxel coords.BlockPos, face block.Face) mgl64.Vec3 {
	center := voxel.Center()
	dist := center.Len()
	if dist == 0 {
		return vertex
	}
	dir := center.Mul(1 / dist)
	base := s.LayerBase(int(math.Floor(dist - s.surface)))

	up := UpFace(dir)
	var r float64
	switch face {
	case up:
		r = base + 1
	case up.Opposite():
		r = base
	default:
		axis := up.Axis()
		t := vertex[axis] - voxel.Vec()[axis]
		if !isPositive(up) {
			t = 1 - t
		}
		r = base + t
	}

	l := vertex.Len()
	if l == 0 {
		return mgl64.Vec3{math.NaN(), math.NaN(), math.NaN()}
	}
	return vertex.Mul(r / l)
}

// UpFace returns the voxel face whose normal is closest to dir. For a voxel
// centre direction this is the face that points away from the planet.
func UpFace(dir mgl64.Vec3) block.Face {
	ax, ay, az := math.Abs(dir.X()), math.Abs(dir.Y()), math.Abs(dir.Z())
	switch {
	case ay >= ax && ay >= az:
		if dir.Y() >= 0 {
			return block.FaceTop
		}
		return block.FaceBottom
	case ax >= az:
		if dir.X() >= 0 {
			return block.FaceEast
		}
		return block.FaceWest
	default:
		if dir.Z() >= 0 {
			return block.FaceNorth
		}
		return block.FaceSouth
	}
}

// UpFaceAt is UpFace for the centre of a voxel.
func UpFaceAt(p coords.BlockPos) block.Face {
	return UpFace(p.Center())
}

// VoxelCorners returns the eight projected corners of a voxel as the mesher
// draws them. Bit 0 of the index selects +X, bit 1 +Y and bit 2 +Z.
func (s Sphere) VoxelCorners(v coords.BlockPos) [8]mgl64.Vec3 {
	up := UpFaceAt(v)
	axis := up.Axis()
	var out [8]mgl64.Vec3
	for i := range out {
		off := mgl64.Vec3{float64(i & 1), float64(i >> 1 & 1), float64(i >> 2 & 1)}
		f := up.Opposite()
		if (off[axis] == 1) == isPositive(up) {
			f = up
		}
		out[i] = s.ProjectFaceVertex(v.Vec().Add(off), v, f)
	}
	return out
}

func isPositive(f block.Face) bool {
	return f == block.FaceNorth || f == block.FaceEast || f == block.FaceTop
}

// SurfacePoint returns the point on the surface radius straight below or above pos.
func (s Sphere) SurfacePoint(pos mgl64.Vec3) mgl64.Vec3 {
	l := pos.Len()
	if l == 0 {
		return mgl64.Vec3{0, s.surface, 0}
	}
	return pos.Mul(s.surface / l)
}

// ElevationAt is the signed distance of pos above the surface radius.
func (s Sphere) ElevationAt(pos mgl64.Vec3) float64 {
	return pos.Len() - s.surface
}

// DistanceRange returns the nearest and farthest distance from the planet
// centre to any point of the axis-aligned box [min, max].
func DistanceRange(min, max mgl64.Vec3) (near, far float64) {
	var n, f mgl64.Vec3
	for i := 0; i < 3; i++ {
		switch {
		case min[i] > 0:
			n[i] = min[i]
		case max[i] < 0:
			n[i] = max[i]
		}
		f[i] = math.Max(math.Abs(min[i]), math.Abs(max[i]))
	}
	return n.Len(), f.Len()
}

// CrossesSurface reports whether the surface radius passes through the box.
func (s Sphere) CrossesSurface(min, max mgl64.Vec3) bool {
	near, far := DistanceRange(min, max)
	return near <= s.surface && far >= s.surface
}
