package spheremath

import (
	"math"
	"math/rand"
	"testing"

	"spherecraft/internal/block"
	"spherecraft/internal/config"
	"spherecraft/internal/coords"

	"github.com/go-gl/mathgl/mgl64"
)

func defaultSphere() Sphere { return New(config.DefaultPlanet()) }

func TestSurfaceRadiusProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		p := config.Planet{
			Radius:         1 + rng.Float64()*1e7,
			SurfaceOffset:  rng.Float64() * 64,
			TerrainDepth:   1,
			MaxBuildHeight: 15,
		}
		s := New(p)
		if got, want := s.SurfaceRadius(), p.Radius+p.SurfaceOffset; got != want {
			t.Fatalf("planet %+v: surface %v, want %v", p, got, want)
		}
		if s.CollisionRadius() != p.Radius-p.TerrainDepth {
			t.Fatalf("collision radius %v", s.CollisionRadius())
		}
	}
}

func TestBlockTypeForElevation(t *testing.T) {
	s := defaultSphere()
	sr := s.SurfaceRadius()
	tests := []struct {
		d    float64
		want block.Type
	}{
		{math.NaN(), block.Air},
		{sr + 100, block.Air},
		{sr, block.Air},
		{sr - 0.5, block.Grass},
		{sr - 1, block.Grass},
		{sr - 1.01, block.Dirt},
		{0, block.Dirt},
	}
	for _, tt := range tests {
		if got := s.BlockTypeForElevation(tt.d); got != tt.want {
			t.Errorf("BlockTypeForElevation(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestIsWithinBuildRange(t *testing.T) {
	s := defaultSphere()
	sr := s.SurfaceRadius()
	tests := []struct {
		y    float64
		want bool
	}{
		{sr + 20, false},
		{sr + 15, true},
		{sr, true},
		{s.CollisionRadius(), true},
		{s.CollisionRadius() - 0.5, false},
	}
	for _, tt := range tests {
		if got := s.IsWithinBuildRange(mgl64.Vec3{0, tt.y, 0}); got != tt.want {
			t.Errorf("IsWithinBuildRange(y=%v) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestHeightLayerFloors(t *testing.T) {
	s := defaultSphere()
	sr := s.SurfaceRadius()
	for d, want := range map[float64]int{sr + 0.2: 0, sr + 0.99: 0, sr + 1: 1, sr - 0.1: -1, sr + 3.7: 3} {
		if got := s.HeightLayer(mgl64.Vec3{0, 0, d}); got != want {
			t.Errorf("HeightLayer(%v) = %d, want %d", d-sr, got, want)
		}
	}
}

func TestUpFace(t *testing.T) {
	tests := []struct {
		dir  mgl64.Vec3
		want block.Face
	}{
		{mgl64.Vec3{0, 1, 0}, block.FaceTop},
		{mgl64.Vec3{0, -1, 0}, block.FaceBottom},
		{mgl64.Vec3{-3, 1, 2}, block.FaceWest},
		{mgl64.Vec3{0.1, 0.2, 5}, block.FaceNorth},
		{mgl64.Vec3{0.1, 0.2, -5}, block.FaceSouth},
		{mgl64.Vec3{1, 1, 0}, block.FaceTop},
		{mgl64.Vec3{1, 0, 1}, block.FaceEast},
	}
	for _, tt := range tests {
		if got := UpFace(tt.dir); got != tt.want {
			t.Errorf("UpFace(%v) = %v, want %v", tt.dir, got, tt.want)
		}
	}
}

func poleVoxel(s Sphere, layer int) coords.BlockPos {
	return coords.BlockPos{X: 0, Y: int(math.Floor(s.SurfaceRadius())) + layer, Z: 0}
}

func TestProjectFaceVertexRadii(t *testing.T) {
	s := defaultSphere()
	v := poleVoxel(s, 2)
	base := s.LayerBase(2)
	o := v.Vec()

	tests := []struct {
		name   string
		corner mgl64.Vec3
		face   block.Face
		want   float64
	}{
		{"top", o.Add(mgl64.Vec3{0, 1, 0}), block.FaceTop, base + 1},
		{"bottom", o, block.FaceBottom, base},
		{"side low", o.Add(mgl64.Vec3{1, 0, 1}), block.FaceEast, base},
		{"side high", o.Add(mgl64.Vec3{1, 1, 1}), block.FaceEast, base + 1},
	}
	for _, tt := range tests {
		p := s.ProjectFaceVertex(tt.corner, v, tt.face)
		if math.Abs(p.Len()-tt.want) > 1e-6 {
			t.Errorf("%s: radius %v, want %v", tt.name, p.Len(), tt.want)
		}
		if d := p.Normalize().Sub(tt.corner.Normalize()).Len(); d > 1e-12 {
			t.Errorf("%s: direction changed by %v", tt.name, d)
		}
	}
}

func TestProjectFaceVertexEquator(t *testing.T) {
	s := defaultSphere()
	// On the +X axis the radial up face is East.
	v := coords.BlockPos{X: int(math.Floor(s.SurfaceRadius())) + 1, Y: 3, Z: -2}
	corner := v.Vec().Add(mgl64.Vec3{1, 0, 0})
	p := s.ProjectFaceVertex(corner, v, block.FaceEast)
	if want := s.LayerBase(1) + 1; math.Abs(p.Len()-want) > 1e-6 {
		t.Errorf("east-up top radius %v, want %v", p.Len(), want)
	}
	side := s.ProjectFaceVertex(v.Vec(), v, block.FaceNorth)
	if want := s.LayerBase(1); math.Abs(side.Len()-want) > 1e-6 {
		t.Errorf("east-up side low radius %v, want %v", side.Len(), want)
	}
}

func TestProjectFaceVertexSeamless(t *testing.T) {
	s := defaultSphere()
	lower := poleVoxel(s, 1)
	upper := lower.Add(0, 1, 0)
	next := lower.Add(1, 0, 0)

	// Top of the lower voxel meets the bottom of the one stacked on it.
	for _, c := range block.FaceTop.Corners() {
		corner := lower.Vec().Add(mgl64.Vec3{c[0], c[1], c[2]})
		a := s.ProjectFaceVertex(corner, lower, block.FaceTop)
		b := s.ProjectFaceVertex(corner, upper, block.FaceBottom)
		if !a.ApproxEqualThreshold(b, 1e-9) {
			t.Errorf("stacked corner %v: %v vs %v", corner, a, b)
		}
	}
	// East side of one voxel meets the west side of its neighbour.
	for _, c := range block.FaceEast.Corners() {
		corner := lower.Vec().Add(mgl64.Vec3{c[0], c[1], c[2]})
		a := s.ProjectFaceVertex(corner, lower, block.FaceEast)
		b := s.ProjectFaceVertex(corner, next, block.FaceWest)
		if !a.ApproxEqualThreshold(b, 1e-9) {
			t.Errorf("side corner %v: %v vs %v", corner, a, b)
		}
	}
}

func TestProjectFaceVertexOriginCorner(t *testing.T) {
	s := defaultSphere()
	p := s.ProjectFaceVertex(mgl64.Vec3{}, coords.BlockPos{}, block.FaceBottom)
	if !math.IsNaN(p.X()) {
		t.Errorf("corner at the planet centre projected to %v", p)
	}
}

func TestSurfacePoint(t *testing.T) {
	s := defaultSphere()
	p := s.SurfacePoint(mgl64.Vec3{3, 4, 12})
	if math.Abs(p.Len()-s.SurfaceRadius()) > 1e-6 {
		t.Errorf("surface point radius %v", p.Len())
	}
	if z := s.SurfacePoint(mgl64.Vec3{}); z.Y() != s.SurfaceRadius() {
		t.Errorf("zero input: %v", z)
	}
	if e := s.ElevationAt(mgl64.Vec3{0, s.SurfaceRadius() + 2.5, 0}); e != 2.5 {
		t.Errorf("ElevationAt = %v", e)
	}
}

func TestDistanceRange(t *testing.T) {
	near, far := DistanceRange(mgl64.Vec3{-1, -2, -3}, mgl64.Vec3{1, 2, 3})
	if near != 0 {
		t.Errorf("box around the centre: near %v", near)
	}
	if want := math.Sqrt(1 + 4 + 9); math.Abs(far-want) > 1e-12 {
		t.Errorf("far %v, want %v", far, want)
	}
	near, far = DistanceRange(mgl64.Vec3{3, -1, 0}, mgl64.Vec3{4, 1, 0})
	if near != 3 || math.Abs(far-math.Sqrt(17)) > 1e-12 {
		t.Errorf("offset box: %v %v", near, far)
	}
}

func TestCrossesSurface(t *testing.T) {
	s := defaultSphere()
	sr := s.SurfaceRadius()
	if !s.CrossesSurface(mgl64.Vec3{0, sr - 1, 0}, mgl64.Vec3{1, sr + 1, 1}) {
		t.Errorf("box straddling the surface")
	}
	if s.CrossesSurface(mgl64.Vec3{0, sr + 1, 0}, mgl64.Vec3{1, sr + 2, 1}) {
		t.Errorf("box above the surface")
	}
}

func TestVoxelCornersMatchFaces(t *testing.T) {
	s := defaultSphere()
	for _, dir := range []mgl64.Vec3{{0, 1, 0}, {1, 1, 0.3}, {-1, 0.4, -0.9}, {0.6, -1, 0.7}} {
		v := coords.BlockAt(dir.Normalize().Mul(s.SurfaceRadius() + 4.5))
		corners := s.VoxelCorners(v)
		for _, f := range block.Faces {
			for _, c := range f.Corners() {
				i := int(c[0]) | int(c[1])<<1 | int(c[2])<<2
				p := s.ProjectFaceVertex(v.Vec().Add(mgl64.Vec3{c[0], c[1], c[2]}), v, f)
				if !p.ApproxEqualThreshold(corners[i], 1e-9) {
					t.Errorf("dir %v face %d corner %d: face gives %v, VoxelCorners %v", dir, f, i, p, corners[i])
				}
			}
		}
	}
}
