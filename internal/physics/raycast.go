package physics

import (
	"math"

	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxReachDistance is the editor's default ray length.
const MaxReachDistance = 5.0

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	Hit bool
	// BlockPos is the first solid voxel along the ray.
	BlockPos coords.BlockPos
	// Adjacent is the voxel the ray was in before entering BlockPos; new blocks go there.
	Adjacent coords.BlockPos
	// Face is the face of BlockPos the ray entered through; Normal is its outward normal.
	Face     block.Face
	Normal   mgl64.Vec3
	Distance float64
}

// Raycaster walks the voxel grid along a ray.
type Raycaster struct {
	src  BlockSource
	prof *profiling.Profiler
}

// NewRaycaster creates a raycaster over src. prof may be nil.
func NewRaycaster(src BlockSource, prof *profiling.Profiler) *Raycaster {
	return &Raycaster{src: src, prof: prof}
}

// Raycast returns the first solid voxel whose cell the ray enters within
// maxDist. It steps from boundary to boundary, so no voxel is skipped whatever
// the angle or distance from the planet centre. A ray starting inside a solid
// voxel hits it at distance zero.
func (r *Raycaster) Raycast(origin, dir mgl64.Vec3, maxDist float64) RaycastResult {
	defer r.prof.Track("physics.Raycast")()

	l := dir.Len()
	if l == 0 || !(maxDist > 0) || !finite(origin) || !finite(dir) {
		return RaycastResult{}
	}
	d := dir.Mul(1 / l)

	start := coords.BlockAt(origin)
	cell := [3]int{start.X, start.Y, start.Z}
	if r.solid(cell) {
		face := entryFace(d)
		return RaycastResult{
			Hit:      true,
			BlockPos: start,
			Adjacent: start,
			Face:     face,
			Normal:   face.Normal(),
		}
	}

	var step [3]int
	var tMax, tDelta [3]float64
	for i := 0; i < 3; i++ {
		switch {
		case d[i] > 0:
			step[i] = 1
			tMax[i] = (math.Floor(origin[i]) + 1 - origin[i]) / d[i]
			tDelta[i] = 1 / d[i]
		case d[i] < 0:
			step[i] = -1
			tMax[i] = (origin[i] - math.Floor(origin[i])) / -d[i]
			tDelta[i] = -1 / d[i]
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	// Each step crosses one boundary; a ray of length maxDist crosses at most
	// ceil(maxDist) boundaries per axis.
	maxSteps := 3*int(math.Ceil(maxDist)) + 3
	for n := 0; n < maxSteps; n++ {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t := tMax[axis]
		if t > maxDist {
			break
		}

		prev := cell
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		if !r.solid(cell) {
			continue
		}

		var n3 [3]int
		n3[axis] = -step[axis]
		face, _ := block.FaceFromNormal(n3[0], n3[1], n3[2])
		return RaycastResult{
			Hit:      true,
			BlockPos: toPos(cell),
			Adjacent: toPos(prev),
			Face:     face,
			Normal:   face.Normal(),
			Distance: t,
		}
	}
	return RaycastResult{}
}

func (r *Raycaster) solid(c [3]int) bool {
	return r.src.GetBlock(c[0], c[1], c[2]).IsSolid()
}

// entryFace is the face a ray travelling along d would enter through.
func entryFace(d mgl64.Vec3) block.Face {
	axis := 0
	for i := 1; i < 3; i++ {
		if math.Abs(d[i]) > math.Abs(d[axis]) {
			axis = i
		}
	}
	var n [3]int
	if d[axis] > 0 {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	f, _ := block.FaceFromNormal(n[0], n[1], n[2])
	return f
}

func toPos(c [3]int) coords.BlockPos {
	return coords.BlockPos{X: c[0], Y: c[1], Z: c[2]}
}
