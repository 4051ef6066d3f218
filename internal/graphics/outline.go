package graphics

import (
	"spherecraft/internal/coords"
	"spherecraft/internal/spheremath"

	"github.com/go-gl/mathgl/mgl64"
)

// OutlineVertexCount is the number of line-list vertices OutlineVertices emits.
const OutlineVertexCount = 24

// OutlineVertices returns the twelve edges of a voxel's projected shape as
// line-list positions relative to the observer. The shape is grown by scale
// around its centre so the lines sit just outside the drawn faces.
func OutlineVertices(s spheremath.Sphere, rb *coords.Rebaser, v coords.BlockPos, observer mgl64.Vec3, scale float64) []float32 {
	corners := s.VoxelCorners(v)
	var c mgl64.Vec3
	for _, p := range corners {
		c = c.Add(p.Mul(1.0 / 8))
	}

	out := make([]float32, 0, OutlineVertexCount*3)
	emit := func(i int) {
		p := c.Add(corners[i].Sub(c).Mul(scale))
		l := rb.ObserverRelative(p, observer)
		out = append(out, l.X(), l.Y(), l.Z())
	}
	for i := range corners {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				emit(i)
				emit(i | bit)
			}
		}
	}
	return out
}
