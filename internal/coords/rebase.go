package coords

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Rebaser converts between absolute double-precision positions and a
// single-precision frame anchored at the origin chunk. The origin follows the
// observer, so everything near the camera stays small enough for float32.
type Rebaser struct {
	planetRadius float64
	origin       ChunkCoord
}

// NewRebaser returns a rebaser anchored at the given chunk.
func NewRebaser(planetRadius float64, origin ChunkCoord) *Rebaser {
	return &Rebaser{planetRadius: planetRadius, origin: origin}
}

// PlanetRadius returns the radius the rebaser was built for.
func (r *Rebaser) PlanetRadius() float64 { return r.planetRadius }

// Origin returns the current origin chunk.
func (r *Rebaser) Origin() ChunkCoord { return r.origin }

// SetOrigin moves the frame. Called once per tick with the observer's chunk.
func (r *Rebaser) SetOrigin(c ChunkCoord) { r.origin = c }

// OriginPos is the absolute position of the frame origin.
func (r *Rebaser) OriginPos() mgl64.Vec3 {
	return r.origin.Origin(1).Vec()
}

// WorldToLocal subtracts the frame origin in double precision, then narrows.
func (r *Rebaser) WorldToLocal(p mgl64.Vec3) mgl32.Vec3 {
	d := p.Sub(r.OriginPos())
	return mgl32.Vec3{float32(d.X()), float32(d.Y()), float32(d.Z())}
}

// LocalToWorld is the inverse of WorldToLocal.
func (r *Rebaser) LocalToWorld(p mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X()), float64(p.Y()), float64(p.Z())}.Add(r.OriginPos())
}

// ObserverRelative returns p relative to observer. Both are taken into the
// local frame first, so only small values are narrowed to float32.
func (r *Rebaser) ObserverRelative(p, observer mgl64.Vec3) mgl32.Vec3 {
	return r.WorldToLocal(p).Sub(r.WorldToLocal(observer))
}

// ChunkOffset returns the draw translation of a chunk relative to an observer.
func (r *Rebaser) ChunkOffset(k ChunkKey, observer mgl64.Vec3) mgl32.Vec3 {
	return r.ObserverRelative(k.Origin().Vec(), observer)
}
