package physics

import (
	"errors"

	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoTarget       = errors.New("no block within reach")
	ErrTargetOccupied = errors.New("target position is occupied")
	ErrNotPlaceable   = errors.New("block type cannot be placed")
)

// BlockWriter is a BlockSource that also accepts edits. *world.World implements it.
type BlockWriter interface {
	BlockSource
	SetBlock(x, y, z int, t block.Type) error
}

// Editor turns a look ray into block placement and removal. Build-range
// checks are left to the world; its errors are returned unchanged.
type Editor struct {
	w   BlockWriter
	ray *Raycaster

	// Reach is the maximum ray length.
	Reach float64
	// Blocked, when set, vetoes placements; the viewer uses it to keep
	// blocks out of the observer's body.
	Blocked func(coords.BlockPos) bool
}

// NewEditor creates an editor with the default reach.
func NewEditor(w BlockWriter, prof *profiling.Profiler) *Editor {
	return &Editor{w: w, ray: NewRaycaster(w, prof), Reach: MaxReachDistance}
}

// Target returns what the look ray currently points at.
func (e *Editor) Target(origin, dir mgl64.Vec3) RaycastResult {
	return e.ray.Raycast(origin, dir, e.Reach)
}

// Place puts a block of type t against the face the ray hits and returns
// where it went.
func (e *Editor) Place(origin, dir mgl64.Vec3, t block.Type) (coords.BlockPos, error) {
	if !t.Placeable() {
		return coords.BlockPos{}, ErrNotPlaceable
	}
	hit := e.Target(origin, dir)
	if !hit.Hit {
		return coords.BlockPos{}, ErrNoTarget
	}
	p := hit.Adjacent
	if p == hit.BlockPos || e.w.GetBlock(p.X, p.Y, p.Z).IsSolid() {
		return p, ErrTargetOccupied
	}
	if e.Blocked != nil && e.Blocked(p) {
		return p, ErrTargetOccupied
	}
	if err := e.w.SetBlock(p.X, p.Y, p.Z, t); err != nil {
		return p, err
	}
	return p, nil
}

// Remove clears the first solid block along the ray and returns its position.
func (e *Editor) Remove(origin, dir mgl64.Vec3) (coords.BlockPos, error) {
	hit := e.Target(origin, dir)
	if !hit.Hit {
		return coords.BlockPos{}, ErrNoTarget
	}
	p := hit.BlockPos
	if err := e.w.SetBlock(p.X, p.Y, p.Z, block.Air); err != nil {
		return p, err
	}
	return p, nil
}
