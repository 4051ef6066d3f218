package physics_test

import (
	"errors"
	"testing"

	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/physics"
	"spherecraft/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

func TestEditorPlaceAndRemove(t *testing.T) {
	w, sy := newWorld(t)
	ed := physics.NewEditor(w, nil)
	eye := mgl64.Vec3{0.5, float64(sy) + 2.5, 0.5}
	down := mgl64.Vec3{0, -1, 0}

	p, err := ed.Place(eye, down, block.Stone)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if want := (coords.BlockPos{X: 0, Y: sy, Z: 0}); p != want {
		t.Fatalf("placed at %v, want %v", p, want)
	}
	if got := w.GetBlock(p.X, p.Y, p.Z); got != block.Stone {
		t.Fatalf("GetBlock = %v, want stone", got)
	}

	r, err := ed.Remove(eye, down)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if r != p || w.GetBlock(p.X, p.Y, p.Z) != block.Air {
		t.Errorf("removed %v, block now %v", r, w.GetBlock(p.X, p.Y, p.Z))
	}
}

func TestEditorErrors(t *testing.T) {
	w, sy := newWorld(t)
	ed := physics.NewEditor(w, nil)
	eye := mgl64.Vec3{0.5, float64(sy) + 2.5, 0.5}

	if _, err := ed.Place(eye, mgl64.Vec3{0, -1, 0}, block.Air); !errors.Is(err, physics.ErrNotPlaceable) {
		t.Errorf("placing air: %v", err)
	}
	if _, err := ed.Place(eye, mgl64.Vec3{0, 1, 0}, block.Dirt); !errors.Is(err, physics.ErrNoTarget) {
		t.Errorf("placing at the sky: %v", err)
	}
	if _, err := ed.Remove(eye, mgl64.Vec3{0, 1, 0}); !errors.Is(err, physics.ErrNoTarget) {
		t.Errorf("removing the sky: %v", err)
	}

	ed.Blocked = func(p coords.BlockPos) bool { return p == coords.BlockAt(eye).Add(0, -2, 0) }
	if _, err := ed.Place(eye, mgl64.Vec3{0, -1, 0}, block.Dirt); !errors.Is(err, physics.ErrTargetOccupied) {
		t.Errorf("placing into the observer: %v", err)
	}

	inside := mgl64.Vec3{0.5, float64(sy) - 2.5, 0.5}
	if _, err := ed.Place(inside, mgl64.Vec3{0, 1, 0}, block.Dirt); !errors.Is(err, physics.ErrTargetOccupied) {
		t.Errorf("placing from inside dirt: %v", err)
	}
}

func TestEditorRespectsBuildRange(t *testing.T) {
	w, _ := newWorld(t)
	ed := physics.NewEditor(w, nil)
	deep := mgl64.Vec3{0.5, w.Sphere().CollisionRadius() - 3.5, 0.5}
	if _, err := ed.Remove(deep, mgl64.Vec3{0, -1, 0}); !errors.Is(err, world.ErrOutsideBuildRange) {
		t.Errorf("removing below the collision radius: %v", err)
	}
}
