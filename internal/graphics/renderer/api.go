package renderer

import (
	"spherecraft/internal/graphics"
	"spherecraft/internal/physics"
	"spherecraft/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera   *graphics.Camera
	World    *world.World
	Observer mgl64.Vec3
	// Target is what the editor ray currently points at.
	Target  physics.RaycastResult
	View    mgl32.Mat4
	Proj    mgl32.Mat4
	Frustum *graphics.Frustum
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
