package wireframe

import (
	_ "embed"

	"spherecraft/internal/graphics"
	renderer "spherecraft/internal/graphics/renderer"
	"spherecraft/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed shaders/wireframe.vert
	wireframeVertShader string
	//go:embed shaders/wireframe.frag
	wireframeFragShader string
)

// Wireframe outlines the voxel the editor ray points at.
type Wireframe struct {
	shader *renderer.Shader
	vao    uint32
	vbo    uint32
	prof   *profiling.Profiler
}

// NewWireframe creates a new wireframe renderable
func NewWireframe(prof *profiling.Profiler) *Wireframe {
	return &Wireframe{prof: prof}
}

// Init initializes the wireframe rendering system
func (w *Wireframe) Init() error {
	var err error
	w.shader, err = renderer.NewShader(wireframeVertShader, wireframeFragShader)
	if err != nil {
		return err
	}

	w.setupWireframeVAO()
	return nil
}

// Render outlines the targeted voxel along its projected edges.
func (w *Wireframe) Render(ctx renderer.RenderContext) {
	if !ctx.Target.Hit {
		return
	}
	defer w.prof.Track("renderer.renderHighlightedBlock")()

	verts := graphics.OutlineVertices(ctx.World.Sphere(), ctx.World.Rebaser(), ctx.Target.BlockPos, ctx.Observer, 1.01)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	w.renderHighlightedBlock(ctx.View, ctx.Proj)
}

// SetViewport is a no-op for world-space overlays.
func (w *Wireframe) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (w *Wireframe) Dispose() {
	if w.vao != 0 {
		gl.DeleteVertexArrays(1, &w.vao)
	}
	if w.vbo != 0 {
		gl.DeleteBuffers(1, &w.vbo)
	}
	if w.shader != nil {
		w.shader.Delete()
	}
}

func (w *Wireframe) setupWireframeVAO() {
	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)

	// Refilled every frame with the target's projected edges
	gl.BufferData(gl.ARRAY_BUFFER, graphics.OutlineVertexCount*3*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
}

func (w *Wireframe) renderHighlightedBlock(view, projection mgl32.Mat4) {
	w.shader.Use()
	w.shader.SetMatrix4("proj", &projection[0])
	w.shader.SetMatrix4("view", &view[0])
	w.shader.SetVector3("color", 0.0, 0.0, 0.0) // Black outline

	gl.BindVertexArray(w.vao)
	gl.LineWidth(1.0)
	gl.DrawArrays(gl.LINES, 0, graphics.OutlineVertexCount)
}
