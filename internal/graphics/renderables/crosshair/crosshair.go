package crosshair

import (
	_ "embed"

	renderer "spherecraft/internal/graphics/renderer"
	"spherecraft/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	//go:embed shaders/crosshair.vert
	vertShader string
	//go:embed shaders/crosshair.frag
	fragShader string
)

var Vertices = []float32{
	-0.02, 0.0,
	0.02, 0.0,
	0.0, -0.02,
	0.0, 0.02,
}

// Crosshair implements crosshair rendering
type Crosshair struct {
	shader *renderer.Shader
	vao    uint32
	vbo    uint32
	prof   *profiling.Profiler
}

// NewCrosshair creates a new crosshair renderable
func NewCrosshair(prof *profiling.Profiler) *Crosshair {
	return &Crosshair{prof: prof}
}

// Init initializes the crosshair rendering system
func (c *Crosshair) Init() error {
	var err error
	c.shader, err = renderer.NewShader(vertShader, fragShader)
	if err != nil {
		return err
	}

	c.setupCrosshairVAO()
	return nil
}

// Render renders the crosshair
func (c *Crosshair) Render(ctx renderer.RenderContext) {
	defer c.prof.Track("renderer.renderCrosshair")()
	c.renderCrosshair(ctx.Camera.AspectRatio)
}

// SetViewport is a no-op; the aspect ratio is read from the camera each frame.
func (c *Crosshair) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (c *Crosshair) Dispose() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	if c.shader != nil {
		c.shader.Delete()
	}
}

func (c *Crosshair) setupCrosshairVAO() {
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)

	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(Vertices)*4, gl.Ptr(Vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindVertexArray(0)
}

func (c *Crosshair) renderCrosshair(aspectRatio float32) {
	c.shader.Use()
	c.shader.SetFloat("aspectRatio", aspectRatio)

	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)
	gl.BindVertexArray(c.vao)
	gl.LineWidth(1.0)
	gl.DrawArrays(gl.LINES, 0, 4)
}
