package blocks

import (
	_ "embed"
	"fmt"
	"log"

	"spherecraft/internal/block"
	"spherecraft/internal/config"
	"spherecraft/internal/graphics"
	renderer "spherecraft/internal/graphics/renderer"
	"spherecraft/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed shaders/main.vert
	mainVertShader string
	//go:embed shaders/main.frag
	mainFragShader string
)

// Blocks implements chunk rendering on top of graphics.ChunkRenderer.
type Blocks struct {
	mainShader *renderer.Shader
	chunks     *graphics.ChunkRenderer

	settings *config.RenderSettings
	prof     *profiling.Profiler
	log      *log.Logger

	// Wireframe draws chunk meshes as lines.
	Wireframe bool
	last      graphics.FrameStats
}

// NewBlocks creates a new blocks renderable
func NewBlocks(settings *config.RenderSettings, prof *profiling.Profiler, logger *log.Logger) *Blocks {
	return &Blocks{settings: settings, prof: prof, log: logger}
}

// Init compiles the chunk shader and sets up the GPU backend.
func (b *Blocks) Init() error {
	var err error
	b.mainShader, err = renderer.NewShader(mainVertShader, mainFragShader)
	if err != nil {
		return err
	}

	// Static palette indexed by block type
	b.mainShader.Use()
	for _, t := range []block.Type{block.Air, block.Dirt, block.Grass, block.Stone} {
		b.mainShader.SetVec3(fmt.Sprintf("palette[%d]", t), block.GetBlockColor(t))
	}

	b.chunks = graphics.NewChunkRenderer(renderer.NewGLBackend(b.mainShader), b.settings, b.prof, b.log)
	return nil
}

// Render draws every resident chunk in range.
func (b *Blocks) Render(ctx renderer.RenderContext) {
	if b.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	func() {
		defer b.prof.Track("renderer.renderBlocks.shaderSetup")()
		b.mainShader.Use()
		b.mainShader.SetMatrix4("proj", &ctx.Proj[0])
		b.mainShader.SetMatrix4("view", &ctx.View[0])

		// Sun roughly overhead of the observer
		_, right, up := ctx.Camera.Frame(ctx.Observer)
		light := up.Add(right.Mul(0.3)).Normalize()
		b.mainShader.SetVec3("lightDir", mgl32.Vec3{float32(light.X()), float32(light.Y()), float32(light.Z())})
	}()

	b.last = b.chunks.Render(ctx.World, ctx.Observer, ctx.Frustum)
}

// LastFrame returns the statistics of the most recent Render.
func (b *Blocks) LastFrame() graphics.FrameStats { return b.last }

// SetViewport is a no-op; the projection lives on the camera.
func (b *Blocks) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (b *Blocks) Dispose() {
	if b.chunks != nil {
		b.chunks.Dispose()
	}
	if b.mainShader != nil {
		b.mainShader.Delete()
	}
}
