package main

import (
	"log"

	"spherecraft/internal/config"
	"spherecraft/internal/graphics"
	"spherecraft/internal/graphics/renderables/blocks"
	"spherecraft/internal/graphics/renderables/crosshair"
	"spherecraft/internal/graphics/renderables/wireframe"
	renderer "spherecraft/internal/graphics/renderer"
	"spherecraft/internal/input"
	"spherecraft/internal/player"
	"spherecraft/internal/profiling"
	"spherecraft/internal/telemetry"
	"spherecraft/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
)

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(900, 600, "spherecraft", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Disable V-Sync; we'll use our own FPS limiter
	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

// GameComponents holds all the initialized game components
type GameComponents struct {
	Renderer *renderer.Renderer
	Blocks   *blocks.Blocks
	Player   *player.Player
	Render   *config.RenderSettings
}

func setupGame(window *glfw.Window, w *world.World, settings config.Settings, prof *profiling.Profiler, logger *log.Logger) (*GameComponents, error) {
	fbW, fbH := window.GetFramebufferSize()
	camera := graphics.NewCamera(fbW, fbH)
	rs := config.NewRenderSettings(settings.RenderDistance)

	// Initialize renderable features
	blocksRenderer := blocks.NewBlocks(rs, prof, logger)
	wireframeRenderer := wireframe.NewWireframe(prof)
	crosshairRenderer := crosshair.NewCrosshair(prof)

	r, err := renderer.NewRenderer(camera, blocksRenderer, wireframeRenderer, crosshairRenderer)
	if err != nil {
		return nil, err
	}
	r.UpdateViewport(fbW, fbH)

	// Stand on the north pole and load the neighbourhood before the first frame
	p := player.New(w, camera, prof)
	p.Spawn(mgl64.Vec3{0, 1, 0})
	for i := 0; i < 64; i++ {
		w.Update(p.GetEyePosition())
		if w.Stats().Deferred == 0 {
			break
		}
	}

	return &GameComponents{Renderer: r, Blocks: blocksRenderer, Player: p, Render: rs}, nil
}

func runWindowed(w *world.World, hub *telemetry.Hub, settings config.Settings, prof *profiling.Profiler, logger *log.Logger, fpsLimit int) {
	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		panic(err)
	}

	game, err := setupGame(window, w, settings, prof, logger)
	if err != nil {
		panic(err)
	}
	defer game.Renderer.Dispose()

	controls := input.NewControls(nil)
	loop := NewGameLoop(window, game, w, controls, hub, prof, logger, fpsLimit)
	setupInputHandlers(window, loop, game.Renderer, game.Player, controls)

	loop.Run()
}
