package main

import (
	"errors"
	"log"
	"time"

	"spherecraft/internal/config"
	"spherecraft/internal/coords"
	"spherecraft/internal/graphics/renderables/blocks"
	renderer "spherecraft/internal/graphics/renderer"
	"spherecraft/internal/input"
	"spherecraft/internal/physics"
	"spherecraft/internal/player"
	"spherecraft/internal/profiling"
	"spherecraft/internal/telemetry"
	"spherecraft/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// maxFrameDT bounds the simulation step after a stall.
const maxFrameDT = 0.1

// GameLoop manages the main game loop state
type GameLoop struct {
	window    *glfw.Window
	renderer  *renderer.Renderer
	blocks    *blocks.Blocks
	player    *player.Player
	world     *world.World
	renderCfg *config.RenderSettings
	controls  *input.Controls
	hub       *telemetry.Hub

	prof *profiling.Profiler
	log  *log.Logger

	paused     bool
	fpsLimiter *FPSLimiter
	target     physics.RaycastResult

	// Timing
	frames           int
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

// NewGameLoop creates a new game loop with all components
func NewGameLoop(window *glfw.Window, game *GameComponents, w *world.World, controls *input.Controls, hub *telemetry.Hub, prof *profiling.Profiler, logger *log.Logger, fpsLimit int) *GameLoop {
	return &GameLoop{
		window:           window,
		renderer:         game.Renderer,
		blocks:           game.Blocks,
		player:           game.Player,
		world:            w,
		renderCfg:        game.Render,
		controls:         controls,
		hub:              hub,
		prof:             prof,
		log:              logger,
		fpsLimiter:       NewFPSLimiter(fpsLimit),
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
}

// Run starts the main game loop
func (gl *GameLoop) Run() {
	for !gl.window.ShouldClose() {
		gl.tick()
	}
}

func (gl *GameLoop) tick() {
	gl.prof.ResetFrame()
	now := time.Now()
	dt := now.Sub(gl.lastTime).Seconds()
	if dt > maxFrameDT {
		dt = maxFrameDT
	}
	gl.lastTime = now

	// Poll events at start
	func() { defer gl.prof.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	gl.updateGameState(dt)
	gl.processWorldUpdates()
	renderDur := gl.renderFrame()

	func() { defer gl.prof.Track("glfw.SwapBuffers")(); gl.window.SwapBuffers() }()

	// Clear edge flags at end of frame
	gl.controls.EndFrame()

	if total := time.Since(now); total > 16*time.Millisecond && !gl.paused {
		gl.log.Printf("Slow frame: %v (render %v). Top tasks: %s", total, renderDur, gl.prof.TopN(5))
	}

	gl.fpsLimiter.Wait(gl.paused)
}

func (gl *GameLoop) updateGameState(dt float64) {
	gl.handleInputActions()
	if gl.paused {
		return
	}

	c := gl.controls
	intent := c.Intent()
	func() { defer gl.prof.Track("player.Update")(); gl.player.UpdatePosition(dt, intent) }()

	gl.target = gl.player.Target()
	if c.Pressed(input.Break) {
		gl.reportEdit("break", gl.player.BreakBlock)
	}
	if c.Pressed(input.Place) {
		gl.reportEdit("place", gl.player.PlaceBlock)
	}
}

func (gl *GameLoop) reportEdit(what string, edit func() (coords.BlockPos, error)) {
	pos, err := edit()
	switch {
	case err == nil:
		gl.log.Printf("%s %v", what, pos)
	case errors.Is(err, physics.ErrNoTarget):
	default:
		gl.log.Printf("%s %v: %v", what, pos, err)
	}
}

func (gl *GameLoop) handleInputActions() {
	c := gl.controls

	if slot, ok := c.HotbarSlot(); ok {
		gl.player.HandleNumKey(slot)
	}

	if c.Pressed(input.ToggleFlight) {
		gl.player.ToggleFlight()
		gl.log.Printf("mode: %v", gl.player.Mode)
	}

	// Pause Toggle
	if c.Pressed(input.Pause) {
		gl.paused = !gl.paused
		if gl.paused {
			gl.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		} else {
			gl.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			gl.player.FirstMouse = true
		}
	}

	if c.Pressed(input.ToggleWireframe) {
		gl.blocks.Wireframe = !gl.blocks.Wireframe
	}

	if c.Pressed(input.ToggleProfiling) {
		gl.log.Printf("profile: %s", gl.prof.TopN(10))
	}

	if c.Pressed(input.RenderDistanceUp) {
		gl.renderCfg.SetRenderDistance(gl.renderCfg.RenderDistance() + 1)
		gl.log.Printf("render distance %d", gl.renderCfg.RenderDistance())
	}
	if c.Pressed(input.RenderDistanceDown) {
		gl.renderCfg.SetRenderDistance(gl.renderCfg.RenderDistance() - 1)
		gl.log.Printf("render distance %d", gl.renderCfg.RenderDistance())
	}
}

func (gl *GameLoop) processWorldUpdates() {
	if gl.paused {
		return
	}
	gl.world.Update(gl.player.GetEyePosition())
}

func (gl *GameLoop) renderFrame() time.Duration {
	renderStart := time.Now()
	gl.renderer.Render(gl.world, gl.player.GetEyePosition(), gl.target)
	renderDur := time.Since(renderStart)
	gl.frames++

	if time.Since(gl.lastFPSCheckTime) >= time.Second {
		st := gl.world.Stats()
		fs := gl.blocks.LastFrame()
		gl.log.Printf("FPS: %d, altitude %.1f, chunks %d (+%d proxies), drawn %d, culled %d, world %v",
			gl.frames, gl.player.Altitude(), st.Chunks, st.Proxies, fs.Drawn, fs.Culled, gl.prof.SumWithPrefix("world."))
		if gl.hub != nil {
			gl.hub.Publish(st)
		}
		gl.frames = 0
		gl.lastFPSCheckTime = time.Now()
	}

	return renderDur
}

// RefreshRender renders a frame without updating game state (used during window resize)
func (gl *GameLoop) RefreshRender() {
	gl.renderer.Render(gl.world, gl.player.GetEyePosition(), gl.target)
	gl.window.SwapBuffers()
}
