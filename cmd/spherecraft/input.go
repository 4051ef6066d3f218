package main

import (
	renderer "spherecraft/internal/graphics/renderer"
	"spherecraft/internal/input"
	"spherecraft/internal/player"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupInputHandlers(window *glfw.Window, gameLoop *GameLoop, r *renderer.Renderer, p *player.Player, controls *input.Controls) {
	// Mouse look, ignored while paused
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !gameLoop.paused {
			p.HandleMouseMovement(xpos, ypos)
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		controls.ButtonEvent(button, action)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		if !gameLoop.paused {
			p.HandleScroll(yoff)
		}
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		controls.KeyEvent(key, action)
	})

	// The viewport follows the framebuffer, which differs from the window size on HiDPI displays
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		r.UpdateViewport(fbWidth, fbHeight)
	})

	// Refresh callback (called during window resize to prevent visual glitches)
	window.SetRefreshCallback(func(w *glfw.Window) {
		gameLoop.RefreshRender()
	})
}
