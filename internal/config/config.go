package config

import "sync"

// RenderSettings holds render configuration shared between the tick loop and the renderer.
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
}

// NewRenderSettings returns settings with the given render distance, clamped.
func NewRenderSettings(distance int) *RenderSettings {
	rs := &RenderSettings{}
	rs.SetRenderDistance(distance)
	return rs
}

// RenderDistance returns the current render distance in chunks
func (rs *RenderSettings) RenderDistance() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.renderDistance
}

// SetRenderDistance sets the render distance in chunks
func (rs *RenderSettings) SetRenderDistance(distance int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	// Clamp to reasonable values
	if distance < 1 {
		distance = 1
	}
	if distance > 64 {
		distance = 64
	}

	rs.renderDistance = distance
}

// MaxRenderRadius returns the radius, in chunks, beyond which chunks are not drawn
func (rs *RenderSettings) MaxRenderRadius() int {
	return rs.RenderDistance()
}
