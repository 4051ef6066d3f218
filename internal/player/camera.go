package player

import "github.com/go-gl/mathgl/mgl64"

// MouseSensitivity is in degrees per pixel.
const MouseSensitivity = 0.1

func (p *Player) HandleMouseMovement(xpos, ypos float64) {
	if p.FirstMouse {
		p.LastMouseX = xpos
		p.LastMouseY = ypos
		p.FirstMouse = false
		return
	}

	xoffset := xpos - p.LastMouseX
	yoffset := p.LastMouseY - ypos
	p.LastMouseX = xpos
	p.LastMouseY = ypos

	p.Camera.Rotate(mgl64.DegToRad(xoffset*MouseSensitivity), mgl64.DegToRad(yoffset*MouseSensitivity))
}
