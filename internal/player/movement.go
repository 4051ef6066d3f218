package player

import (
	"math"

	"spherecraft/internal/graphics"
	"spherecraft/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// Intent is one frame of movement input, already mapped from keys.
type Intent struct {
	Forward  float64 // -1 back, +1 forward
	Strafe   float64 // -1 left, +1 right
	Vertical float64 // flight only: -1 down, +1 up
	Jump     bool
	Sprint   bool
}

// UpdatePosition advances the player by dt seconds. Lateral motion follows
// the curvature at constant radius; radial motion is gravity while walking
// and direct control while flying.
func (p *Player) UpdatePosition(dt float64, in Intent) {
	defer p.prof.Track("player.Update.Position")()
	if dt <= 0 {
		return
	}

	up := p.Up()
	forward, _, _ := p.Camera.Frame(p.Position)
	heading := forward.Sub(up.Mul(forward.Dot(up)))
	if heading.Len() < 1e-9 {
		heading, _ = graphics.Tangents(up)
	} else {
		heading = heading.Normalize()
	}
	right := heading.Cross(up)

	wish := heading.Mul(in.Forward).Add(right.Mul(in.Strafe))
	if l := wish.Len(); l > 1 {
		wish = wish.Mul(1 / l)
	}

	speed := WalkSpeed
	if p.Mode == ModeFly {
		speed = FlySpeed
	}
	if in.Sprint && in.Forward > 0 {
		speed *= SprintMultiplier
	}
	p.moveLateral(wish.Mul(speed * dt))

	var dr float64
	if p.Mode == ModeFly {
		p.RadialVelocity = 0
		dr = in.Vertical * speed * dt
	} else {
		if p.OnGround && in.Jump {
			p.RadialVelocity = JumpVelocity
			p.OnGround = false
		}
		p.RadialVelocity = math.Max(p.RadialVelocity-Gravity*dt, TerminalVelocity)
		dr = p.RadialVelocity * dt
	}
	p.moveRadial(dr)
}

func (p *Player) collides(pos mgl64.Vec3) bool {
	return p.query.CollidesBox(pos, physics.BodyHalfWidth, physics.BodyHeight)
}

// blocked also probes ahead of the eyes along the direction of travel.
func (p *Player) blocked(pos, dir mgl64.Vec3) bool {
	if p.collides(pos) {
		return true
	}
	eye := pos.Add(pos.Normalize().Mul(PlayerEyeHeight))
	return p.query.CheckCollision(eye, dir)
}

// moveLateral moves along delta at the current radius, sliding along
// whichever tangent axis is still free when the full move is blocked.
func (p *Player) moveLateral(delta mgl64.Vec3) {
	if delta.Len() == 0 {
		return
	}
	r := p.Position.Len()
	next := p.Position.Add(delta).Normalize().Mul(r)
	if !p.blocked(next, delta) {
		p.Position = next
		return
	}

	t1, t2 := graphics.Tangents(p.Up())
	for _, axis := range [2]mgl64.Vec3{t1, t2} {
		d := axis.Mul(delta.Dot(axis))
		if d.Len() < 1e-9 {
			continue
		}
		cand := p.Position.Add(d).Normalize().Mul(r)
		if !p.blocked(cand, d) {
			p.Position = cand
		}
	}
}

// moveRadial moves along the local up by dr, landing on the ground below
// or stopping under a ceiling.
func (p *Player) moveRadial(dr float64) {
	up := p.Up()
	r := p.Position.Len()

	switch {
	case dr < 0:
		floor, _ := p.query.GroundRadius(p.Position)
		if r+dr <= floor+groundSkin {
			p.Position = up.Mul(floor + groundSkin)
			p.RadialVelocity = 0
			p.OnGround = true
			return
		}
		p.Position = up.Mul(r + dr)
		p.OnGround = false
	case dr > 0:
		next := up.Mul(r + dr)
		if p.collides(next) {
			p.RadialVelocity = 0
			return
		}
		p.Position = next
		p.OnGround = false
	}
}
