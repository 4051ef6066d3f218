// Package player is the free-moving observer the viewer drives around the
// planet: a walking or flying body that collides with the voxel shell and
// edits blocks along its look ray.
package player

import (
	"math"

	"spherecraft/internal/block"
	"spherecraft/internal/coords"
	"spherecraft/internal/graphics"
	"spherecraft/internal/physics"
	"spherecraft/internal/profiling"
	"spherecraft/internal/spheremath"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	PlayerEyeHeight = 1.62

	Gravity          = 32.0
	TerminalVelocity = -78.4

	WalkSpeed        = 4.3
	FlySpeed         = 10.9
	SprintMultiplier = 1.3

	JumpVelocity = 9.4

	// groundSkin keeps the feet just above the top of the ground shell.
	groundSkin = 1e-4
)

type Mode int

const (
	ModeWalk Mode = iota
	ModeFly
)

func (m Mode) String() string {
	if m == ModeFly {
		return "fly"
	}
	return "walk"
}

type Player struct {
	// Position is the absolute feet position.
	Position       mgl64.Vec3
	RadialVelocity float64
	OnGround       bool
	Mode           Mode

	Camera   *graphics.Camera
	Selected block.Type

	LastMouseX float64
	LastMouseY float64
	FirstMouse bool

	sphere spheremath.Sphere
	query  *physics.CollisionQuery
	editor *physics.Editor
	prof   *profiling.Profiler
}

// New creates a player in w. It does not place it; call Spawn.
func New(w physics.BlockWriter, cam *graphics.Camera, prof *profiling.Profiler) *Player {
	p := &Player{
		Camera:     cam,
		Selected:   block.Stone,
		FirstMouse: true,
		sphere:     w.Sphere(),
		query:      physics.NewCollisionQuery(w, prof),
		editor:     physics.NewEditor(w, prof),
		prof:       prof,
	}
	p.editor.Blocked = p.occupies
	return p
}

// Spawn stands the player on the ground along dir from the planet centre.
func (p *Player) Spawn(dir mgl64.Vec3) {
	if dir.Len() == 0 {
		dir = mgl64.Vec3{0, 1, 0}
	}
	dir = dir.Normalize()
	top := dir.Mul(p.sphere.SurfaceRadius() + p.sphere.Planet().MaxBuildHeight)
	g, _ := p.query.GroundRadius(top)
	p.Position = dir.Mul(g + groundSkin)
	p.RadialVelocity = 0
	p.OnGround = true
}

// Up is the radial direction at the player.
func (p *Player) Up() mgl64.Vec3 {
	if l := p.Position.Len(); l > 0 {
		return p.Position.Mul(1 / l)
	}
	return mgl64.Vec3{0, 1, 0}
}

// GetEyePosition returns the absolute camera position.
func (p *Player) GetEyePosition() mgl64.Vec3 {
	return p.Position.Add(p.Up().Mul(PlayerEyeHeight))
}

// GetFrontVector returns the unit look direction.
func (p *Player) GetFrontVector() mgl64.Vec3 {
	f, _, _ := p.Camera.Frame(p.Position)
	return f
}

// Altitude is the height of the feet above the nominal surface radius.
func (p *Player) Altitude() float64 {
	return p.sphere.ElevationAt(p.Position)
}

// ToggleFlight switches between walking and flying.
func (p *Player) ToggleFlight() {
	if p.Mode == ModeFly {
		p.Mode = ModeWalk
	} else {
		p.Mode = ModeFly
		p.RadialVelocity = 0
	}
}

// occupies reports whether voxel b would overlap the player's body.
func (p *Player) occupies(b coords.BlockPos) bool {
	c := b.Center().Sub(p.Position)
	up := p.Up()
	h := c.Dot(up)
	if h < -0.5 || h > physics.BodyHeight+0.5 {
		return false
	}
	lateral := c.Sub(up.Mul(h)).Len()
	return lateral < physics.BodyHalfWidth+math.Sqrt2/2
}
