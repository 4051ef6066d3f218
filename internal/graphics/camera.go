package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera handles the view and projection matrices. The view is built at the
// origin of the observer-relative frame, so the eye is always at zero and
// chunk translations carry the observer offset.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	// Yaw and Pitch are in radians, measured in the tangent plane at the observer.
	Yaw   float64
	Pitch float64
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       70.0,
		NearPlane: 0.05,
		FarPlane:  2000.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio.
func (c *Camera) SetViewport(width, height int) {
	if height <= 0 {
		height = 1
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Rotate applies mouse deltas in radians and clamps pitch short of straight up or down.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	limit := math.Pi/2 - 0.01
	c.Pitch = math.Max(-limit, math.Min(limit, c.Pitch+dPitch))
}

// Frame returns the observer's local frame: up is radial, forward and right
// lie in the view direction set by yaw and pitch.
func (c *Camera) Frame(observer mgl64.Vec3) (forward, right, up mgl64.Vec3) {
	up = mgl64.Vec3{0, 1, 0}
	if l := observer.Len(); l > 0 {
		up = observer.Mul(1 / l)
	}
	t1, t2 := Tangents(up)
	heading := t1.Mul(math.Cos(c.Yaw)).Add(t2.Mul(math.Sin(c.Yaw)))
	forward = heading.Mul(math.Cos(c.Pitch)).Add(up.Mul(math.Sin(c.Pitch)))
	right = forward.Cross(up).Normalize()
	return forward, right, up
}

// GetViewMatrix looks along forward from the origin.
func (c *Camera) GetViewMatrix(observer mgl64.Vec3) mgl32.Mat4 {
	f, _, up := c.Frame(observer)
	return mgl32.LookAtV(mgl32.Vec3{}, vec32(f), vec32(up))
}

// Tangents returns two unit vectors perpendicular to up and to each other.
func Tangents(up mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(up.Y()) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	t1 := up.Cross(ref).Normalize()
	return t1, up.Cross(t1)
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X()), float32(v.Y()), float32(v.Z())}
}
