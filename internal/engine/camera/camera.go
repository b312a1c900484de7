// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/domino-cascade/pkg/math"
)

// Lens holds the perspective projection parameters shared by all cameras.
type Lens struct {
	FovY float32 // Vertical field of view (radians)
	Near float32
	Far  float32
}

// DefaultLens returns a 75 degree lens.
func DefaultLens() Lens {
	return Lens{
		FovY: float32(75 * gomath.Pi / 180),
		Near: 0.1,
		Far:  1000,
	}
}

// Projection returns the projection matrix for the given aspect ratio.
func (l Lens) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(l.FovY, aspect, l.Near, l.Far)
}

// View is everything a renderer needs from a camera for one frame.
type View struct {
	Eye        math.Vec3
	View       math.Mat4
	Projection math.Mat4
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera placed at eye and looking at center.
func NewOrbitCamera(eye, center math.Vec3) *OrbitCamera {
	c := &OrbitCamera{
		Center:          center,
		MinDistance:     2.0,
		MaxDistance:     200.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.LookFrom(eye)
	return c
}

// LookFrom sets the spherical coordinates so the camera sits at eye.
func (c *OrbitCamera) LookFrom(eye math.Vec3) {
	d := eye.Sub(c.Center)
	c.Distance = d.Length()
	if c.Distance == 0 {
		c.Distance = c.MinDistance
		return
	}
	c.RotationX = float32(gomath.Asin(float64(d.Y / c.Distance)))
	c.RotationY = float32(gomath.Atan2(float64(d.X), float64(d.Z)))
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// View returns the frame view for the given lens and aspect ratio.
func (c *OrbitCamera) View(lens Lens, aspect float32) View {
	return View{
		Eye:        c.Position(),
		View:       c.ViewMatrix(),
		Projection: lens.Projection(aspect),
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FollowCamera is a free camera whose position and look-at point are
// driven from outside, typically by a follow tracker.
type FollowCamera struct {
	Position math.Vec3
	Target   math.Vec3
}

// NewFollowCamera creates a follow camera at pos looking at the origin.
func NewFollowCamera(pos math.Vec3) *FollowCamera {
	return &FollowCamera{Position: pos}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FollowCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, math.Up)
}

// View returns the frame view for the given lens and aspect ratio.
func (c *FollowCamera) View(lens Lens, aspect float32) View {
	return View{
		Eye:        c.Position,
		View:       c.ViewMatrix(),
		Projection: lens.Projection(aspect),
	}
}
