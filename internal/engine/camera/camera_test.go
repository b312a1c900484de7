package camera

import (
	"testing"

	"github.com/Faultbox/domino-cascade/pkg/math"
)

func TestOrbitLookFrom(t *testing.T) {
	eye := math.Vec3{X: 0, Y: 25, Z: 30}
	c := NewOrbitCamera(eye, math.Vec3{})

	if got := c.Position(); got.Distance(eye) > 0.001 {
		t.Errorf("Position = %v, want %v", got, eye)
	}
}

func TestOrbitZoomClamp(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{Z: 10}, math.Vec3{})

	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want clamped to %v", c.Distance, c.MinDistance)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("Distance = %v, want clamped to %v", c.Distance, c.MaxDistance)
	}
}

func TestOrbitDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{Z: 10}, math.Vec3{})
	c.HandleDrag(0, 10000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("RotationX = %v, want %v", c.RotationX, c.MaxPitch)
	}
}

func TestFollowView(t *testing.T) {
	c := NewFollowCamera(math.Vec3{X: -15, Y: 3, Z: -8})
	c.Target = math.Vec3{X: 15}

	v := c.View(DefaultLens(), 16.0/9.0)
	if v.Eye != c.Position {
		t.Errorf("Eye = %v, want %v", v.Eye, c.Position)
	}
	// The look-at target lies on the view axis.
	p := v.View.TransformVec3(c.Target)
	if abs(p.X) > 0.001 || abs(p.Y) > 0.001 || p.Z >= 0 {
		t.Errorf("target in view space = %v, want on -Z axis", p)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
