// Package physics defines the rigid-body contract the simulation drives.
//
// The simulation only ever talks to a World and the Body handles it hands
// out. The reference implementation lives in physics/rigid; tests use the
// fakes in physics/physicstest.
package physics

import "github.com/go-gl/mathgl/mgl64"

// Gravity is the default downward acceleration in m/s².
const Gravity = -9.82

// BodyType tells the solver whether a body responds to forces.
type BodyType int

const (
	// Dynamic bodies are integrated every step.
	Dynamic BodyType = iota
	// Static bodies never move and behave as if their mass were infinite.
	Static
)

// String returns the body type name.
func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// Shape is the collision primitive of a body.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeSphere
	ShapeCylinder
	// ShapePlane is an infinite horizontal half-space whose surface sits at
	// the body's Y coordinate.
	ShapePlane
)

// Material holds surface response coefficients. Two touching materials
// combine by multiplication; a body without one takes the world default.
type Material struct {
	Friction    float64
	Restitution float64
}

// BodyDesc describes a body to create.
type BodyDesc struct {
	Shape Shape

	// HalfExtents is used by ShapeBox.
	HalfExtents mgl64.Vec3
	// Radius is used by ShapeSphere and ShapeCylinder.
	Radius float64
	// Height is the full length of a cylinder along its local Y axis.
	Height float64

	// Mass of zero creates a static body.
	Mass        float64
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	// Material nil falls back to the world's default contact material.
	Material       *Material
	LinearDamping  float64
	AngularDamping float64
}

// HingeDesc joins two bodies at a shared pivot so they may only rotate
// relative to one another about a single axis.
type HingeDesc struct {
	// PivotA and PivotB are in the local frames of the two bodies.
	PivotA, PivotB mgl64.Vec3
	// AxisA and AxisB are in the local frames of the two bodies.
	AxisA, AxisB mgl64.Vec3
	// CollideConnected enables contacts between the hinged pair.
	CollideConnected bool
	// MaxForce caps the constraint force. Zero means unbounded.
	MaxForce float64
}

// Body is a handle to a simulated rigid body.
type Body interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)

	Mass() float64
	SetMass(m float64)
	Type() BodyType
	SetType(t BodyType)
	// UpdateMassProperties recomputes inverse mass and inertia after a
	// mass or type change.
	UpdateMassProperties()
	WakeUp()
}

// World owns bodies and constraints and advances them in time.
type World interface {
	AddBody(desc BodyDesc) Body
	AddHinge(a, b Body, desc HingeDesc)
	Step(dt float64)
}

// Speed returns the magnitude of a body's linear velocity.
func Speed(b Body) float64 {
	return b.Velocity().Len()
}

// Up returns the body's local +Y axis in world space.
func Up(b Body) mgl64.Vec3 {
	return b.Orientation().Rotate(mgl64.Vec3{0, 1, 0})
}

// YawQuat returns a rotation of angle radians about +Y.
func YawQuat(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0})
}
