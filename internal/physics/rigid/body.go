package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/physics"
)

// Body is a rigid body owned by a World.
type Body struct {
	id    int
	shape physics.Shape

	// half is the collision box for boxes and cylinders.
	half   mgl64.Vec3
	radius float64
	height float64
	// bound is the bounding sphere radius used by the broad phase.
	bound float64

	pos    mgl64.Vec3
	rot    mgl64.Quat
	vel    mgl64.Vec3
	angVel mgl64.Vec3

	kind       physics.BodyType
	mass       float64
	invMass    float64
	invInertia mgl64.Vec3 // local, diagonal

	material       *physics.Material
	linearDamping  float64
	angularDamping float64

	sleeping bool
	idleTime float64
}

func newBody(id int, desc physics.BodyDesc) *Body {
	rot := desc.Orientation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}
	b := &Body{
		id:             id,
		shape:          desc.Shape,
		half:           desc.HalfExtents,
		radius:         desc.Radius,
		height:         desc.Height,
		pos:            desc.Position,
		rot:            rot.Normalize(),
		mass:           desc.Mass,
		material:       desc.Material,
		linearDamping:  desc.LinearDamping,
		angularDamping: desc.AngularDamping,
	}
	if desc.Mass > 0 && desc.Shape != physics.ShapePlane {
		b.kind = physics.Dynamic
	} else {
		b.kind = physics.Static
	}

	switch b.shape {
	case physics.ShapeSphere:
		b.half = mgl64.Vec3{b.radius, b.radius, b.radius}
		b.bound = b.radius
	case physics.ShapeCylinder:
		// Collides as its bounding box.
		b.half = mgl64.Vec3{b.radius, b.height / 2, b.radius}
		b.bound = b.half.Len()
	case physics.ShapePlane:
		b.bound = math.Inf(1)
	default:
		b.bound = b.half.Len()
	}

	b.UpdateMassProperties()
	return b
}

// Position implements physics.Body.
func (b *Body) Position() mgl64.Vec3 { return b.pos }

// Orientation implements physics.Body.
func (b *Body) Orientation() mgl64.Quat { return b.rot }

// Velocity implements physics.Body.
func (b *Body) Velocity() mgl64.Vec3 { return b.vel }

// AngularVelocity returns the body's spin in world space.
func (b *Body) AngularVelocity() mgl64.Vec3 { return b.angVel }

// SetVelocity implements physics.Body.
func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.vel = v
	b.WakeUp()
}

// Mass implements physics.Body.
func (b *Body) Mass() float64 { return b.mass }

// SetMass implements physics.Body. Call UpdateMassProperties afterwards.
func (b *Body) SetMass(m float64) { b.mass = m }

// Type implements physics.Body.
func (b *Body) Type() physics.BodyType { return b.kind }

// SetType implements physics.Body. Call UpdateMassProperties afterwards.
func (b *Body) SetType(t physics.BodyType) {
	b.kind = t
	if t == physics.Static {
		b.vel = mgl64.Vec3{}
		b.angVel = mgl64.Vec3{}
	}
}

// UpdateMassProperties implements physics.Body.
func (b *Body) UpdateMassProperties() {
	if b.kind == physics.Static || b.mass <= 0 {
		b.invMass = 0
		b.invInertia = mgl64.Vec3{}
		return
	}
	b.invMass = 1 / b.mass

	var inertia mgl64.Vec3
	m := b.mass
	switch b.shape {
	case physics.ShapeSphere:
		i := 0.4 * m * b.radius * b.radius
		inertia = mgl64.Vec3{i, i, i}
	case physics.ShapeCylinder:
		r2 := b.radius * b.radius
		side := m / 12 * (3*r2 + b.height*b.height)
		inertia = mgl64.Vec3{side, 0.5 * m * r2, side}
	default:
		x, y, z := b.half[0]*b.half[0], b.half[1]*b.half[1], b.half[2]*b.half[2]
		inertia = mgl64.Vec3{m / 3 * (y + z), m / 3 * (x + z), m / 3 * (x + y)}
	}
	for i := 0; i < 3; i++ {
		if inertia[i] > 0 {
			b.invInertia[i] = 1 / inertia[i]
		}
	}
}

// WakeUp implements physics.Body.
func (b *Body) WakeUp() {
	b.sleeping = false
	b.idleTime = 0
}

// Sleeping reports whether the body has been put to sleep.
func (b *Body) Sleeping() bool { return b.sleeping }

func (b *Body) dynamic() bool {
	return b.kind == physics.Dynamic && b.invMass > 0
}

func (b *Body) axes() [3]mgl64.Vec3 {
	m := b.rot.Mat4().Mat3()
	return [3]mgl64.Vec3{m.Col(0), m.Col(1), m.Col(2)}
}

// invInertiaWorld returns R * I⁻¹ * Rᵀ.
func (b *Body) invInertiaWorld() mgl64.Mat3 {
	if !b.dynamic() {
		return mgl64.Mat3{}
	}
	r := b.rot.Mat4().Mat3()
	return r.Mul3(mgl64.Diag3(b.invInertia)).Mul3(r.Transpose())
}

// velocityAt returns the velocity of a world point rigidly attached to b.
func (b *Body) velocityAt(r mgl64.Vec3) mgl64.Vec3 {
	return b.vel.Add(b.angVel.Cross(r))
}

func (b *Body) applyImpulse(impulse, r mgl64.Vec3, invI mgl64.Mat3) {
	if !b.dynamic() {
		return
	}
	b.vel = b.vel.Add(impulse.Mul(b.invMass))
	b.angVel = b.angVel.Add(invI.Mul3x1(r.Cross(impulse)))
}

func (b *Body) integrate(h float64) {
	b.pos = b.pos.Add(b.vel.Mul(h))
	if b.angVel.LenSqr() > 0 {
		spin := mgl64.Quat{W: 0, V: b.angVel.Mul(0.5 * h)}
		b.rot = b.rot.Add(spin.Mul(b.rot)).Normalize()
	}
}
