// Package physicstest provides scriptable in-memory fakes of the physics
// contract for tests.
package physicstest

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/physics"
)

// Body is a physics.Body whose state tests set directly.
type Body struct {
	Desc physics.BodyDesc

	Pos  mgl64.Vec3
	Rot  mgl64.Quat
	Vel  mgl64.Vec3
	M    float64
	Kind physics.BodyType

	MassUpdates int
	Wakes       int
}

// NewBody creates a fake body from a description the same way a world would.
func NewBody(desc physics.BodyDesc) *Body {
	rot := desc.Orientation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}
	kind := physics.Dynamic
	if desc.Mass == 0 {
		kind = physics.Static
	}
	return &Body{
		Desc: desc,
		Pos:  desc.Position,
		Rot:  rot,
		M:    desc.Mass,
		Kind: kind,
	}
}

func (b *Body) Position() mgl64.Vec3       { return b.Pos }
func (b *Body) Orientation() mgl64.Quat    { return b.Rot }
func (b *Body) Velocity() mgl64.Vec3       { return b.Vel }
func (b *Body) SetVelocity(v mgl64.Vec3)   { b.Vel = v }
func (b *Body) Mass() float64              { return b.M }
func (b *Body) SetMass(m float64)          { b.M = m }
func (b *Body) Type() physics.BodyType     { return b.Kind }
func (b *Body) SetType(t physics.BodyType) { b.Kind = t }
func (b *Body) UpdateMassProperties()      { b.MassUpdates++ }
func (b *Body) WakeUp()                    { b.Wakes++ }

// Hinge records an AddHinge call.
type Hinge struct {
	A, B physics.Body
	Desc physics.HingeDesc
}

// World records everything added to it and counts steps. Bodies never move
// unless OnStep changes them.
type World struct {
	Bodies []*Body
	Hinges []Hinge
	Steps  int
	LastDt float64

	// OnStep, when set, runs after each step is counted.
	OnStep func(w *World, dt float64)
}

// NewWorld returns an empty fake world.
func NewWorld() *World {
	return &World{}
}

// AddBody implements physics.World.
func (w *World) AddBody(desc physics.BodyDesc) physics.Body {
	b := NewBody(desc)
	w.Bodies = append(w.Bodies, b)
	return b
}

// AddHinge implements physics.World.
func (w *World) AddHinge(a, b physics.Body, desc physics.HingeDesc) {
	w.Hinges = append(w.Hinges, Hinge{A: a, B: b, Desc: desc})
}

// Step implements physics.World.
func (w *World) Step(dt float64) {
	w.Steps++
	w.LastDt = dt
	if w.OnStep != nil {
		w.OnStep(w, dt)
	}
}

// Find returns the first recorded body whose description matches, or nil.
func (w *World) Find(match func(physics.BodyDesc) bool) *Body {
	for _, b := range w.Bodies {
		if match(b.Desc) {
			return b
		}
	}
	return nil
}
