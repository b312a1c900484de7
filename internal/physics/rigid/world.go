// Package rigid is a compact impulse-based rigid-body solver implementing
// the physics contract. It handles boxes, spheres, cylinders (collided as
// their bounding box), a horizontal ground plane and hinge joints.
package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/physics"
)

// Config tunes the solver.
type Config struct {
	Gravity mgl64.Vec3
	// Substeps splits each Step into smaller integration steps.
	Substeps int
	// Iterations is the number of velocity passes over contacts and joints
	// per substep.
	Iterations int
	// DefaultMaterial applies to every contact involving a body created
	// without a material.
	DefaultMaterial physics.Material

	AllowSleep      bool
	SleepSpeed      float64
	SleepTime       float64
	Baumgarte       float64
	PenetrationSlop float64
}

// DefaultConfig returns the settings used by the domino scene.
func DefaultConfig() Config {
	return Config{
		Gravity:         mgl64.Vec3{0, physics.Gravity, 0},
		Substeps:        4,
		Iterations:      10,
		DefaultMaterial: physics.Material{Friction: 0.8, Restitution: 0},
		SleepSpeed:      0.05,
		SleepTime:       1,
		Baumgarte:       0.2,
		PenetrationSlop: 0.005,
	}
}

type hinge struct {
	a, b   *Body
	desc   physics.HingeDesc
	axisA  mgl64.Vec3
	axisB  mgl64.Vec3
	maxImp float64
}

type pair struct{ a, b int }

// World is the reference physics.World.
type World struct {
	cfg     Config
	bodies  []*Body
	hinges  []*hinge
	exclude map[pair]bool

	time float64
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	if cfg.Substeps < 1 {
		cfg.Substeps = 1
	}
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	return &World{cfg: cfg, exclude: make(map[pair]bool)}
}

// Bodies returns the bodies in creation order.
func (w *World) Bodies() []*Body { return w.bodies }

// Time returns the simulated time in seconds.
func (w *World) Time() float64 { return w.time }

// AddBody implements physics.World.
func (w *World) AddBody(desc physics.BodyDesc) physics.Body {
	b := newBody(len(w.bodies), desc)
	w.bodies = append(w.bodies, b)
	return b
}

// AddHinge implements physics.World. Both bodies must come from this world.
func (w *World) AddHinge(a, b physics.Body, desc physics.HingeDesc) {
	ba, okA := a.(*Body)
	bb, okB := b.(*Body)
	if !okA || !okB {
		panic("rigid: hinge bodies belong to another world")
	}
	h := &hinge{
		a:     ba,
		b:     bb,
		desc:  desc,
		axisA: normalizeOr(desc.AxisA, mgl64.Vec3{1, 0, 0}),
		axisB: normalizeOr(desc.AxisB, mgl64.Vec3{1, 0, 0}),
	}
	w.hinges = append(w.hinges, h)
	if !desc.CollideConnected {
		w.exclude[orderedPair(ba.id, bb.id)] = true
	}
}

// Step implements physics.World.
func (w *World) Step(dt float64) {
	h := dt / float64(w.cfg.Substeps)
	for i := 0; i < w.cfg.Substeps; i++ {
		w.substep(h)
	}
	w.time += dt
}

func (w *World) substep(h float64) {
	for _, b := range w.bodies {
		if !b.dynamic() || b.sleeping {
			continue
		}
		b.vel = b.vel.Add(w.cfg.Gravity.Mul(h))
		b.vel = b.vel.Mul(math.Pow(1-b.linearDamping, h))
		b.angVel = b.angVel.Mul(math.Pow(1-b.angularDamping, h))
	}

	contacts := w.detect()
	for _, m := range contacts {
		if m.a.sleeping && m.a.dynamic() && !m.b.sleeping && m.b.dynamic() {
			m.a.WakeUp()
		}
		if m.b.sleeping && m.b.dynamic() && !m.a.sleeping && m.a.dynamic() {
			m.b.WakeUp()
		}
	}

	for _, j := range w.hinges {
		j.maxImp = math.Inf(1)
		if j.desc.MaxForce > 0 {
			j.maxImp = j.desc.MaxForce * h
		}
	}

	for it := 0; it < w.cfg.Iterations; it++ {
		for i := range contacts {
			w.solveContact(&contacts[i], it == 0)
		}
		for _, j := range w.hinges {
			w.solveHinge(j, h)
		}
	}

	for i := range contacts {
		w.correctPosition(&contacts[i])
	}

	for _, b := range w.bodies {
		if !b.dynamic() || b.sleeping {
			continue
		}
		b.integrate(h)
		w.trySleep(b, h)
	}
}

func (w *World) trySleep(b *Body, h float64) {
	if !w.cfg.AllowSleep {
		return
	}
	if b.vel.Len() < w.cfg.SleepSpeed && b.angVel.Len() < w.cfg.SleepSpeed {
		b.idleTime += h
		if b.idleTime > w.cfg.SleepTime {
			b.sleeping = true
			b.vel = mgl64.Vec3{}
			b.angVel = mgl64.Vec3{}
		}
		return
	}
	b.idleTime = 0
}

// detect runs a bounding-sphere broad phase followed by the narrow phase.
func (w *World) detect() []manifold {
	var out []manifold
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if !a.dynamic() && !b.dynamic() {
				continue
			}
			if (a.sleeping || !a.dynamic()) && (b.sleeping || !b.dynamic()) {
				continue
			}
			if w.exclude[pair{a.id, b.id}] {
				continue
			}
			if !math.IsInf(a.bound, 1) && !math.IsInf(b.bound, 1) {
				r := a.bound + b.bound
				if a.pos.Sub(b.pos).LenSqr() > r*r {
					continue
				}
			}
			m, ok := collide(a, b)
			if !ok {
				continue
			}
			m.friction, m.restitution = w.combine(m.a, m.b)
			out = append(out, m)
		}
	}
	return out
}

// combine returns the contact friction and restitution of a pair. A pair
// with a body that has no material uses the world default, otherwise the
// two materials are multiplied.
func (w *World) combine(a, b *Body) (friction, restitution float64) {
	if a.material == nil || b.material == nil {
		d := w.cfg.DefaultMaterial
		return d.Friction, d.Restitution
	}
	return a.material.Friction * b.material.Friction, a.material.Restitution * b.material.Restitution
}

// solveContact applies normal and friction impulses at every point of the
// manifold. Restitution is only applied on the first pass.
func (w *World) solveContact(m *manifold, bounce bool) {
	invIA, invIB := m.a.invInertiaWorld(), m.b.invInertiaWorld()
	n := m.normal
	for _, p := range m.points {
		rA := p.Sub(m.a.pos)
		rB := p.Sub(m.b.pos)
		rel := m.a.velocityAt(rA).Sub(m.b.velocityAt(rB))
		vn := rel.Dot(n)
		if vn >= 0 {
			continue
		}

		k := effectiveMass(m.a, m.b, invIA, invIB, rA, rB, n)
		if k <= 0 {
			continue
		}
		e := 0.0
		if bounce && vn < -1 {
			e = m.restitution
		}
		jn := -(1 + e) * vn / k / float64(len(m.points))
		m.a.applyImpulse(n.Mul(jn), rA, invIA)
		m.b.applyImpulse(n.Mul(-jn), rB, invIB)

		rel = m.a.velocityAt(rA).Sub(m.b.velocityAt(rB))
		tangent := rel.Sub(n.Mul(rel.Dot(n)))
		if tangent.LenSqr() < 1e-12 {
			continue
		}
		tangent = tangent.Normalize()
		kt := effectiveMass(m.a, m.b, invIA, invIB, rA, rB, tangent)
		if kt <= 0 {
			continue
		}
		jt := -rel.Dot(tangent) / kt
		limit := m.friction * jn
		jt = math.Max(-limit, math.Min(limit, jt))
		m.a.applyImpulse(tangent.Mul(jt), rA, invIA)
		m.b.applyImpulse(tangent.Mul(-jt), rB, invIB)
	}
}

func effectiveMass(a, b *Body, invIA, invIB mgl64.Mat3, rA, rB, dir mgl64.Vec3) float64 {
	k := a.invMass + b.invMass
	ra := invIA.Mul3x1(rA.Cross(dir)).Cross(rA)
	rb := invIB.Mul3x1(rB.Cross(dir)).Cross(rB)
	return k + dir.Dot(ra.Add(rb))
}

// correctPosition pushes penetrating bodies apart in proportion to their
// inverse masses.
func (w *World) correctPosition(m *manifold) {
	total := m.a.invMass + m.b.invMass
	if total == 0 {
		return
	}
	depth := m.depth - w.cfg.PenetrationSlop
	if depth <= 0 {
		return
	}
	corr := m.normal.Mul(depth * w.cfg.Baumgarte / total)
	if m.a.dynamic() {
		m.a.pos = m.a.pos.Add(corr.Mul(m.a.invMass))
	}
	if m.b.dynamic() {
		m.b.pos = m.b.pos.Sub(corr.Mul(m.b.invMass))
	}
}

// solveHinge keeps the two pivots together and removes relative spin
// perpendicular to the hinge axis.
func (w *World) solveHinge(j *hinge, h float64) {
	a, b := j.a, j.b
	if !a.dynamic() && !b.dynamic() {
		return
	}
	invIA, invIB := a.invInertiaWorld(), b.invInertiaWorld()

	rA := a.rot.Rotate(j.desc.PivotA)
	rB := b.rot.Rotate(j.desc.PivotB)
	drift := a.pos.Add(rA).Sub(b.pos.Add(rB))

	rel := a.velocityAt(rA).Sub(b.velocityAt(rB))
	target := rel.Add(drift.Mul(w.cfg.Baumgarte / h)).Mul(-1)

	k := mgl64.Ident3().Mul(a.invMass + b.invMass)
	k = k.Sub(skew(rA).Mul3(invIA).Mul3(skew(rA)))
	k = k.Sub(skew(rB).Mul3(invIB).Mul3(skew(rB)))
	if math.Abs(k.Det()) > 1e-12 {
		imp := clampLen(k.Inv().Mul3x1(target), j.maxImp)
		a.applyImpulse(imp, rA, invIA)
		b.applyImpulse(imp.Mul(-1), rB, invIB)
	}

	axisA := a.rot.Rotate(j.axisA)
	axisB := b.rot.Rotate(j.axisB)
	wRel := a.angVel.Sub(b.angVel)
	perp := wRel.Sub(axisA.Mul(wRel.Dot(axisA)))
	goal := axisB.Cross(axisA).Mul(-w.cfg.Baumgarte / h).Sub(perp)

	kAng := invIA.Add(invIB)
	if math.Abs(kAng.Det()) > 1e-12 {
		ang := clampLen(kAng.Inv().Mul3x1(goal), j.maxImp)
		if a.dynamic() {
			a.angVel = a.angVel.Add(invIA.Mul3x1(ang))
		}
		if b.dynamic() {
			b.angVel = b.angVel.Sub(invIB.Mul3x1(ang))
		}
	}
}

func skew(v mgl64.Vec3) mgl64.Mat3 {
	// Column-major.
	return mgl64.Mat3{
		0, v[2], -v[1],
		-v[2], 0, v[0],
		v[1], -v[0], 0,
	}
}

func clampLen(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if l := v.Len(); l > max {
		return v.Mul(max / l)
	}
	return v
}

func normalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if v.LenSqr() < 1e-12 {
		return fallback
	}
	return v.Normalize()
}

func orderedPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}
