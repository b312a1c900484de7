package rigid

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/physics"
)

const frame = 1.0 / 60

func newGroundWorld() *World {
	w := NewWorld(DefaultConfig())
	w.AddBody(physics.BodyDesc{Shape: physics.ShapePlane})
	return w
}

func run(w *World, frames int) {
	for i := 0; i < frames; i++ {
		w.Step(frame)
	}
}

func TestSphereSettlesOnGround(t *testing.T) {
	w := newGroundWorld()
	ball := w.AddBody(physics.BodyDesc{
		Shape:    physics.ShapeSphere,
		Radius:   0.5,
		Mass:     3,
		Position: mgl64.Vec3{0, 3, 0},
	})

	run(w, 240)

	if y := ball.Position().Y(); math.Abs(y-0.5) > 0.05 {
		t.Errorf("sphere rest height = %.3f, want ~0.5", y)
	}
	if s := physics.Speed(ball); s > 0.1 {
		t.Errorf("sphere still moving at %.3f m/s", s)
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	w := newGroundWorld()
	start := mgl64.Vec3{1, 2, 3}
	plank := w.AddBody(physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: mgl64.Vec3{1, 0.1, 5},
		Position:    start,
	})
	w.AddBody(physics.BodyDesc{
		Shape:    physics.ShapeSphere,
		Radius:   0.5,
		Mass:     3,
		Position: mgl64.Vec3{1, 3, 3},
	})

	run(w, 120)

	if plank.Type() != physics.Static {
		t.Fatalf("zero-mass body type = %v, want static", plank.Type())
	}
	if plank.Position() != start {
		t.Errorf("static plank moved to %v", plank.Position())
	}
}

func TestBoxRestsUpright(t *testing.T) {
	w := newGroundWorld()
	box := w.AddBody(physics.BodyDesc{
		Shape:          physics.ShapeBox,
		HalfExtents:    mgl64.Vec3{0.3, 0.5, 0.05},
		Mass:           1.5,
		Position:       mgl64.Vec3{0, 0.5, 0},
		LinearDamping:  0.1,
		AngularDamping: 0.1,
	})

	run(w, 120)

	if up := physics.Up(box); up.Y() < 0.99 {
		t.Errorf("resting box tilted, up = %v", up)
	}
	if y := box.Position().Y(); math.Abs(y-0.5) > 0.05 {
		t.Errorf("box centre height = %.3f, want ~0.5", y)
	}
}

func TestTippedBoxFallsOver(t *testing.T) {
	w := newGroundWorld()
	box := w.AddBody(physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: mgl64.Vec3{0.3, 0.5, 0.05},
		Mass:        1.5,
		Position:    mgl64.Vec3{0, 0.6, 0},
		Orientation: mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0}),
	})

	run(w, 180)

	if up := physics.Up(box); up.Y() >= 0.7 {
		t.Errorf("tipped box still standing, up = %v", up)
	}
}

func TestDominoRowTopples(t *testing.T) {
	w := newGroundWorld()
	wood := &physics.Material{Friction: 0.1, Restitution: 0.1}
	const count = 10

	row := make([]physics.Body, count)
	for i := range row {
		desc := physics.BodyDesc{
			Shape:          physics.ShapeBox,
			HalfExtents:    mgl64.Vec3{0.3, 0.5, 0.05},
			Mass:           1.5,
			Material:       wood,
			Position:       mgl64.Vec3{0, 0.5, float64(i) * 0.9},
			LinearDamping:  0.1,
			AngularDamping: 0.1,
		}
		if i == 0 {
			// Leaning toward the rest of the row.
			desc.Orientation = mgl64.QuatRotate(0.35, mgl64.Vec3{1, 0, 0})
		}
		row[i] = w.AddBody(desc)
	}

	run(w, 600)

	for i, b := range row {
		if up := physics.Up(b); up.Y() >= 0.7 {
			t.Errorf("domino %d still standing, up = %v", i, up)
		}
	}
}

func TestStaticToDynamicSwitch(t *testing.T) {
	w := NewWorld(DefaultConfig())
	gate := w.AddBody(physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: mgl64.Vec3{0.5, 0.75, 0.25},
		Position:    mgl64.Vec3{0, 10, 0},
	})

	run(w, 30)
	if gate.Position().Y() != 10 {
		t.Fatalf("static gate moved before switch: %v", gate.Position())
	}

	gate.SetType(physics.Dynamic)
	gate.SetMass(15)
	gate.UpdateMassProperties()
	run(w, 30)

	if gate.Position().Y() >= 10 {
		t.Errorf("dynamic gate did not fall: %v", gate.Position())
	}
	if gate.Mass() != 15 {
		t.Errorf("gate mass = %v, want 15", gate.Mass())
	}
}

func TestHingeHoldsPivot(t *testing.T) {
	w := NewWorld(DefaultConfig())
	anchor := w.AddBody(physics.BodyDesc{
		Shape:    physics.ShapeSphere,
		Radius:   0.1,
		Position: mgl64.Vec3{0, 5, 0},
	})
	arm := w.AddBody(physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: mgl64.Vec3{0.1, 0.5, 0.1},
		Mass:        1,
		Position:    mgl64.Vec3{0, 4.5, 0},
	})
	w.AddHinge(anchor, arm, physics.HingeDesc{
		PivotB: mgl64.Vec3{0, 0.5, 0},
		AxisA:  mgl64.Vec3{1, 0, 0},
		AxisB:  mgl64.Vec3{1, 0, 0},
	})
	arm.SetVelocity(mgl64.Vec3{0, 0, 2})

	run(w, 120)

	pivot := arm.Position().Add(arm.Orientation().Rotate(mgl64.Vec3{0, 0.5, 0}))
	if d := pivot.Sub(anchor.Position()).Len(); d > 0.05 {
		t.Errorf("hinge drifted %.3f from anchor", d)
	}
	// Swinging about X must not spin the arm about Y or Z.
	axis := arm.Orientation().Rotate(mgl64.Vec3{1, 0, 0})
	if axis.X() < 0.99 {
		t.Errorf("hinge axis wandered to %v", axis)
	}
}

func TestHingeExcludesConnectedContacts(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := w.AddBody(physics.BodyDesc{Shape: physics.ShapeBox, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}})
	b := w.AddBody(physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5},
		Mass:        1,
		Position:    mgl64.Vec3{0, 0.5, 0},
	})
	w.AddHinge(a, b, physics.HingeDesc{PivotB: mgl64.Vec3{0, -0.5, 0}})

	if got := w.detect(); len(got) != 0 {
		t.Errorf("hinged pair produced %d contacts, want 0", len(got))
	}
}

func TestCombineMaterials(t *testing.T) {
	w := NewWorld(DefaultConfig())
	plain := w.AddBody(physics.BodyDesc{Mass: 1}).(*Body)
	other := w.AddBody(physics.BodyDesc{Mass: 1}).(*Body)
	wood := w.AddBody(physics.BodyDesc{Mass: 1, Material: &physics.Material{Friction: 0.5, Restitution: 0.5}}).(*Body)
	ball := w.AddBody(physics.BodyDesc{Mass: 1, Material: &physics.Material{Friction: 0.3, Restitution: 0.4}}).(*Body)

	tests := []struct {
		name         string
		a, b         *Body
		wantFriction float64
		wantRest     float64
	}{
		{"defaults", plain, other, 0.8, 0},
		{"both set", wood, ball, 0.15, 0.2},
		{"one set uses default", wood, plain, 0.8, 0},
		{"one set reversed", plain, ball, 0.8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, r := w.combine(tt.a, tt.b)
			if math.Abs(f-tt.wantFriction) > 1e-9 || math.Abs(r-tt.wantRest) > 1e-9 {
				t.Errorf("combine = (%v, %v), want (%v, %v)", f, r, tt.wantFriction, tt.wantRest)
			}
		})
	}
}

func TestCollideBoxesSeparated(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := w.AddBody(physics.BodyDesc{Shape: physics.ShapeBox, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}, Mass: 1}).(*Body)
	b := w.AddBody(physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5},
		Mass:        1,
		Position:    mgl64.Vec3{0.9, 0, 0},
	}).(*Body)

	m, ok := collideBoxes(a, b)
	if !ok {
		t.Fatal("overlapping boxes not detected")
	}
	if !m.normal.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("normal = %v, want (-1,0,0)", m.normal)
	}
	if math.Abs(m.depth-0.1) > 1e-9 {
		t.Errorf("depth = %v, want 0.1", m.depth)
	}

	b.pos = mgl64.Vec3{1.1, 0, 0}
	if _, ok := collideBoxes(a, b); ok {
		t.Error("separated boxes reported a contact")
	}
}

func TestCylinderMassProperties(t *testing.T) {
	w := NewWorld(DefaultConfig())
	roller := w.AddBody(physics.BodyDesc{
		Shape:  physics.ShapeCylinder,
		Radius: 0.5,
		Height: 1,
		Mass:   2.8,
	}).(*Body)

	if roller.half != (mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("cylinder collision box = %v", roller.half)
	}
	want := 1 / (0.5 * 2.8 * 0.25)
	if math.Abs(roller.invInertia.Y()-want) > 1e-9 {
		t.Errorf("axial inverse inertia = %v, want %v", roller.invInertia.Y(), want)
	}
}
