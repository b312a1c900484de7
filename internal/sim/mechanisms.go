package sim

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/physics"
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

var (
	plankColor  = math.ColorHex(0x8b4513)
	seesawColor = math.ColorHex(0x444444)
	gateColor   = math.ColorHex(0x00ffff)
	armColor    = math.ColorHex(0xff0000)
	rollerColor = math.ColorHex(0xff0000)
	ballColor   = math.ColorHex(0xff5500)
	groundColor = math.ColorHex(0xffffff)
)

// Prop is a simulated body outside the domino list. Its mesh is synced when
// it steps.
type Prop struct {
	Body physics.Body
	Mesh *scene.Mesh
}

// Step copies the body pose onto the mesh.
func (p *Prop) Step(*Context) { syncPose(p.Body, p.Mesh) }

// Position implements follow.Subject.
func (p *Prop) Position() math.Vec3 { return p.Mesh.Position }

// Speed implements follow.Subject.
func (p *Prop) Speed() float32 { return float32(physics.Speed(p.Body)) }

// newProp creates a body and its mesh and adds the mesh to the scene.
func (c *Context) newProp(name string, desc physics.BodyDesc, geo scene.Geometry, mat *scene.Material) *Prop {
	body := c.world.AddBody(desc)
	mesh := scene.NewMesh(name, geo, mat)
	syncPose(body, mesh)
	c.Scene.Add(mesh)
	return &Prop{Body: body, Mesh: mesh}
}

// staticBox adds an immovable plank.
func (c *Context) staticBox(name string, size, pos mgl64.Vec3, rot mgl64.Quat, color math.Color) *Prop {
	return c.newProp(name, physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: size.Mul(0.5),
		Position:    pos,
		Orientation: rot,
	}, scene.Box(float32(size.X()), float32(size.Y()), float32(size.Z())),
		scene.NewStandardMaterial(color, 30))
}

func (c *Context) buildGround() *Prop {
	return c.newProp("ground", physics.BodyDesc{Shape: physics.ShapePlane},
		scene.Plane(100, 100), scene.NewStandardMaterial(groundColor, 10))
}

// buildUpperPlank adds the ramp the ball starts on.
func (c *Context) buildUpperPlank() *Prop {
	return c.staticBox("upper-plank", mgl64.Vec3{2, 0.2, 10}, mgl64.Vec3{15, 15, 30}, mgl64.QuatIdent(), plankColor)
}

// Seesaw is a plank hinged at its centre to a static pivot.
type Seesaw struct {
	Prop
	Pivot physics.Body
}

func (c *Context) buildSeesaw() *Seesaw {
	pos := mgl64.Vec3{15, 4.3, -2.9}
	rot := physics.YawQuat(gomath.Pi / 2)
	plank := c.newProp("seesaw", physics.BodyDesc{
		Shape:       physics.ShapeBox,
		HalfExtents: mgl64.Vec3{10.5 / 2, 0.05 / 2, 1.0 / 2},
		Mass:        2,
		Position:    pos,
		Orientation: rot,
		Material:    &physics.Material{Friction: 0.3},
	}, scene.Box(10.5, 0.05, 1), scene.NewStandardMaterial(seesawColor, 30))

	pivot := c.world.AddBody(physics.BodyDesc{
		Shape:       physics.ShapeSphere,
		Radius:      0.1,
		Position:    pos,
		Orientation: rot,
	})

	axis := rot.Rotate(mgl64.Vec3{1, 0, 0})
	c.world.AddHinge(plank.Body, pivot, physics.HingeDesc{
		AxisA: axis,
		AxisB: axis,
	})
	return &Seesaw{Prop: *plank, Pivot: pivot}
}

// Ramp chain layout.
const (
	rampLength    = 11.5
	rampThickness = 0.2
	rampY         = 8
	rampZ         = rampLength/2 + 2
	rampSpacing   = 0.8
	rampDominoH   = 1.5
	rampMass      = 15
)

// RampChain is a row of heavy dominoes on a raised plank. The last one is a
// static gate released when the one before it starts moving.
type RampChain struct {
	Plank *Prop
	// Chain holds every ramp body, gate last.
	Chain  []*DominoBody
	Gate   *DominoBody
	Feeder *DominoBody

	Released bool
}

func (c *Context) buildRampChain() *RampChain {
	r := &RampChain{
		Plank: c.staticBox("ramp", mgl64.Vec3{2, rampThickness, rampLength}, mgl64.Vec3{15, rampY, rampZ}, mgl64.QuatIdent(), plankColor),
	}

	startZ := rampZ + rampLength/2 - rampSpacing
	endZ := rampZ - rampLength/2 + rampSpacing
	count := int(gomath.Floor((startZ-endZ)/rampSpacing)) + 1
	y := rampY + rampDominoH/2 + rampThickness/2
	rot := physics.YawQuat(gomath.Pi)

	for i := 0; i <= count; i++ {
		gate := i == count
		size := mgl64.Vec3{0.6, rampDominoH, 0.1}
		mass := float64(rampMass)
		color := c.cfg.InitialColor
		kind := KindDomino
		if gate {
			size = mgl64.Vec3{1, rampDominoH, 0.5}
			mass = 0
			color = gateColor
			kind = KindGate
		}
		pos := mgl64.Vec3{15, y, startZ - float64(i)*rampSpacing}
		surface := dominoSurface
		body := c.world.AddBody(physics.BodyDesc{
			Shape:          physics.ShapeBox,
			HalfExtents:    size.Mul(0.5),
			Mass:           mass,
			Position:       pos,
			Orientation:    rot,
			Material:       &surface,
			LinearDamping:  0.1,
			AngularDamping: 0.1,
		})
		mesh := scene.NewMesh("ramp-domino", scene.Box(float32(size.X()), float32(size.Y()), float32(size.Z())),
			scene.NewStandardMaterial(color, 30))
		syncPose(body, mesh)

		d := c.add(&DominoBody{
			Body:        body,
			Mesh:        mesh,
			HalfExtents: toVec3(size.Mul(0.5)),
			Kind:        kind,
			Placement:   -1,
		})
		r.Chain = append(r.Chain, d)
	}
	r.Gate = r.Chain[len(r.Chain)-1]
	r.Feeder = r.Chain[len(r.Chain)-2]
	return r
}

// Step releases the gate once the feeder moves faster than the configured
// speed. The release happens at most once.
func (r *RampChain) Step(c *Context) {
	if r.Released || r.Gate.Body.Type() != physics.Static {
		return
	}
	if physics.Speed(r.Feeder.Body) <= c.cfg.UnfreezeSpeed {
		return
	}
	g := r.Gate.Body
	g.SetType(physics.Dynamic)
	g.SetMass(c.cfg.GateMass)
	g.UpdateMassProperties()
	r.Released = true
	c.log.Debug("ramp gate released", zap.Int("frame", c.frame))
}

// HingedArm is a light bar hinged on top of the ramp gate.
type HingedArm struct {
	Prop
	Gate *DominoBody
}

// Arm dimensions. The arm is thin along X and hinges about X.
const (
	armDepth  = 0.25
	armHeight = 1.0
	armWidth  = 0.2
	armMass   = 3
	armGap    = 0.1
)

func (c *Context) buildHingedArm(gate *DominoBody) *HingedArm {
	baseH := float64(gate.HalfExtents.Y)*2 + armGap
	pos := gate.Body.Position().Add(mgl64.Vec3{0, baseH/2 + armHeight/2, 0})

	arm := c.newProp("hinged-arm", physics.BodyDesc{
		Shape:          physics.ShapeBox,
		HalfExtents:    mgl64.Vec3{armDepth / 2, armHeight / 2, armWidth / 2},
		Mass:           armMass,
		Position:       pos,
		Orientation:    physics.YawQuat(gomath.Pi / 2),
		Material:       &physics.Material{Friction: 0.1, Restitution: 0.1},
		AngularDamping: 0.8,
	}, scene.Box(armDepth, armHeight, armWidth), scene.NewStandardMaterial(armColor, 32))

	axis := mgl64.Vec3{1, 0, 0}
	c.world.AddHinge(gate.Body, arm.Body, physics.HingeDesc{
		PivotA:   mgl64.Vec3{0, baseH / 2, 0},
		PivotB:   mgl64.Vec3{0, -armHeight / 2, 0},
		AxisA:    axis,
		AxisB:    axis,
		MaxForce: 1e4,
	})
	return &HingedArm{Prop: *arm, Gate: gate}
}

// buildRoller adds the upside-down lower plank and the cylinder lying on
// it. The cylinder joins the domino list.
func (c *Context) buildRoller() *DominoBody {
	const (
		length = 10.0
		y      = 11.0
		radius = 0.5
		height = 1.0
	)
	plankZ := length/2 + 14.2
	c.staticBox("lower-plank", mgl64.Vec3{2, 0.2, length}, mgl64.Vec3{15, y, plankZ},
		mgl64.QuatRotate(-gomath.Pi, mgl64.Vec3{1, 0, 0}), plankColor)

	pos := mgl64.Vec3{15, y + radius + 0.1, plankZ - length/2 + 1.5}
	body := c.world.AddBody(physics.BodyDesc{
		Shape:          physics.ShapeCylinder,
		Radius:         radius,
		Height:         height,
		Mass:           2.8,
		Position:       pos,
		Orientation:    mgl64.QuatRotate(gomath.Pi/2, mgl64.Vec3{0, 0, 1}),
		Material:       &physics.Material{Friction: 0.2, Restitution: 0.1},
		LinearDamping:  0.01,
		AngularDamping: 0.01,
	})
	mesh := scene.NewMesh("roller", scene.Cylinder(radius, height), scene.NewStandardMaterial(rollerColor, 30))
	syncPose(body, mesh)

	return c.add(&DominoBody{
		Body:        body,
		Mesh:        mesh,
		HalfExtents: math.Vec3{X: radius, Y: height / 2, Z: radius},
		Kind:        KindRoller,
		Placement:   -1,
	})
}

// Ball is the trigger that starts the cascade.
type Ball struct {
	Prop
	Launched bool
}

// Ball placement on the upper plank.
const (
	ballRadius = 0.5
	ballY      = 15 + 0.2/2 + ballRadius
	ballZ      = 70.0/2 - 1 - ballRadius
)

func (c *Context) buildBall() *Ball {
	p := c.newProp("ball", physics.BodyDesc{
		Shape:          physics.ShapeSphere,
		Radius:         ballRadius,
		Mass:           3,
		Position:       mgl64.Vec3{15, ballY, ballZ},
		Material:       &physics.Material{Friction: 0.3, Restitution: 0.5},
		LinearDamping:  0.37,
		AngularDamping: 0.5,
	}, scene.Sphere(ballRadius), scene.NewStandardMaterial(ballColor, 50))
	return &Ball{Prop: *p}
}

// Launch wakes the ball and sets its velocity. Later calls are ignored.
func (b *Ball) Launch(v mgl64.Vec3) {
	if b.Launched {
		return
	}
	b.Body.WakeUp()
	b.Body.SetVelocity(v)
	b.Launched = true
}
