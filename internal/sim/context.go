// Package sim builds the domino scene on top of a physics world and advances
// it one frame at a time.
//
// Everything the frame driver needs lives in a Context: the bodies, the
// mechanisms, the lights, the scene graph and the follow tracker. There is
// no package-level state.
package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/engine/camera"
	"github.com/Faultbox/domino-cascade/internal/engine/lighting"
	"github.com/Faultbox/domino-cascade/internal/follow"
	"github.com/Faultbox/domino-cascade/internal/layout"
	"github.com/Faultbox/domino-cascade/internal/physics"
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

// Kind distinguishes the bodies in the domino list.
type Kind int

const (
	// KindDomino is an ordinary toppling domino.
	KindDomino Kind = iota
	// KindGate is the frozen block at the end of the ramp chain.
	KindGate
	// KindRoller is the cylinder on the lower plank. It lies on its side
	// from the start, so it never counts as fallen.
	KindRoller
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGate:
		return "gate"
	case KindRoller:
		return "roller"
	default:
		return "domino"
	}
}

// DominoBody pairs a rigid body with the mesh that shows it.
type DominoBody struct {
	// Index is the position in Context.Bodies.
	Index int
	Body  physics.Body
	Mesh  *scene.Mesh

	HalfExtents math.Vec3
	Kind        Kind
	Branch      layout.Branch
	Segment     layout.Segment
	// Placement is the layout index, or -1 for bodies not on the track.
	Placement int

	HasFallen bool
}

// Position implements follow.Subject using the synced mesh position.
func (d *DominoBody) Position() math.Vec3 { return d.Mesh.Position }

// Speed implements follow.Subject.
func (d *DominoBody) Speed() float32 { return float32(physics.Speed(d.Body)) }

// Mass is the body's current mass. A frozen body reports zero.
func (d *DominoBody) Mass() float64 { return d.Body.Mass() }

// Frozen reports whether the body is held static, as the gate is until the
// ramp chain releases it.
func (d *DominoBody) Frozen() bool { return d.Body.Type() == physics.Static }

// CameraMode selects which camera the frame is rendered from.
type CameraMode int

const (
	CameraOverview CameraMode = iota
	CameraFollow
)

// String returns the mode name.
func (m CameraMode) String() string {
	if m == CameraFollow {
		return "follow"
	}
	return "overview"
}

// Overview camera placement.
var (
	overviewEye    = math.Vec3{X: 0, Y: 25, Z: 30}
	overviewCenter = math.Vec3{}
)

// Context is the whole simulation state. It is owned by a single goroutine.
type Context struct {
	cfg   Config
	log   *zap.Logger
	world physics.World

	Scene   *scene.Scene
	Lights  *lighting.Set
	Tracker *follow.Tracker

	Overview *camera.OrbitCamera
	Follow   *camera.FollowCamera
	Camera   CameraMode

	// Bodies is the domino list in creation order: the track, then the ramp
	// chain ending with the gate, then the roller.
	Bodies []*DominoBody
	Ball   *Ball
	Seesaw *Seesaw
	Ramp   *RampChain
	Arm    *HingedArm

	appearance Appearance
	steppables []Steppable
	listeners  []Listener

	started bool
	frame   int
	fallen  int
}

// Build creates every body, mechanism and light of the scene in world. It
// panics if world is nil.
func Build(world physics.World, cfg Config, log *zap.Logger) *Context {
	if world == nil {
		panic("sim: nil physics world")
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Context{
		cfg:      cfg,
		log:      log,
		world:    world,
		Scene:    scene.New(cfg.Background, trackAmbient),
		Lights:   lighting.NewSet(),
		Overview: camera.NewOrbitCamera(overviewEye, overviewCenter),
		Follow:   camera.NewFollowCamera(cfg.Follow.Start),
		appearance: Appearance{
			Shading: cfg.Shading,
			Texture: cfg.Texture,
			Mapping: cfg.Mapping,
		},
	}
	for _, l := range c.Lights.Lights() {
		c.Scene.AddLight(l)
	}

	c.buildGround()
	c.BuildTrack(layout.Generate(cfg.Layout))
	c.Seesaw = c.buildSeesaw()
	c.buildUpperPlank()
	c.Ramp = c.buildRampChain()
	c.Arm = c.buildHingedArm(c.Ramp.Gate)
	c.buildRoller()
	c.Ball = c.buildBall()

	c.Register(c.Ramp, c.Arm, c.Seesaw, c.Ball)
	c.Tracker = follow.New(cfg.Follow, c.Ball)
	c.syncLights()

	log.Info("scene built",
		zap.Int("bodies", len(c.Bodies)),
		zap.Int("meshes", len(c.Scene.Meshes)),
		zap.Int("ramp", len(c.Ramp.Chain)))
	return c
}

// Config returns the settings the context was built with.
func (c *Context) Config() Config { return c.cfg }

// Started reports whether the ball has been launched.
func (c *Context) Started() bool { return c.started }

// FrameCount returns the number of frames run so far.
func (c *Context) FrameCount() int { return c.frame }

// FallenCount returns how many bodies have fallen.
func (c *Context) FallenCount() int { return c.fallen }

// add files a body into the domino list and puts its mesh into the scene.
func (c *Context) add(d *DominoBody) *DominoBody {
	d.Index = len(c.Bodies)
	c.Bodies = append(c.Bodies, d)
	c.Scene.Add(d.Mesh)
	return d
}

// LaunchBall gives the ball its launch velocity and starts fall detection.
// Only the first call has an effect.
func (c *Context) LaunchBall() {
	if c.started || c.Ball == nil {
		return
	}
	c.Ball.Launch(c.cfg.LaunchVelocity)
	c.started = true
	c.log.Info("ball launched", zap.Int("frame", c.frame))
}

// ToggleLight flips the light in slot n (0 red, 1 green, 2 spot).
func (c *Context) ToggleLight(n int) {
	c.Lights.Toggle(n)
}

// ToggleAllLights flips every light.
func (c *Context) ToggleAllLights() {
	c.Lights.ToggleAll()
}

// SetCameraMode selects the camera used by View.
func (c *Context) SetCameraMode(m CameraMode) {
	c.Camera = m
}

// AdjustYaw rotates the follow offset. It has no effect in overview mode.
func (c *Context) AdjustYaw(delta float32) {
	if c.Camera != CameraFollow {
		return
	}
	c.Tracker.AdjustYaw(delta)
}

// View returns the view of the active camera.
func (c *Context) View(lens camera.Lens, aspect float32) camera.View {
	if c.Camera == CameraFollow {
		return c.Follow.View(lens, aspect)
	}
	return c.Overview.View(lens, aspect)
}
