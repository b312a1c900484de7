package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/layout"
)

// Steppable is a mechanism that runs once per frame after the physics step.
type Steppable interface {
	Step(c *Context)
}

// Register adds mechanisms to run every frame, in registration order.
func (c *Context) Register(s ...Steppable) {
	c.steppables = append(c.steppables, s...)
}

// Step advances the physics world by the fixed time step, copies every
// listed body's pose onto its mesh and runs the registered mechanisms.
func (c *Context) Step() {
	c.world.Step(c.cfg.TimeStep)
	for _, d := range c.Bodies {
		syncPose(d.Body, d.Mesh)
	}
	for _, s := range c.steppables {
		s.Step(c)
	}
}

// Frame runs one full frame: physics, fall detection, follow bookkeeping,
// light sync and the follow camera. Rendering is up to the caller.
func (c *Context) Frame() {
	c.Step()
	c.detectFallen()
	c.offerFollowTargets()
	c.syncLights()

	before := c.Tracker.Index()
	c.Tracker.Update()
	if idx := c.Tracker.Index(); idx != before {
		c.log.Debug("follow advanced", zap.Int("index", idx), zap.Int("targets", c.Tracker.Len()))
	}
	c.Follow.Position, c.Follow.Target = c.Tracker.Camera()
	c.Lights.Spot().Target = c.Tracker.SpotTarget()
	c.frame++
}

// offerFollowTargets appends moving bodies to the follow list once the
// cascade has started. Bodies on the right branch are never followed.
func (c *Context) offerFollowTargets() {
	if !c.started {
		return
	}
	for _, d := range c.Bodies {
		if d.Branch == layout.BranchRight {
			continue
		}
		c.Tracker.Offer(d)
	}
}
