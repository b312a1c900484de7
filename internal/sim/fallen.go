package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/layout"
	"github.com/Faultbox/domino-cascade/internal/physics"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

// FallEvent reports a body toppling over.
type FallEvent struct {
	Frame     int
	Index     int
	Placement int
	Kind      Kind
	Branch    layout.Branch
	Segment   layout.Segment
	Position  math.Vec3
}

// Listener receives fall events on the frame goroutine.
type Listener func(FallEvent)

// OnFall registers a fall listener.
func (c *Context) OnFall(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Fallen reports whether a body's up axis has tipped below threshold.
func Fallen(b physics.Body, threshold float64) bool {
	return physics.Up(b).Dot(mgl64.Vec3{0, 1, 0}) < threshold
}

// detectFallen marks newly toppled bodies and recolours them. A body that
// has fallen stays fallen. Nothing is checked before the ball is launched.
func (c *Context) detectFallen() {
	if !c.started {
		return
	}
	for _, d := range c.Bodies {
		if d.HasFallen || d.Kind == KindRoller {
			continue
		}
		if !Fallen(d.Body, c.cfg.FallThreshold) {
			continue
		}
		d.HasFallen = true
		d.Mesh.Material = d.Mesh.Material.Clone()
		d.Mesh.Material.Uniforms.Color = c.cfg.FallenColor
		c.fallen++

		ev := FallEvent{
			Frame:     c.frame,
			Index:     d.Index,
			Placement: d.Placement,
			Kind:      d.Kind,
			Branch:    d.Branch,
			Segment:   d.Segment,
			Position:  d.Mesh.Position,
		}
		c.log.Debug("domino fell",
			zap.Int("index", d.Index),
			zap.Stringer("kind", d.Kind),
			zap.Stringer("branch", d.Branch),
			zap.Int("fallen", c.fallen))
		for _, l := range c.listeners {
			l(ev)
		}
	}
}
