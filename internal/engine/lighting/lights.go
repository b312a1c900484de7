// Package lighting manages the three switchable scene lights and flattens
// them into fixed-size shader uniform arrays.
package lighting

import (
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

// Slots of the switchable lights, in uniform order.
const (
	SlotRed = iota
	SlotGreen
	SlotSpot
)

// FallbackAmbient is used when a set has no ambient colour.
var FallbackAmbient = math.Gray(0.2)

// Uniforms is the light state pushed into every shaded material. Arrays are
// always MaxLights long; slots past Count are black at the origin.
type Uniforms struct {
	Positions [scene.MaxLights]math.Vec3
	Colors    [scene.MaxLights]math.Color
	Count     int32
	Ambient   math.Color
}

// Set is the ambient colour plus exactly three switchable lights.
type Set struct {
	Ambient *math.Color
	lights  [scene.MaxLights]*scene.Light
}

// NewSet builds the default rig: a red point light, a green point light
// and a blue spot light that can be aimed.
func NewSet() *Set {
	ambient := math.ColorHex(0x333333)
	return &Set{
		Ambient: &ambient,
		lights: [scene.MaxLights]*scene.Light{
			SlotRed: {
				Name:     "point-red",
				Kind:     scene.PointLight,
				Position: math.Vec3{X: 0, Y: 25, Z: 0},
				Color:    math.ColorHex(0xff0000),
				Visible:  true,
			},
			SlotGreen: {
				Name:     "point-green",
				Kind:     scene.PointLight,
				Position: math.Vec3{X: 0, Y: 20, Z: 0},
				Color:    math.ColorHex(0x00ff00),
				Visible:  true,
			},
			SlotSpot: {
				Name:     "spot-blue",
				Kind:     scene.SpotLight,
				Position: math.Vec3{X: 0, Y: 30, Z: 0},
				Color:    math.ColorHex(0x0000ff),
				Visible:  true,
			},
		},
	}
}

// Lights returns the three lights in slot order.
func (s *Set) Lights() []*scene.Light {
	return s.lights[:]
}

// Light returns the light in a slot.
func (s *Set) Light(slot int) *scene.Light {
	return s.lights[slot]
}

// Spot returns the movable spot light.
func (s *Set) Spot() *scene.Light {
	return s.lights[SlotSpot]
}

// Toggle flips the visibility of the light in a slot. Out-of-range slots are
// ignored.
func (s *Set) Toggle(slot int) {
	if slot < 0 || slot >= len(s.lights) {
		return
	}
	s.lights[slot].Visible = !s.lights[slot].Visible
}

// ToggleAll flips every light independently.
func (s *Set) ToggleAll() {
	for _, l := range s.lights {
		l.Visible = !l.Visible
	}
}

// Uniforms collects the visible lights in slot order and pads the rest.
func (s *Set) Uniforms() Uniforms {
	var u Uniforms
	for _, l := range s.lights {
		if !l.Visible {
			continue
		}
		u.Positions[u.Count] = l.Position
		u.Colors[u.Count] = l.Color
		u.Count++
	}
	u.Ambient = FallbackAmbient
	if s.Ambient != nil {
		u.Ambient = *s.Ambient
	}
	return u
}

// Apply writes the light uniforms into a material's uniform set.
func (u Uniforms) Apply(dst *scene.Uniforms) {
	dst.LightPositions = u.Positions
	dst.LightColors = u.Colors
	dst.NumLights = u.Count
	dst.AmbientColor = u.Ambient
}

// ForScene collects the scene's visible lights for materials lit from the
// scene rather than from their own uniforms. Lights past MaxLights are
// dropped.
func ForScene(s *scene.Scene) Uniforms {
	u := Uniforms{Ambient: s.Ambient}
	for _, l := range s.VisibleLights() {
		if u.Count == scene.MaxLights {
			break
		}
		u.Positions[u.Count] = l.Position
		u.Colors[u.Count] = l.Color
		u.Count++
	}
	return u
}
