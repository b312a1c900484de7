package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/scene"
)

// Appearance is the surface look shared by every track domino.
type Appearance struct {
	Shading scene.ShadingMode
	Texture scene.TextureMode
	Mapping scene.UVMapping
}

// Appearance returns the current look.
func (c *Context) Appearance() Appearance { return c.appearance }

// SetShading switches between per-vertex and per-fragment lighting.
func (c *Context) SetShading(m scene.ShadingMode) {
	c.appearance.Shading = m
	c.ApplyAppearance()
}

// SetTexture selects the texture drawn on the track dominoes.
func (c *Context) SetTexture(t scene.TextureMode) {
	c.appearance.Texture = t
	c.ApplyAppearance()
}

// ToggleMapping cycles box, cylindrical and spherical texture coordinates.
func (c *Context) ToggleMapping() {
	switch c.appearance.Mapping {
	case scene.MappingBox:
		c.appearance.Mapping = scene.MappingCylindrical
	case scene.MappingCylindrical:
		c.appearance.Mapping = scene.MappingSpherical
	default:
		c.appearance.Mapping = scene.MappingBox
	}
	c.ApplyAppearance()
}

// ApplyAppearance writes the current look into every shaded material and
// track geometry.
func (c *Context) ApplyAppearance() {
	a := c.appearance
	for _, d := range c.Bodies {
		m := d.Mesh.Material
		if m == nil || m.Kind != scene.Shaded {
			continue
		}
		m.Uniforms.ShadingMode = a.Shading
		m.Uniforms.Texture = a.Texture
		m.Uniforms.UseTexture = a.Texture != scene.TextureNone
		d.Mesh.Geometry.Mapping = a.Mapping
	}
	c.log.Debug("appearance changed",
		zap.Stringer("shading", a.Shading),
		zap.Stringer("texture", a.Texture),
		zap.Stringer("mapping", a.Mapping))
}
