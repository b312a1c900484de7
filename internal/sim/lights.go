package sim

import "github.com/Faultbox/domino-cascade/internal/scene"

// syncLights pushes the current light state into every shaded material of
// the domino list. Standard materials read the scene lights directly.
func (c *Context) syncLights() {
	u := c.Lights.Uniforms()
	for _, d := range c.Bodies {
		if m := d.Mesh.Material; m != nil && m.Kind == scene.Shaded {
			u.Apply(&m.Uniforms)
		}
	}
}
