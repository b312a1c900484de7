// Package scene is the renderer-agnostic scene graph the simulation writes
// and the renderer reads: meshes with poses, materials with typed uniform
// sets, lights and the background.
package scene

import (
	"github.com/Faultbox/domino-cascade/internal/engine/camera"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

// MaxLights is the fixed length of the light uniform arrays.
const MaxLights = 3

// ShadingMode selects per-vertex or per-fragment lighting.
type ShadingMode int32

const (
	Gouraud ShadingMode = iota
	Phong
)

// String returns the mode name.
func (m ShadingMode) String() string {
	if m == Gouraud {
		return "gouraud"
	}
	return "phong"
}

// ParseShadingMode maps a config name to a mode. Unknown names yield Phong.
func ParseShadingMode(s string) ShadingMode {
	if s == "gouraud" {
		return Gouraud
	}
	return Phong
}

// TextureMode selects the texture applied to shaded materials.
type TextureMode int

const (
	TextureNone TextureMode = iota
	TextureChecker
	TextureWood
)

// String returns the mode name.
func (m TextureMode) String() string {
	switch m {
	case TextureChecker:
		return "checker"
	case TextureWood:
		return "wood"
	default:
		return "none"
	}
}

// ParseTextureMode maps a config name to a mode. Unknown names yield
// TextureNone.
func ParseTextureMode(s string) TextureMode {
	switch s {
	case "checker":
		return TextureChecker
	case "wood":
		return TextureWood
	default:
		return TextureNone
	}
}

// UVMapping selects how texture coordinates are generated for a geometry.
type UVMapping int

const (
	MappingBox UVMapping = iota
	MappingCylindrical
	MappingSpherical
)

// String returns the mapping name.
func (m UVMapping) String() string {
	switch m {
	case MappingCylindrical:
		return "cylindrical"
	case MappingSpherical:
		return "spherical"
	default:
		return "box"
	}
}

// ParseUVMapping maps a config name to a mapping. Unknown names yield
// MappingBox.
func ParseUVMapping(s string) UVMapping {
	switch s {
	case "cylindrical":
		return MappingCylindrical
	case "spherical":
		return MappingSpherical
	default:
		return MappingBox
	}
}

// Uniforms is the full uniform set of a shaded material. It is a plain value,
// so assigning it clones it.
type Uniforms struct {
	ShadingMode        ShadingMode
	Texture            TextureMode
	UseTexture         bool
	LightPositions     [MaxLights]math.Vec3
	LightColors        [MaxLights]math.Color
	NumLights          int32
	DiffuseReflectance float32
	AmbientColor       math.Color
	Shininess          float32
	Color              math.Color
	SpecularColor      math.Color
}

// MaterialKind tells the renderer which lighting path to use.
type MaterialKind int

const (
	// Shaded materials take their lights from their own uniforms.
	Shaded MaterialKind = iota
	// Standard materials are lit from the scene's light list.
	Standard
)

// Material is a surface description.
type Material struct {
	Kind     MaterialKind
	Uniforms Uniforms
}

// NewStandardMaterial returns a plainly lit material of the given colour.
func NewStandardMaterial(color math.Color, shininess float32) *Material {
	return &Material{
		Kind: Standard,
		Uniforms: Uniforms{
			ShadingMode:        Phong,
			DiffuseReflectance: 1,
			Shininess:          shininess,
			Color:              color,
			SpecularColor:      math.Gray(0.2),
		},
	}
}

// Clone returns an independent copy of m.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// GeometryKind is the primitive a mesh is built from.
type GeometryKind int

const (
	GeomBox GeometryKind = iota
	GeomSphere
	GeomCylinder
	GeomPlane
)

// Geometry describes a primitive. Renderers build and cache GPU buffers
// from it, keyed by value.
type Geometry struct {
	Kind GeometryKind
	// Size is width, height and depth for boxes and width, 0, depth for
	// planes.
	Size   math.Vec3
	Radius float32
	Height float32
	// Segments controls tessellation of curved primitives and of boxes with
	// non-box UV mappings.
	Segments int
	Mapping  UVMapping
}

// Box returns box geometry with full extents w, h, d.
func Box(w, h, d float32) Geometry {
	return Geometry{Kind: GeomBox, Size: math.Vec3{X: w, Y: h, Z: d}, Segments: 1}
}

// Sphere returns sphere geometry.
func Sphere(r float32) Geometry {
	return Geometry{Kind: GeomSphere, Radius: r, Segments: 32}
}

// Cylinder returns a cylinder along local +Y.
func Cylinder(r, h float32) Geometry {
	return Geometry{Kind: GeomCylinder, Radius: r, Height: h, Segments: 32}
}

// Plane returns a horizontal plane of width w and depth d.
func Plane(w, d float32) Geometry {
	return Geometry{Kind: GeomPlane, Size: math.Vec3{X: w, Z: d}, Segments: 1}
}

// Mesh is a drawable object.
type Mesh struct {
	Name     string
	Geometry Geometry
	Material *Material
	Position math.Vec3
	Rotation math.Quat
	Visible  bool
}

// NewMesh creates a visible mesh at the origin.
func NewMesh(name string, geo Geometry, mat *Material) *Mesh {
	return &Mesh{
		Name:     name,
		Geometry: geo,
		Material: mat,
		Rotation: math.QuatIdentity(),
		Visible:  true,
	}
}

// Model returns the mesh model matrix.
func (m *Mesh) Model() math.Mat4 {
	return math.Compose(m.Position, m.Rotation, math.Vec3{X: 1, Y: 1, Z: 1})
}

// LightKind distinguishes point and spot lights.
type LightKind int

const (
	PointLight LightKind = iota
	SpotLight
)

// Light is a scene light. Spot lights aim at Target.
type Light struct {
	Name     string
	Kind     LightKind
	Position math.Vec3
	Color    math.Color
	Target   math.Vec3
	Visible  bool
}

// Scene is the set of things to draw.
type Scene struct {
	Background math.Color
	Ambient    math.Color
	Meshes     []*Mesh
	Lights     []*Light
}

// New creates an empty scene.
func New(background, ambient math.Color) *Scene {
	return &Scene{Background: background, Ambient: ambient}
}

// Add appends meshes in draw order.
func (s *Scene) Add(meshes ...*Mesh) {
	s.Meshes = append(s.Meshes, meshes...)
}

// AddLight appends a light.
func (s *Scene) AddLight(l *Light) {
	s.Lights = append(s.Lights, l)
}

// Remove drops a mesh from the scene. It reports whether the mesh was found.
func (s *Scene) Remove(m *Mesh) bool {
	for i, have := range s.Meshes {
		if have == m {
			s.Meshes = append(s.Meshes[:i], s.Meshes[i+1:]...)
			return true
		}
	}
	return false
}

// VisibleLights returns the lights currently switched on.
func (s *Scene) VisibleLights() []*Light {
	var out []*Light
	for _, l := range s.Lights {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}

// Renderer draws a scene as seen through a camera view.
type Renderer interface {
	Render(s *Scene, view camera.View)
}
