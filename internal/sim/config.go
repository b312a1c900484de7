package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/follow"
	"github.com/Faultbox/domino-cascade/internal/layout"
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

// FrameStep is the fixed physics step per rendered frame.
const FrameStep = 1.0 / 60

// Config holds the tunables of a simulation context.
type Config struct {
	Layout layout.Params
	Follow follow.Config

	// TimeStep is the physics step taken by every Frame.
	TimeStep float64
	// FallThreshold is the dot product of a body's up axis with world up
	// below which the body counts as fallen.
	FallThreshold float64
	// UnfreezeSpeed is the feeder speed that releases the ramp gate.
	UnfreezeSpeed float64
	// GateMass is the mass the gate gets when released.
	GateMass float64
	// LaunchVelocity is given to the ball by LaunchBall.
	LaunchVelocity mgl64.Vec3

	InitialColor math.Color
	FallenColor  math.Color
	Background   math.Color

	Shading scene.ShadingMode
	Texture scene.TextureMode
	Mapping scene.UVMapping
}

// DefaultConfig returns the stock scene settings.
func DefaultConfig() Config {
	return Config{
		Layout:         layout.DefaultParams(),
		Follow:         follow.DefaultConfig(),
		TimeStep:       FrameStep,
		FallThreshold:  0.7,
		UnfreezeSpeed:  0.2,
		GateMass:       15,
		LaunchVelocity: mgl64.Vec3{0, 0, -24},
		InitialColor:   math.ColorHex(0x00bfff),
		FallenColor:    math.ColorHex(0x8a2be2),
		Background:     math.ColorHex(0x111111),
		Shading:        scene.Phong,
		Texture:        scene.TextureNone,
		Mapping:        scene.MappingBox,
	}
}

// finish is a shininess and specular colour pair of the track material
// table.
type finish struct {
	shininess float32
	specular  uint32
}

// finishes is indexed by placement index modulo its length.
var finishes = [...]finish{
	{10, 0x222222},
	{30, 0x444444},
	{60, 0x666666},
	{90, 0x888888},
	{120, 0xaaaaaa},
}

// diffuse reflectance per placement index modulo its length.
var diffuse = [...]float32{0.1, 0.56, 0.67, 0.78, 0.82, 0.45, 0.93, 0.72, 0.88}

// trackAmbient is the ambient colour materials start with before the first
// light sync.
var trackAmbient = math.ColorHex(0x333333)

// trackMaterial returns the shaded material of the track body at idx.
func trackMaterial(idx int, cfg Config) *scene.Material {
	f := finishes[idx%len(finishes)]
	return &scene.Material{
		Kind: scene.Shaded,
		Uniforms: scene.Uniforms{
			ShadingMode:        cfg.Shading,
			Texture:            cfg.Texture,
			UseTexture:         cfg.Texture != scene.TextureNone,
			DiffuseReflectance: diffuse[idx%len(diffuse)],
			AmbientColor:       trackAmbient,
			Shininess:          f.shininess,
			Color:              cfg.InitialColor,
			SpecularColor:      math.ColorHex(f.specular),
		},
	}
}
