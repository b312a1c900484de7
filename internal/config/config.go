// Package config handles simulation configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/engine/camera"
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/internal/sim"
)

// Config holds all settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Audio      AudioConfig      `yaml:"audio"`
	Simulation SimulationConfig `yaml:"simulation"`
	Layout     LayoutConfig     `yaml:"layout"`
	Camera     CameraConfig     `yaml:"camera"`
	Shading    ShadingConfig    `yaml:"shading"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width" env:"DOMINO_WIDTH"`
	Height     int    `yaml:"height" env:"DOMINO_HEIGHT"`
	Fullscreen bool   `yaml:"fullscreen" env:"DOMINO_FULLSCREEN"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"samples"`
	FPSLimit   int    `yaml:"fps_limit"`
	Screenshot string `yaml:"screenshot_dir"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted" env:"DOMINO_MUTED"`
	MaxVoices    int     `yaml:"max_voices"`
	// ClackFile replaces the synthesized fall sound with a WAV file.
	ClackFile string `yaml:"clack_file"`
}

// SimulationConfig holds physics and cascade tunables.
type SimulationConfig struct {
	TimeStep      float64 `yaml:"time_step"`
	FallThreshold float64 `yaml:"fall_threshold"`
	UnfreezeSpeed float64 `yaml:"unfreeze_speed"`
	GateMass      float64 `yaml:"gate_mass"`
	LaunchSpeed   float64 `yaml:"launch_speed"`
	// Frames is how long a headless run steps.
	Frames int `yaml:"frames"`
}

// LayoutConfig holds the track shape.
type LayoutConfig struct {
	Spacing       float64 `yaml:"spacing"`
	SegmentLength int     `yaml:"segment_length"`
	ArcCount      int     `yaml:"arc_count"`
	GrowCount     int     `yaml:"grow_count"`
	GrowRatio     float64 `yaml:"grow_ratio"`
}

// CameraConfig holds camera settings.
type CameraConfig struct {
	FOV        float32 `yaml:"fov"` // degrees
	YawStep    float32 `yaml:"yaw_step"`
	FollowLerp float32 `yaml:"follow_lerp"`
}

// ShadingConfig holds the initial look of the track.
type ShadingConfig struct {
	Mode        string `yaml:"mode"`    // gouraud or phong
	Texture     string `yaml:"texture"` // none, checker or wood
	Mapping     string `yaml:"mapping"` // box, cylindrical or spherical
	WoodTexture string `yaml:"wood_texture" env:"DOMINO_WOOD_TEXTURE"`
}

// StorageConfig holds the run log location.
type StorageConfig struct {
	RunDB   string `yaml:"run_db" env:"DOMINO_RUN_DB"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"DOMINO_LOG_LEVEL"`
	LogFile string `yaml:"log_file" env:"DOMINO_LOG_FILE"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	sc := sim.DefaultConfig()
	lp := sc.Layout
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			VSync:      true,
			Samples:    4,
			Screenshot: "screenshots",
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			MaxVoices:    12,
		},
		Simulation: SimulationConfig{
			TimeStep:      sc.TimeStep,
			FallThreshold: sc.FallThreshold,
			UnfreezeSpeed: sc.UnfreezeSpeed,
			GateMass:      sc.GateMass,
			LaunchSpeed:   -sc.LaunchVelocity.Z(),
			Frames:        1800,
		},
		Layout: LayoutConfig{
			Spacing:       lp.Spacing,
			SegmentLength: lp.SegmentLength,
			ArcCount:      lp.ArcCount,
			GrowCount:     lp.GrowCount,
			GrowRatio:     lp.GrowRatio,
		},
		Camera: CameraConfig{
			FOV:        75,
			YawStep:    0.1,
			FollowLerp: sc.Follow.Lerp,
		},
		Shading: ShadingConfig{
			Mode:    "phong",
			Texture: "none",
			Mapping: "box",
		},
		Storage: StorageConfig{
			RunDB:   "runs.db",
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.TimeStep <= 0 {
		errs = append(errs, fmt.Errorf("simulation.time_step must be positive, got %v", c.Simulation.TimeStep))
	}
	if c.Layout.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("layout.spacing must be positive, got %v", c.Layout.Spacing))
	}
	if c.Layout.SegmentLength < 2 {
		errs = append(errs, fmt.Errorf("layout.segment_length must be at least 2, got %d", c.Layout.SegmentLength))
	}
	if c.Layout.ArcCount < 1 {
		errs = append(errs, fmt.Errorf("layout.arc_count must be at least 1, got %d", c.Layout.ArcCount))
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be between 0 and 180, got %v", c.Camera.FOV))
	}
	return errors.Join(errs...)
}

// Sim returns the simulation settings.
func (c *Config) Sim() sim.Config {
	sc := sim.DefaultConfig()
	sc.TimeStep = c.Simulation.TimeStep
	sc.FallThreshold = c.Simulation.FallThreshold
	sc.UnfreezeSpeed = c.Simulation.UnfreezeSpeed
	sc.GateMass = c.Simulation.GateMass
	sc.LaunchVelocity = mgl64.Vec3{0, 0, -c.Simulation.LaunchSpeed}

	sc.Layout.Spacing = c.Layout.Spacing
	sc.Layout.SegmentLength = c.Layout.SegmentLength
	sc.Layout.ArcCount = c.Layout.ArcCount
	sc.Layout.GrowCount = c.Layout.GrowCount
	sc.Layout.GrowRatio = c.Layout.GrowRatio

	sc.Follow.Lerp = c.Camera.FollowLerp

	sc.Shading = scene.ParseShadingMode(c.Shading.Mode)
	sc.Texture = scene.ParseTextureMode(c.Shading.Texture)
	sc.Mapping = scene.ParseUVMapping(c.Shading.Mapping)
	return sc
}

// Lens returns the camera lens.
func (c *Config) Lens() camera.Lens {
	l := camera.DefaultLens()
	l.FovY = c.Camera.FOV * gomath.Pi / 180
	return l
}
