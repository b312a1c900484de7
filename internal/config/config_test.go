package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/internal/sim"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Audio.SFXVolume != 0.8 {
		t.Errorf("sfx volume = %f, want 0.8", cfg.Audio.SFXVolume)
	}
	if cfg.Simulation.LaunchSpeed != 24 {
		t.Errorf("launch speed = %v, want 24", cfg.Simulation.LaunchSpeed)
	}
	if cfg.Shading.Mode != "phong" || cfg.Shading.Texture != "none" || cfg.Shading.Mapping != "box" {
		t.Errorf("shading = %+v", cfg.Shading)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestDefaultMatchesSimulation(t *testing.T) {
	got := Default().Sim()
	want := sim.DefaultConfig()

	if got.TimeStep != want.TimeStep || got.FallThreshold != want.FallThreshold ||
		got.UnfreezeSpeed != want.UnfreezeSpeed || got.GateMass != want.GateMass {
		t.Errorf("sim tunables = %+v, want %+v", got, want)
	}
	if got.LaunchVelocity != want.LaunchVelocity {
		t.Errorf("launch velocity = %v, want %v", got.LaunchVelocity, want.LaunchVelocity)
	}
	if got.Layout != want.Layout {
		t.Errorf("layout = %+v, want %+v", got.Layout, want.Layout)
	}
	if got.Follow != want.Follow {
		t.Errorf("follow = %+v, want %+v", got.Follow, want.Follow)
	}
	if got.Shading != want.Shading || got.Texture != want.Texture || got.Mapping != want.Mapping {
		t.Error("appearance differs from the simulation defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dominoes.yaml")
	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

audio:
  sfx_volume: 0.5
  muted: true
  clack_file: "clack.wav"

simulation:
  time_step: 0.01
  launch_speed: 30
  frames: 600

layout:
  spacing: 1.1
  arc_count: 12

shading:
  mode: gouraud
  texture: checker
  mapping: spherical

storage:
  run_db: "/tmp/runs.db"

logging:
  level: "debug"
  log_file: "dominoes.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen || cfg.Graphics.VSync {
		t.Errorf("graphics = %+v", cfg.Graphics)
	}
	if !cfg.Audio.Muted || cfg.Audio.ClackFile != "clack.wav" {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if cfg.Simulation.Frames != 600 {
		t.Errorf("frames = %d, want 600", cfg.Simulation.Frames)
	}
	// Unset keys keep their defaults.
	if cfg.Layout.SegmentLength != 10 {
		t.Errorf("segment length = %d, want default 10", cfg.Layout.SegmentLength)
	}

	sc := cfg.Sim()
	if sc.TimeStep != 0.01 || sc.LaunchVelocity.Z() != -30 {
		t.Errorf("sim = step %v launch %v", sc.TimeStep, sc.LaunchVelocity)
	}
	if sc.Layout.Spacing != 1.1 || sc.Layout.ArcCount != 12 {
		t.Errorf("layout = %+v", sc.Layout)
	}
	if sc.Shading != scene.Gouraud || sc.Texture != scene.TextureChecker || sc.Mapping != scene.MappingSpherical {
		t.Errorf("appearance = %v %v %v", sc.Shading, sc.Texture, sc.Mapping)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dominoes.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 1600\n  height: 900\nlogging:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOMINO_WIDTH", "1024")
	t.Setenv("DOMINO_LOG_LEVEL", "debug")
	t.Setenv("DOMINO_RUN_DB", "/var/tmp/cascade.db")
	t.Setenv("DOMINO_MUTED", "true")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Graphics.Width != 1024 {
		t.Errorf("width = %d, want 1024 from env", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("height = %d, want 900 from file", cfg.Graphics.Height)
	}
	if cfg.Logging.Level != "debug" || cfg.Storage.RunDB != "/var/tmp/cascade.db" || !cfg.Audio.Muted {
		t.Errorf("env not applied: %+v %+v %+v", cfg.Logging, cfg.Storage, cfg.Audio)
	}
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("DOMINO_HEIGHT", "tall")
	if _, err := LoadFile(""); err == nil {
		t.Error("expected error for non-numeric DOMINO_HEIGHT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero time step", func(c *Config) { c.Simulation.TimeStep = 0 }, "time_step"},
		{"negative spacing", func(c *Config) { c.Layout.Spacing = -1 }, "spacing"},
		{"short segment", func(c *Config) { c.Layout.SegmentLength = 1 }, "segment_length"},
		{"no arcs", func(c *Config) { c.Layout.ArcCount = 0 }, "arc_count"},
		{"zero height", func(c *Config) { c.Graphics.Height = 0 }, "graphics size"},
		{"flat fov", func(c *Config) { c.Camera.FOV = 180 }, "fov"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate = %v, want error mentioning %s", err, tt.field)
			}
		})
	}
}

func TestLens(t *testing.T) {
	cfg := Default()
	cfg.Camera.FOV = 90
	if got := cfg.Lens().FovY; math.Abs(float64(got)-math.Pi/2) > 1e-6 {
		t.Errorf("FovY = %v, want pi/2", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "dominoes.yaml"), []byte("graphics:\n  width: 800\n"), 0o644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find dominoes.yaml in current directory")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dominoes.yaml")
	cfg := Default()
	cfg.Shading.Texture = "wood"
	cfg.Simulation.Frames = 42
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Shading.Texture != "wood" || loaded.Simulation.Frames != 42 {
		t.Errorf("reloaded = %+v %+v", loaded.Shading, loaded.Simulation)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("size = %dx%d, want 2560x1440", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "frames flag",
			setup: func() { *flagFrames = 300 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Frames != 300 {
					t.Errorf("frames = %d, want 300", cfg.Simulation.Frames)
				}
			},
			teardown: func() { *flagFrames = 0 },
		},
		{
			name:  "db flag",
			setup: func() { *flagDB = "other.db" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Storage.RunDB != "other.db" || !cfg.Storage.Enabled {
					t.Errorf("storage = %+v", cfg.Storage)
				}
			},
			teardown: func() { *flagDB = "" },
		},
		{
			name:  "db flag disables",
			setup: func() { *flagDB = "-" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Storage.Enabled {
					t.Error("expected run log disabled")
				}
			},
			teardown: func() { *flagDB = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dominoes.yaml")
	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dominoes.yaml")
	if err := os.WriteFile(configPath, []byte("simulation:\n  time_step: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error")
	}
}
