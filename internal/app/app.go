// Package app runs the interactive domino cascade viewer.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/config"
	"github.com/Faultbox/domino-cascade/internal/engine/audio"
	"github.com/Faultbox/domino-cascade/internal/engine/camera"
	"github.com/Faultbox/domino-cascade/internal/engine/debug"
	"github.com/Faultbox/domino-cascade/internal/engine/input"
	"github.com/Faultbox/domino-cascade/internal/engine/renderer"
	"github.com/Faultbox/domino-cascade/internal/engine/window"
	"github.com/Faultbox/domino-cascade/internal/physics/rigid"
	"github.com/Faultbox/domino-cascade/internal/runlog"
	"github.com/Faultbox/domino-cascade/internal/sim"
)

// Title is the window title.
const Title = "Domino Cascade"

// App is the interactive viewer.
type App struct {
	cfg  *config.Config
	log  *zap.Logger
	lens camera.Lens

	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Manager
	store    *runlog.Store
	shots    *debug.Screenshots

	sim      *sim.Context
	recorder *runlog.Recorder
}

// New opens the window and builds the scene. Audio and the run log are
// optional: when they fail to start the viewer runs without them.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("fullscreen", cfg.Graphics.Fullscreen),
	)

	a := &App{
		cfg:   cfg,
		log:   log,
		lens:  cfg.Lens(),
		input: input.New(nil),
		shots: debug.NewScreenshots(cfg.Graphics.Screenshot, "dominoes"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The GL context must exist before the renderer.
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:       w,
		Height:      h,
		WoodTexture: cfg.Shading.WoodTexture,
	}, log.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.audio = a.initAudio()
	a.store = a.openStore()
	a.reset()

	log.Info("viewer initialized")
	return a, nil
}

func (a *App) initAudio() *audio.Manager {
	m := audio.New(a.log.Named("audio"))
	if err := m.Init(); err != nil {
		a.log.Warn("audio disabled", zap.Error(err))
		return nil
	}
	m.SetMasterVolume(float64(a.cfg.Audio.MasterVolume))
	m.SetSFXVolume(float64(a.cfg.Audio.SFXVolume))
	m.SetMaxVoices(a.cfg.Audio.MaxVoices)
	m.SetMuted(a.cfg.Audio.Muted)
	if path := a.cfg.Audio.ClackFile; path != "" {
		if err := m.LoadClack(path); err != nil {
			a.log.Warn("using synthesized clack", zap.String("path", path), zap.Error(err))
		}
	}
	return m
}

func (a *App) openStore() *runlog.Store {
	if !a.cfg.Storage.Enabled {
		return nil
	}
	s, err := runlog.Open(a.cfg.Storage.RunDB, a.log.Named("runlog"))
	if err != nil {
		a.log.Warn("run log disabled", zap.Error(err))
		return nil
	}
	return s
}

// reset closes the current run and rebuilds the scene in a fresh world.
func (a *App) reset() {
	a.finishRun()

	a.sim = sim.Build(rigid.NewWorld(rigid.DefaultConfig()), a.cfg.Sim(), a.log.Named("sim"))
	if a.audio != nil {
		a.sim.OnFall(a.clack)
	}
	if a.store != nil {
		rec, err := runlog.NewRecorder(a.store, a.sim, runlog.ModeViewer)
		if err != nil {
			a.log.Warn("run not recorded", zap.Error(err))
		}
		a.recorder = rec
	}
}

func (a *App) clack(ev sim.FallEvent) {
	gain := 1.0
	if ev.Kind == sim.KindGate {
		gain = 1.5
	}
	if err := a.audio.PlayClack(gain); err != nil {
		a.log.Debug("clack dropped", zap.Error(err))
	}
}

func (a *App) finishRun() {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Finish(a.sim); err != nil {
		a.log.Warn("failed to finish run", zap.Error(err))
	}
	a.recorder = nil
}

// Run starts the main loop and returns when the window is closed or Esc is
// pressed.
func (a *App) Run() error {
	a.running = true

	var frameBudget time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")
	for a.running {
		frameStart := time.Now()

		// 1. Input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			if ev.Type == input.EventWindowResize {
				a.renderer.Resize(a.window.DrawableSize())
			}
		}
		for _, act := range a.input.Actions() {
			a.handle(act)
		}
		if !a.running {
			break
		}
		if a.sim.Camera == sim.CameraOverview {
			if dx, dy := a.input.Drag(); dx != 0 || dy != 0 {
				a.sim.Overview.HandleDrag(dx, dy)
			}
			if wheel := a.input.Wheel(); wheel != 0 {
				a.sim.Overview.HandleZoom(wheel)
			}
		}

		// 2. Simulation
		a.sim.Frame()
		if a.recorder != nil && a.sim.FrameCount()%flushEvery == 0 {
			if err := a.recorder.Flush(); err != nil {
				a.log.Warn("failed to flush falls", zap.Error(err))
			}
		}

		// 3. Render and present
		a.renderer.Render(a.sim.Scene, a.sim.View(a.lens, a.renderer.Aspect()))
		a.window.SwapBuffers()

		if frameBudget > 0 {
			if spent := time.Since(frameStart); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("fallen", a.sim.FallenCount()),
				zap.Stringer("camera", a.sim.Camera),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// handle applies one input action.
func (a *App) handle(act input.Action) {
	switch act {
	case input.ActionQuit:
		a.running = false
	case input.ActionReset:
		a.log.Info("resetting scene")
		a.reset()
	case input.ActionScreenshot:
		a.screenshot()
	case input.ActionToggleMute:
		if a.audio != nil {
			a.log.Info("audio", zap.Bool("muted", a.audio.ToggleMute()))
		}
	default:
		if Dispatch(a.sim, act, a.cfg.Camera.YawStep) {
			a.log.Debug("action", zap.Stringer("action", act))
		}
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.Save(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close records the last run and releases every resource.
func (a *App) Close() {
	a.log.Info("closing viewer")

	a.finishRun()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("failed to close run log", zap.Error(err))
		}
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
