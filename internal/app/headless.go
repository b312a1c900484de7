package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/physics"
	"github.com/Faultbox/domino-cascade/internal/runlog"
	"github.com/Faultbox/domino-cascade/internal/sim"
)

// Summary describes a finished headless run.
type Summary struct {
	RunID   uint
	Bodies  int
	Frames  int
	Fallen  int
	Elapsed time.Duration
}

// flushEvery is how many frames pass between run log writes.
const flushEvery = 120

// Simulate builds the scene in world, launches the ball and steps it for the
// given number of frames without a window. Falls are recorded when store is
// non-nil.
func Simulate(world physics.World, cfg sim.Config, frames int, store *runlog.Store, log *zap.Logger) (Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if frames <= 0 {
		return Summary{}, fmt.Errorf("frames must be positive, got %d", frames)
	}

	start := time.Now()
	c := sim.Build(world, cfg, log.Named("sim"))

	var rec *runlog.Recorder
	if store != nil {
		var err error
		rec, err = runlog.NewRecorder(store, c, runlog.ModeHeadless)
		if err != nil {
			return Summary{}, err
		}
	}

	c.LaunchBall()
	for i := 0; i < frames; i++ {
		c.Frame()
		if rec != nil && (i+1)%flushEvery == 0 {
			if err := rec.Flush(); err != nil {
				return Summary{}, err
			}
		}
	}

	sum := Summary{
		Bodies:  len(c.Bodies),
		Frames:  c.FrameCount(),
		Fallen:  c.FallenCount(),
		Elapsed: time.Since(start),
	}
	if rec != nil {
		if err := rec.Finish(c); err != nil {
			return Summary{}, err
		}
		sum.RunID = rec.Run().ID
	}

	log.Info("headless run complete",
		zap.Uint("run", sum.RunID),
		zap.Int("frames", sum.Frames),
		zap.Int("fallen", sum.Fallen),
		zap.Int("bodies", sum.Bodies),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}
