package runlog

import (
	"github.com/Faultbox/domino-cascade/internal/sim"
)

// Recorder buffers the fall events of one run and writes them in batches.
type Recorder struct {
	store   *Store
	run     *Run
	pending []sim.FallEvent
	written int
}

// NewRecorder starts a run and subscribes to the context's fall events.
func NewRecorder(store *Store, c *sim.Context, mode string) (*Recorder, error) {
	run, err := store.StartRun(mode, len(c.Bodies))
	if err != nil {
		return nil, err
	}
	r := &Recorder{store: store, run: run}
	c.OnFall(r.record)
	return r, nil
}

func (r *Recorder) record(ev sim.FallEvent) {
	r.pending = append(r.pending, ev)
}

// Run returns the run being recorded.
func (r *Recorder) Run() *Run {
	return r.run
}

// Pending is the number of buffered events.
func (r *Recorder) Pending() int {
	return len(r.pending)
}

// Flush writes buffered events. On error they stay buffered.
func (r *Recorder) Flush() error {
	if err := r.store.AddFalls(r.run.ID, r.pending); err != nil {
		return err
	}
	r.written += len(r.pending)
	r.pending = r.pending[:0]
	return nil
}

// Finish flushes and closes the run with the context's counters.
func (r *Recorder) Finish(c *sim.Context) error {
	if err := r.Flush(); err != nil {
		return err
	}
	return r.store.FinishRun(r.run, c.FrameCount(), c.FallenCount())
}
