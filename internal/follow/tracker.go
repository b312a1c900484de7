// Package follow drives the follow camera along the toppling wavefront.
//
// Subjects are appended to an ordered, duplicate-free list the first time
// they move fast enough. The camera rests on the current subject until that
// subject has slowed down and the camera has caught up, then glides to the
// next one.
package follow

import "github.com/Faultbox/domino-cascade/pkg/math"

// Subject is anything the camera can follow.
type Subject interface {
	Position() math.Vec3
	Speed() float32
}

// State of the camera state machine.
type State int

const (
	Idle State = iota
	Transitioning
)

// String returns the state name.
func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Config tunes the tracker.
type Config struct {
	// Lerp is the per-frame smoothing factor and transition increment.
	Lerp float32
	// AppendSpeed is the speed a subject must exceed to join the list.
	AppendSpeed float32
	// AdvanceSpeed is the speed the current subject must drop below before
	// the camera moves on.
	AdvanceSpeed float32
	// CatchUpDistance is how close the camera must be to its desired
	// position before it may move on.
	CatchUpDistance float32
	// Complete is the transition progress at which the cursor advances.
	Complete float32
	// Offset is the camera position relative to the subject at zero yaw.
	Offset math.Vec3
	// Start is the initial camera position.
	Start math.Vec3
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Lerp:            0.15,
		AppendSpeed:     1,
		AdvanceSpeed:    1,
		CatchUpDistance: 1.5,
		Complete:        0.999,
		Offset:          math.Vec3{X: -6, Y: 4, Z: 6},
		Start:           math.Vec3{X: -15, Y: 3, Z: -8},
	}
}

// Tracker is the follow-target list and camera state machine.
type Tracker struct {
	cfg Config

	targets []Subject
	present map[Subject]struct{}
	index   int

	state    State
	progress float32
	from, to math.Vec3

	yaw    float32
	offset math.Vec3

	camera math.Vec3
	lookAt math.Vec3
	spot   math.Vec3
}

// New creates a tracker whose list starts with head. The list is
// append-only and the cursor only moves onto a listed subject, so head
// stays reachable for the tracker's lifetime.
func New(cfg Config, head Subject) *Tracker {
	t := &Tracker{
		cfg:     cfg,
		present: make(map[Subject]struct{}),
		offset:  cfg.Offset,
		camera:  cfg.Start,
	}
	if head != nil {
		t.push(head)
	}
	return t
}

func (t *Tracker) push(s Subject) {
	t.targets = append(t.targets, s)
	t.present[s] = struct{}{}
}

// Offer appends s if it is moving faster than the append threshold and is
// not already listed. It reports whether s was appended.
func (t *Tracker) Offer(s Subject) bool {
	if s == nil || s.Speed() <= t.cfg.AppendSpeed {
		return false
	}
	if _, ok := t.present[s]; ok {
		return false
	}
	t.push(s)
	return true
}

// Contains reports whether s is in the list.
func (t *Tracker) Contains(s Subject) bool {
	_, ok := t.present[s]
	return ok
}

// AdjustYaw rotates the camera offset about +Y by delta radians.
func (t *Tracker) AdjustYaw(delta float32) {
	t.yaw += delta
	t.offset = t.cfg.Offset.RotateY(t.yaw)
}

func (t *Tracker) current() Subject {
	if t.index < len(t.targets) {
		return t.targets[t.index]
	}
	return nil
}

func (t *Tracker) next() Subject {
	if t.index+1 < len(t.targets) {
		return t.targets[t.index+1]
	}
	return nil
}

// Update advances the camera by one frame.
func (t *Tracker) Update() {
	cur := t.current()
	if cur == nil {
		return
	}
	next := t.next()

	if t.state == Transitioning && next == nil {
		t.state = Idle
	}

	switch t.state {
	case Idle:
		desired := cur.Position().Add(t.offset)
		t.camera = t.camera.Lerp(desired, t.cfg.Lerp)
		t.lookAt = cur.Position()

		if next != nil && t.shouldAdvance(cur, desired) {
			t.state = Transitioning
			t.progress = 0
			t.from = t.camera
			t.to = next.Position().Add(t.offset)
		}
		t.spot = t.spot.Lerp(cur.Position(), t.cfg.Lerp)

	case Transitioning:
		t.progress += t.cfg.Lerp
		if t.progress > 1 {
			t.progress = 1
		}
		t.camera = t.from.Lerp(t.to, t.progress)
		t.lookAt = cur.Position().Lerp(next.Position(), t.progress)
		t.spot = t.spot.Lerp(t.lookAt, t.cfg.Lerp)

		if t.progress >= t.cfg.Complete {
			t.index++
			t.state = Idle
		}
	}
}

func (t *Tracker) shouldAdvance(cur Subject, desired math.Vec3) bool {
	return cur.Speed() < t.cfg.AdvanceSpeed &&
		t.camera.Distance(desired) < t.cfg.CatchUpDistance
}

// Camera returns the camera position and look-at point.
func (t *Tracker) Camera() (position, lookAt math.Vec3) {
	return t.camera, t.lookAt
}

// SpotTarget returns the smoothed point the spot light should aim at.
func (t *Tracker) SpotTarget() math.Vec3 {
	return t.spot
}

// Index returns the cursor.
func (t *Tracker) Index() int { return t.index }

// State returns the state machine state.
func (t *Tracker) State() State { return t.state }

// Progress returns the transition progress in [0, 1].
func (t *Tracker) Progress() float32 { return t.progress }

// Anchors returns the start and end camera positions of the current
// transition.
func (t *Tracker) Anchors() (from, to math.Vec3) { return t.from, t.to }

// Len returns the number of listed subjects.
func (t *Tracker) Len() int { return len(t.targets) }

// Targets returns a copy of the list.
func (t *Tracker) Targets() []Subject {
	out := make([]Subject, len(t.targets))
	copy(out, t.targets)
	return out
}
