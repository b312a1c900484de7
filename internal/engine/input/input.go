// Package input handles SDL2 input events and maps keys to simulation
// actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is a user command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionLaunch
	ActionOverviewCamera
	ActionFollowCamera
	ActionToggleRed
	ActionToggleGreen
	ActionToggleSpot
	ActionToggleAllLights
	ActionYawLeft
	ActionYawRight
	ActionReset
	ActionScreenshot
	ActionToggleShading
	ActionCycleTexture
	ActionCycleMapping
	ActionToggleMute
)

var actionNames = map[Action]string{
	ActionQuit:            "quit",
	ActionLaunch:          "launch",
	ActionOverviewCamera:  "overview-camera",
	ActionFollowCamera:    "follow-camera",
	ActionToggleRed:       "toggle-red",
	ActionToggleGreen:     "toggle-green",
	ActionToggleSpot:      "toggle-spot",
	ActionToggleAllLights: "toggle-all-lights",
	ActionYawLeft:         "yaw-left",
	ActionYawRight:        "yaw-right",
	ActionReset:           "reset",
	ActionScreenshot:      "screenshot",
	ActionToggleShading:   "toggle-shading",
	ActionCycleTexture:    "cycle-texture",
	ActionCycleMapping:    "cycle-mapping",
	ActionToggleMute:      "toggle-mute",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// Bindings maps scancodes to actions.
type Bindings map[sdl.Scancode]Action

// DefaultBindings returns the stock key layout.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_ESCAPE: ActionQuit,
		sdl.SCANCODE_SPACE:  ActionLaunch,
		sdl.SCANCODE_1:      ActionOverviewCamera,
		sdl.SCANCODE_2:      ActionFollowCamera,
		sdl.SCANCODE_3:      ActionToggleRed,
		sdl.SCANCODE_4:      ActionToggleGreen,
		sdl.SCANCODE_5:      ActionToggleSpot,
		sdl.SCANCODE_L:      ActionToggleAllLights,
		sdl.SCANCODE_LEFT:   ActionYawLeft,
		sdl.SCANCODE_RIGHT:  ActionYawRight,
		sdl.SCANCODE_R:      ActionReset,
		sdl.SCANCODE_F12:    ActionScreenshot,
		sdl.SCANCODE_G:      ActionToggleShading,
		sdl.SCANCODE_T:      ActionCycleTexture,
		sdl.SCANCODE_M:      ActionCycleMapping,
		sdl.SCANCODE_N:      ActionToggleMute,
	}
}

// Repeatable reports whether holding the key should fire the action again.
func (a Action) Repeatable() bool {
	return a == ActionYawLeft || a == ActionYawRight
}

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
}

// Input handles all input processing.
type Input struct {
	bindings Bindings
	events   []Event
	actions  []Action

	// Drag accumulates relative mouse motion while the left button is held.
	dragging     bool
	dragX, dragY float32
	wheel        float32
}

// New creates a new input handler with the given key bindings. Nil means
// DefaultBindings.
func New(bindings Bindings) *Input {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Input{
		bindings: bindings,
		events:   make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.Reset()
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := convert(event); ok {
			if i.Handle(ev) {
				quit = true
			}
		}
	}
	return quit
}

// Reset clears the per-frame state.
func (i *Input) Reset() {
	i.events = i.events[:0]
	i.actions = i.actions[:0]
	i.dragX, i.dragY, i.wheel = 0, 0, 0
}

// Handle records one event and the action it triggers. It reports whether
// the event asks to quit.
func (i *Input) Handle(ev Event) bool {
	i.events = append(i.events, ev)

	switch ev.Type {
	case EventQuit:
		i.actions = append(i.actions, ActionQuit)
		return true
	case EventKeyDown:
		a, ok := i.bindings[ev.Key]
		if !ok || (ev.Repeat && !a.Repeatable()) {
			return false
		}
		i.actions = append(i.actions, a)
		return a == ActionQuit
	case EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			i.dragging = true
		}
	case EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			i.dragging = false
		}
	case EventMouseMove:
		if i.dragging {
			i.dragX += float32(ev.DeltaX)
			i.dragY += float32(ev.DeltaY)
		}
	case EventMouseWheel:
		i.wheel += ev.Wheel
	}
	return false
}

func convert(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true
	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}
	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
		case sdl.KEYUP:
			ev.Type = EventKeyUp
		default:
			return Event{}, false
		}
		return ev, true
	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true
	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
		default:
			return Event{}, false
		}
		return ev, true
	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Wheel: float32(e.Y)}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Actions returns the actions triggered since the last Update, in order.
func (i *Input) Actions() []Action {
	return i.actions
}

// Drag returns the mouse motion accumulated this frame while the left
// button was held.
func (i *Input) Drag() (dx, dy float32) {
	return i.dragX, i.dragY
}

// Wheel returns the wheel movement accumulated this frame.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
