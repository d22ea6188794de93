// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed input event.
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
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int // relative motion, or wheel steps
	DeltaY int
	Button uint8
}

// Input handles all input processing and tracks held keys and buttons
// between frames.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events for this frame.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		code := e.Keysym.Scancode
		if e.Type == sdl.KEYDOWN {
			if e.Repeat == 0 {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: code})
			}
			i.held[code] = true
		} else if e.Type == sdl.KEYUP {
			i.events = append(i.events, Event{Type: EventKeyUp, Key: code})
			delete(i.held, code)
		}

	case *sdl.MouseMotionEvent:
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
			i.buttons[e.Button] = true
		} else {
			ev.Type = EventMouseUp
			delete(i.buttons, e.Button)
		}
		i.events = append(i.events, ev)

	case *sdl.MouseWheelEvent:
		i.events = append(i.events, Event{
			Type:   EventMouseWheel,
			DeltaX: int(e.X),
			DeltaY: int(e.Y),
		})
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// IsButtonDown reports whether a mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// Axis returns +1 when positive is held, -1 when negative is held, and 0
// for neither or both.
func (i *Input) Axis(negative, positive sdl.Scancode) float32 {
	var v float32
	if i.held[positive] {
		v++
	}
	if i.held[negative] {
		v--
	}
	return v
}
