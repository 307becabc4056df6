package core

// Action represents a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - steer / brake, counter-clockwise spin in the air
	ActionRight          // D, Right arrow - push forward, clockwise spin in the air
	ActionJump           // Space - jump while grounded
	ActionSlow           // S, Down - slow-down (held)
	ActionUp             // W, Up - menu navigation
	ActionDown           // menu navigation
	ActionConfirm        // Enter
	ActionBack           // B, Escape
	ActionRestart        // R after the run is over
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionSlow:
		return "Slow"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// PointerPhase is the lifecycle stage of a pointer contact.
type PointerPhase int

const (
	PointerBegan PointerPhase = iota
	PointerMoved
	PointerEnded
)

// PointerEvent is a single touch or mouse contact sample in screen space.
// Y grows downward, matching terminal cell rows.
type PointerEvent struct {
	Phase PointerPhase
	X, Y  float64
}

// InputFrame is the input collected for a single frame: held/pressed
// actions and any pointer events in arrival order.
type InputFrame struct {
	Actions map[Action]bool
	Pointer []PointerEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// AddPointer appends a pointer event.
func (f *InputFrame) AddPointer(ev PointerEvent) {
	f.Pointer = append(f.Pointer, ev)
}

// Axis returns the horizontal axis value in {-1, 0, 1}.
// Opposing directions cancel out.
func (f InputFrame) Axis() float64 {
	axis := 0.0
	if f.Has(ActionLeft) {
		axis--
	}
	if f.Has(ActionRight) {
		axis++
	}
	return axis
}

// Clear resets all actions and pointer events for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer = f.Pointer[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	if len(f.Pointer) > 0 {
		clone.Pointer = append([]PointerEvent(nil), f.Pointer...)
	}
	return clone
}
