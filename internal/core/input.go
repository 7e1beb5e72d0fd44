package core

// Action is a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionAimLeft           // A, Left
	ActionAimRight          // D, Right
	ActionJump              // Z, W, Up
	ActionFire              // Space: first press starts charging, next one releases
	ActionZoom              // Tab: toggle the zoomed-out map view
	ActionConfirm           // Enter
	ActionBack              // Escape, B
	ActionRestart           // R after game over
	ActionQuit              // Q, Ctrl+C
	ActionPause             // P
	ActionScreenshot        // Ctrl+S
	ActionCopy              // Ctrl+Y
)

var actionNames = map[Action]string{
	ActionNone:       "None",
	ActionAimLeft:    "AimLeft",
	ActionAimRight:   "AimRight",
	ActionJump:       "Jump",
	ActionFire:       "Fire",
	ActionZoom:       "Zoom",
	ActionConfirm:    "Confirm",
	ActionBack:       "Back",
	ActionRestart:    "Restart",
	ActionQuit:       "Quit",
	ActionPause:      "Pause",
	ActionScreenshot: "Screenshot",
	ActionCopy:       "Copy",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame holds the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
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
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return true
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
