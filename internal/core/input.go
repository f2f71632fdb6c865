package core

// Action is a semantic input intent, decoupled from physical keys.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // W, K, Up arrow
	ActionDown               // S, J, Down arrow
	ActionLeft               // A, H, Left arrow
	ActionRight              // D, L, Right arrow
	ActionConfirm            // Enter, Space - select the cell under the cursor
	ActionBack               // B, Escape
	ActionRestart            // R - new board
	ActionQuit               // Q, Ctrl+C
	ActionPause              // P
	ActionLeaderboard        // Tab - toggle leaderboard view
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
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
	case ActionLeaderboard:
		return "Leaderboard"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool

	// Pointer click in screen coordinates, if any.
	clicked        bool
	clickX, clickY int
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

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether no action or click was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && !f.clicked
}

// SetClick records a pointer click at screen position (x, y).
func (f *InputFrame) SetClick(x, y int) {
	f.clicked = true
	f.clickX, f.clickY = x, y
}

// Click returns the recorded click position, if any.
func (f InputFrame) Click() (x, y int, ok bool) {
	return f.clickX, f.clickY, f.clicked
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.clicked = false
}
