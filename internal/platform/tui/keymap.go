package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kojo/internal/core"
)

// actionKeys binds keys to activity actions. Movement accepts arrows,
// WASD and vim keys.
var actionKeys = map[string]core.Action{
	"up": core.ActionUp, "w": core.ActionUp, "k": core.ActionUp,
	"down": core.ActionDown, "s": core.ActionDown, "j": core.ActionDown,
	"left": core.ActionLeft, "a": core.ActionLeft, "h": core.ActionLeft,
	"right": core.ActionRight, "d": core.ActionRight, "l": core.ActionRight,
	"enter": core.ActionConfirm, " ": core.ActionConfirm,
	"esc": core.ActionBack, "b": core.ActionBack,
	"p":   core.ActionPause,
	"r":   core.ActionRestart,
	"tab": core.ActionLeaderboard,
}

// menuKeys binds keys in the activity picker.
var menuKeys = map[string]MenuAction{
	"up": MenuActionUp, "w": MenuActionUp, "k": MenuActionUp,
	"down": MenuActionDown, "s": MenuActionDown, "j": MenuActionDown,
	"enter": MenuActionSelect, " ": MenuActionSelect,
	"esc": MenuActionBack, "b": MenuActionBack,
	"tab": MenuActionScoreboard,
}

func isQuitKey(k string) bool {
	return k == "q" || k == "ctrl+c"
}

// KeyMapper translates Bubble Tea input into activity and menu actions.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey returns the action bound to msg (ActionNone if unbound) and
// whether msg asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := msg.String()
	if isQuitKey(k) {
		return core.ActionQuit, true
	}
	if a, ok := actionKeys[k]; ok {
		return a, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame records the key's action in frame and reports a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapMouseToFrame records a left click in the frame.
// Returns false for any other mouse event.
func (km *KeyMapper) MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) bool {
	if !isLeftPress(msg) {
		return false
	}
	frame.SetClick(msg.X, msg.Y)
	return true
}

func isLeftPress(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
}

// MenuAction is an activity picker command.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	k := msg.String()
	if isQuitKey(k) {
		return MenuActionQuit
	}
	return menuKeys[k]
}
