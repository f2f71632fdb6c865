package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionConfirm) || !f.Empty() {
		t.Fatal("zero frame should have no actions")
	}

	f.Set(ActionConfirm)
	f.Set(ActionLeft)
	if !f.Has(ActionConfirm) || !f.Has(ActionLeft) {
		t.Error("frame should contain the set actions")
	}
	if f.Has(ActionRight) {
		t.Error("frame should not contain unset actions")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("frame should be empty after Clear")
	}
}

func TestActionString(t *testing.T) {
	if ActionConfirm.String() != "Confirm" {
		t.Errorf("ActionConfirm.String() = %q", ActionConfirm.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("unknown action should stringify as Unknown")
	}
}

func TestInputFrameClick(t *testing.T) {
	f := NewInputFrame()
	if _, _, ok := f.Click(); ok {
		t.Fatal("new frame should have no click")
	}

	f.SetClick(12, 7)
	x, y, ok := f.Click()
	if !ok || x != 12 || y != 7 {
		t.Errorf("Click() = (%d, %d, %v), expected (12, 7, true)", x, y, ok)
	}
	if f.Empty() {
		t.Error("frame with a click should not be empty")
	}

	f.Clear()
	if _, _, ok := f.Click(); ok {
		t.Error("Clear should drop the click")
	}
}
