package cardstack

import "math"

// DragThreshold is the downward release distance the front card must exceed
// to be sent to the back. Non-finite offsets never qualify.
const DragThreshold = 50.0

// Key names follow the DOM KeyboardEvent.key values.
const (
	KeyArrowDown  = "ArrowDown"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowLeft  = "ArrowLeft"
	KeyHome       = "Home"
)

// Event is an interaction applied to a Stack.
type Event interface {
	apply(s *Stack) (handled bool)
}

// Click is a pointer click on the card at Position.
type Click struct {
	Position int
}

// DragRelease ends a drag of the front card. Offsets are relative to the drag start;
// positive OffsetY is downward.
type DragRelease struct {
	OffsetX float64
	OffsetY float64
}

// KeyPress is a keyboard key delivered while the stack is mounted.
type KeyPress struct {
	Key string
}

func (e Click) apply(s *Stack) bool {
	return s.Promote(e.Position)
}

func (e DragRelease) apply(s *Stack) bool {
	if math.IsInf(e.OffsetY, 0) || !(e.OffsetY > DragThreshold) {
		return false
	}
	return s.Advance()
}

func (e KeyPress) apply(s *Stack) bool {
	switch e.Key {
	case KeyArrowDown, KeyArrowRight:
		s.Advance()
	case KeyArrowUp, KeyArrowLeft:
		s.Retreat()
	case KeyHome:
		s.Reset()
	default:
		return false
	}
	return true
}

// Apply runs an event against the stack. For key presses it reports whether
// the key is bound, regardless of whether the order changed; for clicks and
// drags it reports whether the order changed.
func (s *Stack) Apply(e Event) bool {
	if e == nil {
		return false
	}
	return e.apply(s)
}

// IsBoundKey reports whether key maps to a stack operation.
func IsBoundKey(key string) bool {
	switch key {
	case KeyArrowDown, KeyArrowRight, KeyArrowUp, KeyArrowLeft, KeyHome:
		return true
	}
	return false
}

// Binding describes one keyboard shortcut.
type Binding struct {
	Keys   []string
	Action string
}

// Bindings lists the keyboard shortcuts in display order.
func Bindings() []Binding {
	return []Binding{
		{Keys: []string{KeyArrowDown, KeyArrowRight}, Action: "send front card to back"},
		{Keys: []string{KeyArrowUp, KeyArrowLeft}, Action: "bring back card to front"},
		{Keys: []string{KeyHome}, Action: "restore original order"},
	}
}
