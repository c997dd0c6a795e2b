// Package cardstack orders a fixed set of cards as a visual stack and derives
// the per-position transform used to draw it.
//
// Position 0 is the front card. Every operation is a permutation of the
// current order: cards are never added, removed or duplicated.
package cardstack

const (
	// DefaultOffsetStep is the vertical spacing between successive positions.
	DefaultOffsetStep = 10.0
	// DefaultScaleStep is the scale reduction applied per position.
	DefaultScaleStep = 0.06
)

// Card is an immutable stack entry. Content is carried through untouched.
type Card struct {
	ID         string
	Title      string
	Subtitle   string
	Content    any
	PaletteKey int
}

// Option tunes a Stack at construction.
type Option func(*Stack)

// WithOffsetStep sets the vertical offset step. Non-positive values keep the default.
func WithOffsetStep(step float64) Option {
	return func(s *Stack) {
		if step > 0 {
			s.offsetStep = step
		}
	}
}

// WithScaleStep sets the per-position scale step. Non-positive values keep the default.
func WithScaleStep(step float64) Option {
	return func(s *Stack) {
		if step > 0 {
			s.scaleStep = step
		}
	}
}

// Stack holds the current order of a card set. It is not safe for concurrent use.
type Stack struct {
	initial    []Card
	cards      []Card
	offsetStep float64
	scaleStep  float64
}

// New builds a stack in the order given. The input slice is copied.
func New(cards []Card, opts ...Option) *Stack {
	s := &Stack{
		initial:    append([]Card(nil), cards...),
		cards:      append([]Card(nil), cards...),
		offsetStep: DefaultOffsetStep,
		scaleStep:  DefaultScaleStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of cards.
func (s *Stack) Len() int {
	return len(s.cards)
}

// Cards returns a copy of the current order.
func (s *Stack) Cards() []Card {
	return append([]Card(nil), s.cards...)
}

// IDs returns the card ids in current order.
func (s *Stack) IDs() []string {
	ids := make([]string, len(s.cards))
	for i, card := range s.cards {
		ids[i] = card.ID
	}
	return ids
}

// OffsetStep returns the configured vertical offset step.
func (s *Stack) OffsetStep() float64 {
	return s.offsetStep
}

// ScaleStep returns the configured scale step.
func (s *Stack) ScaleStep() float64 {
	return s.scaleStep
}

// Promote moves the card at position to the front. The front card and
// out-of-range positions are ignored. It reports whether the order changed.
func (s *Stack) Promote(position int) bool {
	if position <= 0 || position >= len(s.cards) {
		return false
	}
	card := s.cards[position]
	copy(s.cards[1:position+1], s.cards[:position])
	s.cards[0] = card
	return true
}

// Advance sends the front card to the back.
func (s *Stack) Advance() bool {
	if len(s.cards) <= 1 {
		return false
	}
	front := s.cards[0]
	copy(s.cards, s.cards[1:])
	s.cards[len(s.cards)-1] = front
	return true
}

// Retreat brings the back card to the front.
func (s *Stack) Retreat() bool {
	if len(s.cards) <= 1 {
		return false
	}
	last := len(s.cards) - 1
	back := s.cards[last]
	copy(s.cards[1:], s.cards[:last])
	s.cards[0] = back
	return true
}

// Reset restores the construction order. It always applies, even when the
// current order already matches.
func (s *Stack) Reset() {
	s.cards = append(s.cards[:0], s.initial...)
}

// Render derives the visual parameters of every card at its current position.
func (s *Stack) Render() []Placement {
	total := len(s.cards)
	out := make([]Placement, total)
	for i, card := range s.cards {
		out[i] = Placement{
			Card:     card,
			Position: i,
			Params:   Derive(i, total, s.offsetStep, s.scaleStep, card.PaletteKey),
		}
	}
	return out
}
