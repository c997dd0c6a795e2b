package cardstack

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testCards(ids ...string) []Card {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = Card{ID: id, Title: "title " + id, Subtitle: "sub " + id, Content: i, PaletteKey: i + 1}
	}
	return cards
}

func TestNew_IdentityOrder(t *testing.T) {
	in := testCards("A", "B", "C", "D")
	s := New(in)
	placed := s.Render()
	if len(placed) != len(in) {
		t.Fatalf("len(Render) %d, want %d", len(placed), len(in))
	}
	for i, p := range placed {
		if p.Card.ID != in[i].ID {
			t.Errorf("position %d id %q, want %q", i, p.Card.ID, in[i].ID)
		}
		if p.Position != i {
			t.Errorf("position %d reported as %d", i, p.Position)
		}
	}
}

func TestNew_CopiesInput(t *testing.T) {
	in := testCards("A", "B", "C")
	s := New(in)
	in[0] = Card{ID: "Z"}
	if diff := cmp.Diff([]string{"A", "B", "C"}, s.IDs()); diff != "" {
		t.Errorf("caller mutation leaked into stack (-want +got):\n%s", diff)
	}
	s.Advance()
	s.Reset()
	if diff := cmp.Diff([]string{"A", "B", "C"}, s.IDs()); diff != "" {
		t.Errorf("reset order (-want +got):\n%s", diff)
	}
	if in[1].ID != "B" || in[2].ID != "C" {
		t.Error("stack mutated the caller's slice")
	}
}

func TestNew_Tunables(t *testing.T) {
	s := New(nil)
	if s.OffsetStep() != DefaultOffsetStep || s.ScaleStep() != DefaultScaleStep {
		t.Errorf("defaults %v/%v, want %v/%v", s.OffsetStep(), s.ScaleStep(), DefaultOffsetStep, DefaultScaleStep)
	}
	s = New(nil, WithOffsetStep(0), WithScaleStep(-1))
	if s.OffsetStep() != DefaultOffsetStep || s.ScaleStep() != DefaultScaleStep {
		t.Errorf("non-positive tunables should keep defaults, got %v/%v", s.OffsetStep(), s.ScaleStep())
	}
	s = New(nil, WithOffsetStep(14), WithScaleStep(0.1))
	if s.OffsetStep() != 14 || s.ScaleStep() != 0.1 {
		t.Errorf("tunables %v/%v, want 14/0.1", s.OffsetStep(), s.ScaleStep())
	}
}

func TestStack_Promote(t *testing.T) {
	tests := []struct {
		name     string
		position int
		want     []string
		changed  bool
	}{
		{name: "middle", position: 2, want: []string{"C", "A", "B", "D"}, changed: true},
		{name: "last", position: 3, want: []string{"D", "A", "B", "C"}, changed: true},
		{name: "second", position: 1, want: []string{"B", "A", "C", "D"}, changed: true},
		{name: "front", position: 0, want: []string{"A", "B", "C", "D"}},
		{name: "negative", position: -1, want: []string{"A", "B", "C", "D"}},
		{name: "past end", position: 4, want: []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testCards("A", "B", "C", "D"))
			if got := s.Promote(tt.position); got != tt.changed {
				t.Errorf("Promote(%d) = %t, want %t", tt.position, got, tt.changed)
			}
			if diff := cmp.Diff(tt.want, s.IDs()); diff != "" {
				t.Errorf("order (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStack_Advance(t *testing.T) {
	s := New(testCards("A", "B", "C", "D"))
	if !s.Advance() {
		t.Fatal("Advance should change a 4-card stack")
	}
	if diff := cmp.Diff([]string{"B", "C", "D", "A"}, s.IDs()); diff != "" {
		t.Errorf("order after one advance (-want +got):\n%s", diff)
	}
	s.Advance()
	s.Advance()
	s.Advance()
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, s.IDs()); diff != "" {
		t.Errorf("four advances should restore (-want +got):\n%s", diff)
	}
}

func TestStack_Retreat(t *testing.T) {
	s := New(testCards("A", "B", "C", "D"))
	s.Retreat()
	if diff := cmp.Diff([]string{"D", "A", "B", "C"}, s.IDs()); diff != "" {
		t.Errorf("order after retreat (-want +got):\n%s", diff)
	}
	s.Retreat()
	if diff := cmp.Diff([]string{"C", "D", "A", "B"}, s.IDs()); diff != "" {
		t.Errorf("repeated retreat cycles, not undo (-want +got):\n%s", diff)
	}
}

func TestStack_RetreatUndoesAdvance(t *testing.T) {
	for n := 2; n <= 6; n++ {
		ids := []string{"A", "B", "C", "D", "E", "F"}[:n]
		s := New(testCards(ids...))
		s.Promote(n - 1)
		before := s.IDs()
		s.Advance()
		s.Retreat()
		if diff := cmp.Diff(before, s.IDs()); diff != "" {
			t.Errorf("n=%d retreat(advance(S)) != S (-want +got):\n%s", n, diff)
		}
	}
}

func TestStack_SmallStacksAreNoops(t *testing.T) {
	for _, ids := range [][]string{nil, {"A"}} {
		s := New(testCards(ids...))
		if s.Advance() || s.Retreat() || s.Promote(0) || s.Promote(1) {
			t.Errorf("len=%d: operations should be no-ops", len(ids))
		}
		if s.Apply(DragRelease{OffsetY: 200}) {
			t.Errorf("len=%d: drag should be a no-op", len(ids))
		}
		s.Reset()
		if len(s.IDs()) != len(ids) {
			t.Errorf("len=%d: reset changed size to %d", len(ids), len(s.IDs()))
		}
	}
}

func TestStack_ResetIsUnconditional(t *testing.T) {
	s := New(testCards("A", "B", "C", "D"))
	s.Promote(3)
	s.Advance()
	s.Retreat()
	s.Promote(2)
	s.Reset()
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, s.IDs()); diff != "" {
		t.Errorf("reset (-want +got):\n%s", diff)
	}

	for i := 0; i < 4; i++ {
		s.Advance()
	}
	s.Reset()
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, s.IDs()); diff != "" {
		t.Errorf("reset from an already-original order (-want +got):\n%s", diff)
	}
}

func TestStack_PermutationClosure(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E"}
	s := New(testCards(ids...))
	rng := rand.New(rand.NewSource(7))
	keys := []string{KeyArrowDown, KeyArrowRight, KeyArrowUp, KeyArrowLeft, KeyHome, "Enter"}
	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			s.Apply(Click{Position: rng.Intn(7) - 1})
		case 1:
			s.Apply(DragRelease{OffsetY: float64(rng.Intn(120))})
		default:
			s.Apply(KeyPress{Key: keys[rng.Intn(len(keys))]})
		}
		got := s.IDs()
		sort.Strings(got)
		if diff := cmp.Diff(ids, got); diff != "" {
			t.Fatalf("step %d: card set changed (-want +got):\n%s", i, diff)
		}
	}
}

func TestStack_RenderFormulas(t *testing.T) {
	s := New(testCards("A", "B", "C", "D"))
	placed := s.Render()

	wantOffset := []float64{0, -10, -20, -30}
	wantScale := []float64{1.0, 0.94, 0.88, 0.82}
	wantRotation := []float64{0, 2, 4, 6}
	wantOrder := []int{4, 3, 2, 1}
	for i, p := range placed {
		if p.Params.VerticalOffset != wantOffset[i] {
			t.Errorf("position %d offset %v, want %v", i, p.Params.VerticalOffset, wantOffset[i])
		}
		if math.Abs(p.Params.Scale-wantScale[i]) > 1e-9 {
			t.Errorf("position %d scale %v, want %v", i, p.Params.Scale, wantScale[i])
		}
		if p.Params.RotationDegrees != wantRotation[i] {
			t.Errorf("position %d rotation %v, want %v", i, p.Params.RotationDegrees, wantRotation[i])
		}
		if p.Params.StackOrder != wantOrder[i] {
			t.Errorf("position %d order %d, want %d", i, p.Params.StackOrder, wantOrder[i])
		}
	}
}

func TestStack_RenderFollowsOrder(t *testing.T) {
	s := New(testCards("A", "B", "C"), WithOffsetStep(12), WithScaleStep(0.1))
	s.Promote(2)
	placed := s.Render()
	if placed[0].Card.ID != "C" {
		t.Fatalf("front card %q, want C", placed[0].Card.ID)
	}
	if placed[0].Params.Scale != 1 || placed[0].Params.VerticalOffset != 0 {
		t.Errorf("front params %+v", placed[0].Params)
	}
	if placed[2].Params.VerticalOffset != -24 {
		t.Errorf("back offset %v, want -24", placed[2].Params.VerticalOffset)
	}
	if math.Abs(placed[2].Params.Scale-0.8) > 1e-9 {
		t.Errorf("back scale %v, want 0.8", placed[2].Params.Scale)
	}
	if placed[2].Card.Content != 1 {
		t.Errorf("content should travel with the card, got %v", placed[2].Card.Content)
	}
}

func TestStack_ExactlyOneInteractive(t *testing.T) {
	s := New(testCards("A", "B", "C", "D"))
	for step := 0; step < 8; step++ {
		count := 0
		for i, p := range s.Render() {
			if p.Params.Interactive {
				count++
				if i != 0 {
					t.Errorf("step %d: interactive card at position %d", step, i)
				}
				if p.Params.TabIndex() != 0 {
					t.Errorf("front tab index %d, want 0", p.Params.TabIndex())
				}
			} else if p.Params.TabIndex() != -1 {
				t.Errorf("position %d tab index %d, want -1", i, p.Params.TabIndex())
			}
		}
		if count != 1 {
			t.Errorf("step %d: %d interactive cards, want 1", step, count)
		}
		s.Apply(Click{Position: step % 4})
		s.Advance()
	}
	if got := New(nil).Render(); len(got) != 0 {
		t.Errorf("empty stack rendered %d placements", len(got))
	}
}

func TestGradient_FallsBackToFirstEntry(t *testing.T) {
	first := Gradient(1)
	for _, key := range []int{0, -3, 5, 99} {
		if got := Gradient(key); got != first {
			t.Errorf("Gradient(%d) = %q, want fallback %q", key, got, first)
		}
	}
	seen := map[string]bool{}
	for key := 1; key <= 4; key++ {
		seen[Gradient(key)] = true
	}
	if len(seen) != 4 {
		t.Errorf("palette has %d distinct entries, want 4", len(seen))
	}
}
