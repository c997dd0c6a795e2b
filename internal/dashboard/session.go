package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"askstream/pkg/cardstack"
)

// Panels that can occupy the context column.
const (
	PanelNone    = "none"
	PanelHistory = "history"
)

var (
	// ErrUnknownBookmark is returned when selecting a bookmark that is not in the data.
	ErrUnknownBookmark = errors.New("unknown bookmark")
	// ErrUnknownHistoryItem is returned when selecting a history item that is not in the data.
	ErrUnknownHistoryItem = errors.New("unknown history item")
	// ErrUnknownHistoryGroup is returned when toggling a history group that is not in the data.
	ErrUnknownHistoryGroup = errors.New("unknown history group")
)

// IconRail is the sidebar expand/collapse state shared by the layout.
type IconRail struct {
	Expanded   bool
	MobileOpen bool
}

// Session is the dashboard state of one browser.
type Session struct {
	mu                sync.Mutex
	ID                string
	CreatedAt         time.Time
	IconRail          IconRail
	ActivePanel       string
	ActiveBookmarkID  string
	ActiveHistoryID   string
	OpenGroups        map[string]bool
	HistoryDialogOpen bool
	Loading           bool
	LoadErr           error
	Data              Data

	stackOpts []cardstack.Option
	stack     *cardstack.Stack
	keys      *cardstack.KeyRouter
	mounts    map[int]func()
	nextMount int
}

// NewSession creates a session waiting for its data.
func NewSession(id string, stackOpts ...cardstack.Option) *Session {
	return &Session{
		ID:          id,
		CreatedAt:   time.Now().UTC(),
		ActivePanel: PanelHistory,
		OpenGroups:  make(map[string]bool),
		Loading:     true,
		stackOpts:   stackOpts,
		keys:        cardstack.NewKeyRouter(),
		mounts:      make(map[int]func()),
	}
}

// FinishLoading installs loaded data, or records the load error.
func (s *Session) FinishLoading(data Data, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Loading = false
	if err != nil {
		s.LoadErr = err
		return
	}
	s.LoadErr = nil
	s.Data = data
	s.OpenGroups = make(map[string]bool, len(data.HistoryGroups))
	for _, group := range data.HistoryGroups {
		s.OpenGroups[group.ID] = false
	}
	if s.ActiveBookmarkID != "" && !hasBookmark(data, s.ActiveBookmarkID) {
		s.ActiveBookmarkID = ""
	}
	if s.ActiveHistoryID != "" && !hasHistoryItem(data, s.ActiveHistoryID) {
		s.ActiveHistoryID = ""
	}
	s.replaceStackLocked(cardstack.New(StackCards(data.StackedCards), s.stackOpts...))
}

// Reload puts the session back into the loading state.
func (s *Session) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Loading = true
	s.LoadErr = nil
}

// IsLoading reports whether data is still being loaded.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Loading
}

func (s *Session) replaceStackLocked(stack *cardstack.Stack) {
	for token, unmount := range s.mounts {
		if unmount != nil {
			unmount()
		}
		s.mounts[token] = s.keys.Mount(stack)
	}
	s.stack = stack
}

// MountStack subscribes the session's stack to key presses until the returned
// func is called. The mount follows the stack across reloads.
func (s *Session) MountStack() (unmount func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.nextMount
	s.nextMount++
	var release func()
	if s.stack != nil {
		release = s.keys.Mount(s.stack)
	}
	s.mounts[token] = release

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if release := s.mounts[token]; release != nil {
				release()
			}
			delete(s.mounts, token)
		})
	}
}

// StackMounted reports whether a page currently has the stack mounted.
func (s *Session) StackMounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mounts) > 0
}

// ClickCard promotes the card at position. It reports whether the order changed.
func (s *Session) ClickCard(position int) bool {
	return s.applyStack(cardstack.Click{Position: position})
}

// ReleaseDrag ends a drag of the front card.
func (s *Session) ReleaseDrag(offsetX, offsetY float64) bool {
	return s.applyStack(cardstack.DragRelease{OffsetX: offsetX, OffsetY: offsetY})
}

func (s *Session) applyStack(e cardstack.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return false
	}
	return s.stack.Apply(e)
}

// PressKey delivers a key to the mounted stack. Keys arriving while no page
// is mounted are ignored.
func (s *Session) PressKey(key string) bool {
	handled, _ := s.ApplyKey(key)
	return handled
}

// ApplyKey is PressKey that also reports whether the card order changed. A
// bound key on a single card is handled without changing anything.
func (s *Session) ApplyKey(key string) (handled, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var before []string
	if s.stack != nil {
		before = s.stack.IDs()
	}
	handled = s.keys.Dispatch(key)
	if handled && s.stack != nil {
		changed = !slices.Equal(before, s.stack.IDs())
	}
	return handled, changed
}

// StackIDs returns the card ids in their current order.
func (s *Session) StackIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return nil
	}
	return s.stack.IDs()
}

// ToggleSidebar flips the icon rail between expanded and collapsed.
func (s *Session) ToggleSidebar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IconRail.Expanded = !s.IconRail.Expanded
}

// SetSidebarExpanded sets the icon rail state.
func (s *Session) SetSidebarExpanded(expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IconRail.Expanded = expanded
}

// ToggleMobile flips the mobile menu.
func (s *Session) ToggleMobile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IconRail.MobileOpen = !s.IconRail.MobileOpen
}

// SetMobileOpen sets the mobile menu state.
func (s *Session) SetMobileOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IconRail.MobileOpen = open
}

// SelectBookmark marks a bookmark active and clears the active history item.
func (s *Session) SelectBookmark(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !hasBookmark(s.Data, id) {
		return fmt.Errorf("select %q: %w", id, ErrUnknownBookmark)
	}
	s.ActiveBookmarkID = id
	s.ActiveHistoryID = ""
	return nil
}

// SelectHistoryItem marks a history item active and clears the active bookmark.
func (s *Session) SelectHistoryItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !hasHistoryItem(s.Data, id) {
		return fmt.Errorf("select %q: %w", id, ErrUnknownHistoryItem)
	}
	s.ActiveHistoryID = id
	s.ActiveBookmarkID = ""
	return nil
}

// ToggleHistoryGroup opens or closes a history group.
func (s *Session) ToggleHistoryGroup(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.OpenGroups[id]; !ok {
		return fmt.Errorf("toggle %q: %w", id, ErrUnknownHistoryGroup)
	}
	s.OpenGroups[id] = !s.OpenGroups[id]
	return nil
}

// OpenHistoryDialog shows the full history dialog.
func (s *Session) OpenHistoryDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HistoryDialogOpen = true
}

// CloseHistoryDialog hides the history dialog.
func (s *Session) CloseHistoryDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HistoryDialogOpen = false
}

func hasBookmark(data Data, id string) bool {
	for _, b := range data.Bookmarks {
		if b.ID == id {
			return true
		}
	}
	return false
}

func hasHistoryItem(data Data, id string) bool {
	for _, group := range data.HistoryGroups {
		for _, item := range group.Items {
			if item.ID == id {
				return true
			}
		}
	}
	return false
}

// Snapshot captures the state needed for rendering the page and its fragments.
type Snapshot struct {
	ID                string
	Loading           bool
	LoadError         string
	Data              Data
	IconRail          IconRail
	ActivePanel       string
	ShowSidebarColumn bool
	ActiveBookmarkID  string
	ActiveHistoryID   string
	OpenGroups        map[string]bool
	HistoryDialogOpen bool
	HasBookmarks      bool
	HasHistory        bool
	HasDataSources    bool
	Stack             []cardstack.Placement
	StackMounted      bool
}

// Snapshot returns a consistent view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := make(map[string]bool, len(s.OpenGroups))
	for id, open := range s.OpenGroups {
		groups[id] = open
	}
	snap := Snapshot{
		ID:                s.ID,
		Loading:           s.Loading,
		Data:              s.Data,
		IconRail:          s.IconRail,
		ActivePanel:       s.ActivePanel,
		ShowSidebarColumn: s.ActivePanel == PanelHistory && !s.IconRail.Expanded,
		ActiveBookmarkID:  s.ActiveBookmarkID,
		ActiveHistoryID:   s.ActiveHistoryID,
		OpenGroups:        groups,
		HistoryDialogOpen: s.HistoryDialogOpen,
		HasBookmarks:      len(s.Data.Bookmarks) > 0,
		HasHistory:        len(s.Data.HistoryGroups) > 0,
		HasDataSources:    len(s.Data.DataSources) > 0,
		StackMounted:      len(s.mounts) > 0,
	}
	if s.LoadErr != nil {
		snap.LoadError = s.LoadErr.Error()
	}
	if s.stack != nil {
		snap.Stack = s.stack.Render()
	}
	return snap
}

// historyPreviewLimit is how many items a collapsed-mode group shows before "See more".
const historyPreviewLimit = 3

// VisibleItems returns the items a history group shows and whether more are hidden.
// showMore lists every item.
func VisibleItems(items []HistoryItem, showMore bool) ([]HistoryItem, bool) {
	hasMore := len(items) > historyPreviewLimit
	if showMore || !hasMore {
		return items, hasMore
	}
	return items[:historyPreviewLimit], hasMore
}
