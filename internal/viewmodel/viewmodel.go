package viewmodel

import "html/template"

// NavLink is an icon rail entry.
type NavLink struct {
	Label  string
	URL    string
	Icon   string
	Active bool
}

// StreamsPage holds data for the Ask Stream page template.
type StreamsPage struct {
	Title     string
	Dashboard Dashboard
}

// Dashboard is the swappable page body: rail, main grid and dialog.
type Dashboard struct {
	Nav               []NavLink
	RailExpanded      bool
	MobileOpen        bool
	ShowSidebarColumn bool
	Loading           bool
	LoadError         string
	AskBar            AskBar
	Section1          Section
	Section3          Section
	Stack             StackFragment
	DataSources       []DataSource
	Panel             HistoryPanel
	Dialog            HistoryDialog
}

// AskBar holds the heading and input hints.
type AskBar struct {
	Heading     string
	Subheading  string
	Placeholder string
	Badges      []string
}

// Section holds one section card.
type Section struct {
	Title    string
	Headline string
	Body     string
	ShowChip bool
}

// StackFragment holds data for the card stack fragment.
type StackFragment struct {
	Loading bool
	Cards   []StackCard
	Keys    []KeyHint
}

// StackCard is one positioned card.
type StackCard struct {
	ID        string
	Title     string
	Subtitle  string
	Body      string
	Position  int
	Label     string
	TabIndex  int
	Draggable bool
	Style     template.CSS
}

// KeyHint describes a keyboard shortcut.
type KeyHint struct {
	Keys   string
	Action string
}

// DataSource is one row of the data source list.
type DataSource struct {
	Name    string
	Date    string
	Summary string
}

// Bookmark is one bookmark button.
type Bookmark struct {
	ID     string
	Title  string
	Active bool
}

// HistoryItem is one history button.
type HistoryItem struct {
	ID     string
	Title  string
	Active bool
}

// HistoryGroup is a collapsible history group.
type HistoryGroup struct {
	ID       string
	Title    string
	Open     bool
	HasItems bool
	Items    []HistoryItem
	SeeMore  bool
}

// HistoryPanel holds bookmarks and history for the sidebar column or dialog.
type HistoryPanel struct {
	Loading   bool
	Bookmarks []Bookmark
	Groups    []HistoryGroup
}

// HistoryDialog is the full history overlay.
type HistoryDialog struct {
	Open  bool
	Panel HistoryPanel
}

// EmptyState is the placeholder for missing content.
type EmptyState struct {
	Icon        string
	Title       string
	Description string
}
