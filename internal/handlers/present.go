package handlers

import (
	"fmt"
	"html/template"
	"strings"

	"askstream/internal/dashboard"
	"askstream/internal/viewmodel"
	"askstream/pkg/cardstack"
)

func buildDashboard(snap dashboard.Snapshot) viewmodel.Dashboard {
	data := snap.Data
	return viewmodel.Dashboard{
		Nav:               toNavLinks(dashboard.StreamsPath),
		RailExpanded:      snap.IconRail.Expanded,
		MobileOpen:        snap.IconRail.MobileOpen,
		ShowSidebarColumn: snap.ShowSidebarColumn,
		Loading:           snap.Loading,
		LoadError:         snap.LoadError,
		AskBar: viewmodel.AskBar{
			Heading:     data.AskBar.Heading,
			Subheading:  data.AskBar.Subheading,
			Placeholder: data.AskBar.Placeholder,
			Badges:      data.AskBar.Badges,
		},
		Section1:    toSection(data.Sections.Section1, true),
		Section3:    toSection(data.Sections.Section3, false),
		Stack:       buildStackFragment(snap),
		DataSources: toDataSources(data.DataSources),
		Panel:       buildHistoryPanel(snap, false),
		Dialog: viewmodel.HistoryDialog{
			Open:  snap.HistoryDialogOpen,
			Panel: buildHistoryPanel(snap, true),
		},
	}
}

func toNavLinks(path string) []viewmodel.NavLink {
	items := dashboard.NavItems()
	out := make([]viewmodel.NavLink, 0, len(items))
	for _, item := range items {
		out = append(out, viewmodel.NavLink{
			Label:  item.Label,
			URL:    item.URL,
			Icon:   item.Icon,
			Active: dashboard.IsActive(item.URL, path),
		})
	}
	return out
}

func toSection(s dashboard.Section, chip bool) viewmodel.Section {
	return viewmodel.Section{Title: s.Title, Headline: s.Headline, Body: s.Body, ShowChip: chip}
}

func toDataSources(sources []dashboard.DataSource) []viewmodel.DataSource {
	out := make([]viewmodel.DataSource, 0, len(sources))
	for _, ds := range sources {
		out = append(out, viewmodel.DataSource{Name: ds.Name, Date: ds.Date, Summary: ds.Summary})
	}
	return out
}

// buildHistoryPanel builds the sidebar column when full is false and the
// dialog body when it is true. The dialog lists every item of every group.
func buildHistoryPanel(snap dashboard.Snapshot, full bool) viewmodel.HistoryPanel {
	panel := viewmodel.HistoryPanel{Loading: snap.Loading}
	for _, bm := range snap.Data.Bookmarks {
		panel.Bookmarks = append(panel.Bookmarks, viewmodel.Bookmark{
			ID:     bm.ID,
			Title:  bm.Title,
			Active: bm.ID == snap.ActiveBookmarkID,
		})
	}
	for _, group := range snap.Data.HistoryGroups {
		items, more := dashboard.VisibleItems(group.Items, full)
		g := viewmodel.HistoryGroup{
			ID:       group.ID,
			Title:    group.Title,
			Open:     full || snap.OpenGroups[group.ID],
			HasItems: len(group.Items) > 0,
			SeeMore:  more && !full,
		}
		for _, item := range items {
			g.Items = append(g.Items, viewmodel.HistoryItem{
				ID:     item.ID,
				Title:  item.Title,
				Active: item.ID == snap.ActiveHistoryID,
			})
		}
		panel.Groups = append(panel.Groups, g)
	}
	return panel
}

func buildStackFragment(snap dashboard.Snapshot) viewmodel.StackFragment {
	frag := viewmodel.StackFragment{Loading: snap.Loading, Keys: keyHints()}
	total := len(snap.Stack)
	for _, p := range snap.Stack {
		frag.Cards = append(frag.Cards, viewmodel.StackCard{
			ID:        p.Card.ID,
			Title:     p.Card.Title,
			Subtitle:  p.Card.Subtitle,
			Body:      cardBody(p.Card.Content),
			Position:  p.Position,
			Label:     fmt.Sprintf("%s, card %d of %d", p.Card.Title, p.Position+1, total),
			TabIndex:  p.Params.TabIndex(),
			Draggable: p.Params.Interactive,
			Style:     cardStyle(p.Params),
		})
	}
	return frag
}

func cardBody(content any) string {
	if content == nil {
		return ""
	}
	if s, ok := content.(string); ok {
		return s
	}
	return fmt.Sprint(content)
}

// cardStyle is assembled from numbers and the fixed palette only, so it is
// safe to mark as CSS.
func cardStyle(p cardstack.Params) template.CSS {
	return template.CSS(fmt.Sprintf(
		"top:%gpx;transform:scale(%.4g) rotate(%gdeg);z-index:%d;background:%s",
		p.VerticalOffset, p.Scale, p.RotationDegrees, p.StackOrder, p.Gradient,
	))
}

func keyHints() []viewmodel.KeyHint {
	bindings := cardstack.Bindings()
	out := make([]viewmodel.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, viewmodel.KeyHint{Keys: strings.Join(b.Keys, " / "), Action: b.Action})
	}
	return out
}
