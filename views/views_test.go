package views

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"askstream/internal/viewmodel"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return sb.String()
}

func sampleStack() viewmodel.StackFragment {
	return viewmodel.StackFragment{
		Cards: []viewmodel.StackCard{
			{ID: "card-1", Title: "Retention", Position: 0, Label: "Retention, card 1 of 2", Draggable: true,
				Style: template.CSS("top:0px;transform:scale(1) rotate(0deg);z-index:2")},
			{ID: "card-2", Title: "Support", Position: 1, Label: "Support, card 2 of 2", TabIndex: -1,
				Style: template.CSS("top:-10px;transform:scale(0.94) rotate(2deg);z-index:1")},
		},
		Keys: []viewmodel.KeyHint{{Keys: "ArrowDown / ArrowRight", Action: "Next card"}},
	}
}

func TestStackFragment(t *testing.T) {
	out := renderString(t, StackFragment(sampleStack()))

	for _, want := range []string{
		`id="card-stack"`,
		`data-card-id="card-1"`,
		`data-draggable="y"`,
		`transform:scale(0.94) rotate(2deg)`,
		`tabindex="-1"`,
		`/dashboard/streams/stack/click`,
		"Next card",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stack fragment missing %q", want)
		}
	}
	if strings.Count(out, "/dashboard/streams/stack/click") != 1 {
		t.Error("only cards behind the top should post clicks")
	}
}

func TestStackFragment_LoadingAndEmpty(t *testing.T) {
	out := renderString(t, StackFragment(viewmodel.StackFragment{Loading: true}))
	if !strings.Contains(out, "skeleton--stack") {
		t.Error("loading stack should render a skeleton")
	}
	out = renderString(t, StackFragment(viewmodel.StackFragment{}))
	if !strings.Contains(out, "No cards") {
		t.Error("empty stack should render the empty state")
	}
}

func TestDashboardFragment(t *testing.T) {
	data := viewmodel.Dashboard{
		Nav:               []viewmodel.NavLink{{Label: "Streams", URL: "/dashboard/streams", Icon: "streams", Active: true}},
		ShowSidebarColumn: true,
		AskBar:            viewmodel.AskBar{Heading: "Ask anything", Badges: []string{"Beta"}},
		Section1:          viewmodel.Section{Title: "Overview", Headline: "Weekly pulse"},
		Section3:          viewmodel.Section{Title: "Signals", ShowChip: true},
		Stack:             sampleStack(),
		Panel: viewmodel.HistoryPanel{
			Bookmarks: []viewmodel.Bookmark{{ID: "bm-1", Title: "Churn", Active: true}},
			Groups: []viewmodel.HistoryGroup{{
				ID: "last7", Title: "Last 7 days", Open: true, HasItems: true, SeeMore: true,
				Items: []viewmodel.HistoryItem{{ID: "h-3", Title: "Refunds"}},
			}},
		},
	}
	out := renderString(t, DashboardFragment(data))

	for _, want := range []string{
		`id="dashboard"`,
		"rail__item--active",
		"Ask anything",
		"Weekly pulse",
		`id="stack-slot"`,
		"/bookmarks/bm-1",
		"list-button--active",
		"/history/groups/last7/toggle",
		"/history/items/h-3",
		"See more",
		"No data sources",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(out, `role="dialog"`) {
		t.Error("closed history dialog should not render")
	}
}

func TestDashboardFragment_LoadError(t *testing.T) {
	out := renderString(t, DashboardFragment(viewmodel.Dashboard{LoadError: "data unavailable"}))
	if !strings.Contains(out, "Failed to load data") || !strings.Contains(out, "data unavailable") {
		t.Error("load error should render the error empty state")
	}
	if !strings.Contains(out, "/dashboard/streams/reload") {
		t.Error("load error should offer a reload")
	}
}

func TestDashboardFragment_Dialog(t *testing.T) {
	data := viewmodel.Dashboard{Dialog: viewmodel.HistoryDialog{Open: true}}
	out := renderString(t, DashboardFragment(data))
	if !strings.Contains(out, `role="dialog"`) {
		t.Error("open dialog should render")
	}
	if !strings.Contains(out, "No history") {
		t.Error("dialog without groups should render the empty state")
	}
}

func TestStreamsPage(t *testing.T) {
	out := renderString(t, StreamsPage(viewmodel.StreamsPage{Title: "Ask Stream", Dashboard: viewmodel.Dashboard{Loading: true}}))
	for _, want := range []string{"<title>Ask Stream</title>", `sse-connect="/dashboard/streams/events"`, "skeleton--askbar"} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestErrorPage(t *testing.T) {
	out := renderString(t, ErrorPage(http.StatusNotFound))
	if !strings.Contains(out, "Page not found") {
		t.Error("404 should say page not found")
	}
	out = renderString(t, ErrorPage(http.StatusInternalServerError))
	if !strings.Contains(out, "An unexpected error occurred") || !strings.Contains(out, "Try Again") {
		t.Error("500 should render the generic message with a retry")
	}
}
