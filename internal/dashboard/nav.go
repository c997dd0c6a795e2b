package dashboard

import "strings"

// NavItem is an entry of the icon rail.
type NavItem struct {
	Icon  string
	URL   string
	Label string
}

// StreamsPath is the route of the Ask Stream page.
const StreamsPath = "/dashboard/streams"

// NavItems returns the icon rail entries in display order.
func NavItems() []NavItem {
	return []NavItem{
		{Icon: "home", URL: "/dashboard", Label: "Dashboard"},
		{Icon: "binoculars", URL: "/dashboard/tests", Label: "Studies"},
		{Icon: "list", URL: "/dashboard/tests", Label: "Studies"},
		{Icon: "grid", URL: "/dashboard/tests", Label: "Studies"},
		{Icon: "waves", URL: StreamsPath, Label: "Streams"},
		{Icon: "users", URL: "/dashboard/team", Label: "Team"},
		{Icon: "settings", URL: "/dashboard/settings", Label: "Settings"},
	}
}

// IsActive reports whether url is the current section for path. The dashboard
// root only matches itself; other entries match their whole subtree.
func IsActive(url, path string) bool {
	if url == "/dashboard" {
		return path == "/dashboard"
	}
	return strings.HasPrefix(path, url)
}
