// Package views renders the Ask Stream pages and fragments.
//
// Markup lives in embedded html/template files and is exposed to handlers as
// templ components, so every render goes through the same templ.Component
// pipeline.
package views

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/a-h/templ"

	"askstream/internal/viewmodel"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("views").Funcs(template.FuncMap{
	"emptyState": func(icon, title, description string) viewmodel.EmptyState {
		return viewmodel.EmptyState{Icon: icon, Title: title, Description: description}
	},
	"seq": func(n int) []int {
		return make([]int, n)
	},
}).ParseFS(files, "templates/*.html"))

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

// StreamsPage renders the full Ask Stream document.
func StreamsPage(data viewmodel.StreamsPage) templ.Component {
	return component("page", data)
}

// DashboardFragment renders the swappable dashboard body.
func DashboardFragment(data viewmodel.Dashboard) templ.Component {
	return component("dashboard", data)
}

// StackFragment renders the card stack.
func StackFragment(data viewmodel.StackFragment) templ.Component {
	return component("stack", data)
}

type errorPage struct {
	Status      int
	Message     string
	Description string
}

// ErrorPage renders a standalone error document for status.
func ErrorPage(status int) templ.Component {
	page := errorPage{
		Status:      status,
		Message:     "An unexpected error occurred",
		Description: "Sorry, something went wrong on our end.",
	}
	if status == http.StatusNotFound {
		page.Message = "Page not found"
		page.Description = "The page you are looking for does not exist or has been moved."
	}
	return component("error-page", page)
}
