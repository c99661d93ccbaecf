// Package navigation holds the page title, active menu entry and
// breadcrumbs of a rendered page.
package navigation

import (
	"html/template"
	"strings"

	"github.com/EstateCMS/EstateCMS/internal/schemaorg"
)

// BreadcrumbItem is a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context is the navigation state of a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// Section is an entry of the dashboard sidebar.
type Section struct {
	Key       string
	Title     string
	URL       string
	AdminOnly bool
}

// DashboardSections is the dashboard sidebar in display order.
var DashboardSections = []Section{ //nolint:gochecknoglobals
	{Key: "overview", Title: "Overview", URL: "/dashboard"},
	{Key: "projects", Title: "Projects", URL: "/dashboard/projects"},
	{Key: "news", Title: "News", URL: "/dashboard/news"},
	{Key: "hero-sliders", Title: "Hero Sliders", URL: "/dashboard/hero-sliders"},
	{Key: "landing-pages", Title: "Landing Pages", URL: "/dashboard/landing-pages"},
	{Key: "inquiries", Title: "Contact Inquiries", URL: "/dashboard/inquiries"},
	{Key: "kanban", Title: "Kanban", URL: "/dashboard/kanban"},
	{Key: "website-menu", Title: "Website Menu", URL: "/dashboard/website-menu"},
	{Key: "settings", Title: "Website Settings", URL: "/dashboard/settings", AdminOnly: true},
	{Key: "users", Title: "Users", URL: "/dashboard/users", AdminOnly: true},
	{Key: "profile", Title: "My Profile", URL: "/dashboard/profile"},
}

// NewContext creates a navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb appends a breadcrumb.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// Sections returns the sidebar entries visible to an admin or a regular user.
func Sections(admin bool) []Section {
	out := make([]Section, 0, len(DashboardSections))

	for _, s := range DashboardSections {
		if s.AdminOnly && !admin {
			continue
		}

		out = append(out, s)
	}

	return out
}

// JSONLD renders the breadcrumbs as a schema.org BreadcrumbList with
// absolute URLs under baseURL. It returns "" for fewer than two crumbs.
func (c *Context) JSONLD(baseURL string) template.HTML {
	if len(c.Breadcrumbs) < 2 { //nolint:mnd
		return ""
	}

	base := strings.TrimSuffix(baseURL, "/")
	crumbs := make([]schemaorg.Crumb, 0, len(c.Breadcrumbs))

	for _, b := range c.Breadcrumbs {
		u := b.URL
		if strings.HasPrefix(u, "/") {
			u = base + u
		}

		crumbs = append(crumbs, schemaorg.Crumb{Name: b.Title, URL: u})
	}

	return schemaorg.Script(schemaorg.BreadcrumbList(crumbs))
}
