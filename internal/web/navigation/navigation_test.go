package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Landing Pages", "content", "landing-pages")

	assert.Equal(t, "Landing Pages", ctx.PageTitle)
	assert.Equal(t, "content", ctx.ActiveSection)
	assert.Equal(t, "landing-pages", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Sunrise", "projects", "detail").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Projects", "/projects", false).
		AddBreadcrumb("Sunrise", "/projects/sunrise", true)

	require.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, "Home", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "/projects", ctx.Breadcrumbs[1].URL)
	assert.True(t, ctx.Breadcrumbs[2].Active)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Users", "settings", "users")

	tests := []struct {
		section, page string
		want          bool
	}{
		{"settings", "users", true},
		{"dashboard", "users", false},
		{"settings", "menu", false},
		{"dashboard", "main", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ctx.IsActive(tt.section, tt.page), tt.section+"/"+tt.page)
	}

	assert.True(t, ctx.IsSectionActive("settings"))
	assert.False(t, ctx.IsSectionActive("news"))
}

func TestSections(t *testing.T) {
	all := Sections(true)
	assert.Len(t, all, len(DashboardSections))

	editor := Sections(false)
	for _, s := range editor {
		assert.False(t, s.AdminOnly, s.Key)
	}

	assert.Less(t, len(editor), len(all))
}

func TestContext_JSONLD(t *testing.T) {
	single := NewContext("Home", "home", "").AddBreadcrumb("Home", "/", true)
	assert.Empty(t, single.JSONLD("https://example.com"))

	ctx := NewContext("News", "news", "").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("News", "/news", true)

	out := string(ctx.JSONLD("https://example.com/"))
	assert.Contains(t, out, `"BreadcrumbList"`)
	assert.Contains(t, out, `"item":"https://example.com/news"`)
	assert.Contains(t, out, `"position":2`)
}
