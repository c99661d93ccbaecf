package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// SiteLayout is the layout of public pages.
	SiteLayout = "layouts/site"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the path of a group's own root inside app.Route.
	RouterRootPath = "/"

	// APIPath prefixes every JSON route.
	APIPath = RootPath + "api"

	// DashboardPath prefixes the dashboard pages.
	DashboardPath = RootPath + "dashboard"

	// DashboardAPIPath prefixes the dashboard JSON routes.
	DashboardAPIPath = APIPath + "/dashboard"

	// LoginPath is the login page.
	LoginPath = RootPath + "login"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
