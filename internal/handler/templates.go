package handler

import (
	"embed"
	"html/template"
	"net/http"

	"lumeo/internal/app/profile"
	"lumeo/internal/configs"
	"lumeo/internal/pkg/csp"
	"lumeo/internal/pkg/logx"
	"lumeo/internal/routes"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"routeActive": routes.IsRouteActive,
}).ParseFS(templateFS, "templates/*.html"))

// pageData is the view model every page template receives.
type pageData struct {
	Brand       Brand
	Title       string
	Description string
	Canonical   string
	Nonce       string
	CurrentPath string

	NavMain      []routes.SidebarItem
	NavSecondary []routes.SidebarItem

	Profile *profile.Profile
	Data    any
}

// newPageData fills the fields shared by every page; handlers set the rest.
func newPageData(cfg *configs.AppConfig, r *http.Request, title, description string) pageData {
	b := siteBrand(cfg)
	if title == "" {
		title = b.Name
	} else {
		title = title + " | " + b.Name
	}
	if description == "" {
		description = b.Description
	}

	return pageData{
		Brand:        b,
		Title:        title,
		Description:  description,
		Canonical:    absoluteURL(cfg, r.URL.Path),
		Nonce:        csp.NonceFromContext(r.Context()),
		CurrentPath:  r.URL.Path,
		NavMain:      routes.Sidebar.NavMain,
		NavSecondary: routes.Sidebar.NavSecondary,
	}
}

// renderPage executes the named template. Render failures after the header is
// written cannot be recovered, so they are only logged.
func renderPage(w http.ResponseWriter, name string, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		logx.Error(err, "Page render failed", "template", name)
	}
}
