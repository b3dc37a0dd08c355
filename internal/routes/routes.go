/*
Package routes is the single source of truth for the application's URL space.

It defines the route classification table mapping path prefixes to categories
(marketing, documentation, auth, protected, customers, error), the sidebar
navigation data derived from it, and the active-route matching rules shared by
the session gate, the sitemap generator, and page rendering.
*/
package routes

import "strings"

// Route is a single classified entry in the route table.
type Route struct {
	// Label is the human-readable name shown in navigation.
	Label string

	// Path is the URL path, unique within its category.
	Path string

	// AllowSubpaths extends the match to sub-paths at segment boundaries.
	// Defaults to false.
	AllowSubpaths bool
}

// Category names a group of routes sharing access semantics.
type Category string

const (
	Marketing     Category = "marketing"
	Documentation Category = "documentation"
	Auth          Category = "auth"
	Protected     Category = "protected"
	Customers     Category = "customers"
	Error         Category = "error"
)

// Table holds every route grouped by category.
var Table = map[Category][]Route{
	Error: {
		{Label: "Auth Error", Path: "/auth/error"},
	},
	Marketing: {
		{Label: "Home", Path: "/"},
	},
	Documentation: {
		{Label: "Docs", Path: "/docs", AllowSubpaths: true},
		{Label: "Code Showcase", Path: "/docs/code-showcase"},
		{Label: "Image Showcase", Path: "/docs/image-showcase"},
		{Label: "Lorem Ipsum", Path: "/docs/lorem-ipsum"},
		{Label: "Table Showcase", Path: "/docs/table-showcase"},
		{Label: "Typography Showcase", Path: "/docs/typography-showcase"},
	},
	Auth: {
		{Label: "OTP and Social Confirmation", Path: "/auth/confirm"},
		{Label: "Login", Path: "/auth/login"},
	},
	Protected: {
		{Label: "Profile", Path: "/profile", AllowSubpaths: true},
	},
	Customers: {
		{Label: "Sarah Johnson", Path: "/customers/sarah-johnson"},
		{Label: "Michael Chen", Path: "/customers/michael-chen"},
		{Label: "Emily Rodriguez", Path: "/customers/emily-rodriguez"},
		{Label: "David Thompson", Path: "/customers/david-thompson"},
		{Label: "Lisa Park", Path: "/customers/lisa-park"},
		{Label: "James Wilson", Path: "/customers/james-wilson"},
		{Label: "Maria Garcia", Path: "/customers/maria-garcia"},
		{Label: "Robert Kim", Path: "/customers/robert-kim"},
	},
}

// Home returns the marketing home path.
func Home() string {
	for _, r := range Table[Marketing] {
		if r.Path == "/" {
			return r.Path
		}
	}
	return "/"
}

// FirstProtected returns the landing route for authenticated users.
// The table invariantly contains at least one protected route.
func FirstProtected() Route {
	return Table[Protected][0]
}

// LoginRoute returns the path of the login route from the auth category.
func LoginRoute() string {
	for _, r := range Table[Auth] {
		if r.Label == "Login" {
			return r.Path
		}
	}
	// The table is static; a missing login route is a programming error.
	panic("routes: login route not found")
}

// PathInCategory reports whether currentPath matches any route in the category:
// an exact match, or a segment-boundary prefix match when the route allows sub-paths.
func PathInCategory(category Category, currentPath string) bool {
	for _, route := range Table[category] {
		if currentPath == route.Path {
			return true
		}
		if route.AllowSubpaths && strings.HasPrefix(currentPath, route.Path+"/") {
			return true
		}
	}
	return false
}

// normalize strips a single trailing slash so accidental trailing slashes in
// config or the current path do not break matching. Root stays as-is.
func normalize(p string) string {
	if p != "/" && strings.HasSuffix(p, "/") {
		return strings.TrimSuffix(p, "/")
	}
	return p
}

// IsRouteActive reports whether routePath should be highlighted as active for
// currentPath, respecting allowSubpaths. Root is special-cased so it never
// claims every path.
func IsRouteActive(currentPath, routePath string, allowSubpaths bool) bool {
	if routePath == "/" {
		return currentPath == "/"
	}

	if normalize(currentPath) == normalize(routePath) {
		return true
	}

	if allowSubpaths {
		base := normalize(routePath)
		return strings.HasPrefix(currentPath, base+"/")
	}

	return false
}
