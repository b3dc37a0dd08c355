package routes

// SidebarChild is a nested navigation entry under a SidebarItem.
type SidebarChild struct {
	Title string
	URL   string
}

// SidebarItem is a top-level entry in the app shell sidebar.
type SidebarItem struct {
	Title    string
	URL      string
	Icon     string
	Children []SidebarChild

	// allowSubpaths overrides the inferred value when set.
	allowSubpaths *bool
}

// AllowSubpaths reports whether the item stays active on sub-paths.
// Explicit configuration wins; otherwise it is inferred from having children.
func (s SidebarItem) AllowSubpaths() bool {
	if s.allowSubpaths != nil {
		return *s.allowSubpaths
	}
	return len(s.Children) > 0
}

// IsActive reports whether the item should be highlighted for currentPath.
func (s SidebarItem) IsActive(currentPath string) bool {
	return IsRouteActive(currentPath, s.URL, s.AllowSubpaths())
}

// SidebarData groups the main and secondary navigation for the app shell.
type SidebarData struct {
	NavMain      []SidebarItem
	NavSecondary []SidebarItem
}

// Sidebar is the centralized sidebar navigation data.
var Sidebar = SidebarData{
	NavMain: []SidebarItem{
		{
			Title: "Overview",
			URL:   "/overview",
			Icon:  "dashboard",
		},
		{
			Title: "Invoices",
			URL:   "/invoices",
			Icon:  "files",
			Children: []SidebarChild{
				{Title: "Create", URL: "/invoices/create"},
				{Title: "List", URL: "/invoices"},
				{Title: "Payments", URL: "/invoices/payments"},
			},
		},
		{
			Title: "Products",
			URL:   "/products",
			Icon:  "grid",
			Children: []SidebarChild{
				{Title: "Create", URL: "/products/create"},
				{Title: "List", URL: "/products"},
			},
		},
		{
			Title: "Settings",
			URL:   "/settings",
			Icon:  "settings",
			Children: []SidebarChild{
				{Title: "Templates", URL: "/settings/templates"},
				{Title: "Tax Rates", URL: "/settings/tax-rates"},
				{Title: "Team Members", URL: "/settings/team-members"},
			},
		},
	},
	NavSecondary: []SidebarItem{
		{
			Title: "Support",
			URL:   "/support",
			Icon:  "lifebuoy",
		},
		{
			Title: "Feedback",
			URL:   "/feedback",
			Icon:  "send",
		},
	},
}
