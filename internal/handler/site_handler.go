/*
Package handler provides the HTTP handlers and routing setup for the Lumeo web server.

This file contains the server-rendered pages plus the crawler surface:
robots.txt and the XML sitemap, both derived from the route table.
*/
package handler

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lumeo/internal/app/profile"
	"lumeo/internal/app/state"
	"lumeo/internal/pkg/errs"
	"lumeo/internal/pkg/gate"
	"lumeo/internal/pkg/logx"
	"lumeo/internal/pkg/resp"
	"lumeo/internal/routes"
)

// robotsRule is one user-agent block in robots.txt.
type robotsRule struct {
	UserAgent string
	Allow     []string
	Disallow  []string
}

var robotsRules = []robotsRule{
	{UserAgent: "Googlebot", Allow: []string{"/"}, Disallow: []string{"/nogooglebot/"}},
	{UserAgent: "Bingbot", Allow: []string{"/"}, Disallow: []string{"/nobingbot/"}},
	{UserAgent: "Slurp", Allow: []string{"/"}, Disallow: []string{"/noslurp/"}},
	{UserAgent: "Yandex", Allow: []string{"/"}, Disallow: []string{"/noyandexbot/"}},
	{UserAgent: "DuckDuckBot", Allow: []string{"/"}, Disallow: []string{"/noduckduckbot/"}},
	{UserAgent: "Baiduspider", Allow: []string{"/"}, Disallow: []string{"/nobaidubot/"}},
	{UserAgent: "*", Allow: []string{"/"}, Disallow: []string{"/admin/", "/api/", "/private/", "/static/"}},
}

// HandleRobots serves robots.txt with per-bot rules and the sitemap location.
func HandleRobots(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		for _, rule := range robotsRules {
			fmt.Fprintf(&b, "User-agent: %s\n", rule.UserAgent)
			for _, allow := range rule.Allow {
				fmt.Fprintf(&b, "Allow: %s\n", allow)
			}
			for _, disallow := range rule.Disallow {
				fmt.Fprintf(&b, "Disallow: %s\n", disallow)
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Sitemap: %s\n", absoluteURL(deps.Config, "/sitemap.xml"))

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(b.String()))
	}
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// HandleSitemap serves the XML sitemap covering marketing and documentation
// pages. Home carries priority 1.0, other marketing pages 0.8; the docs index
// 0.8, other docs pages 0.6. Auth, protected, and customer pages are excluded.
func HandleSitemap(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lastMod := time.Now().UTC().Format("2006-01-02")

		set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

		for _, route := range routes.Table[routes.Marketing] {
			priority := 0.8
			if route.Path == "/" {
				priority = 1.0
			}
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        absoluteURL(deps.Config, route.Path),
				LastMod:    lastMod,
				ChangeFreq: "yearly",
				Priority:   priority,
			})
		}

		for _, route := range routes.Table[routes.Documentation] {
			priority := 0.6
			if route.Path == "/docs" {
				priority = 0.8
			}
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        absoluteURL(deps.Config, route.Path),
				LastMod:    lastMod,
				ChangeFreq: "yearly",
				Priority:   priority,
			})
		}

		out, err := xml.MarshalIndent(set, "", "  ")
		if err != nil {
			logx.Error(err, "Sitemap marshalling failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(xml.Header))
		w.Write(out)
	}
}

// docPage is the content of a single documentation page.
type docPage struct {
	Slug       string
	Title      string
	Lead       string
	Paragraphs []string
}

var docPages = []docPage{
	{
		Slug:  "typography-showcase",
		Title: "Typography Showcase",
		Lead:  "Headings, body copy, and inline styles as they render across the site.",
		Paragraphs: []string{
			"Every page shares a single typographic scale so headings, paragraphs, and captions stay consistent from the marketing pages through the documentation.",
			"Inline emphasis, links, and code spans inherit the surrounding line height and never shift vertical rhythm.",
		},
	},
	{
		Slug:  "code-showcase",
		Title: "Code Showcase",
		Lead:  "How fenced code blocks and inline snippets are presented.",
		Paragraphs: []string{
			"Code blocks render in a monospaced face with generous padding and a muted background, keeping the focus on the code itself.",
			"Long lines wrap horizontally with a scrollbar instead of reflowing, preserving the author's formatting.",
		},
	},
	{
		Slug:  "image-showcase",
		Title: "Image Showcase",
		Lead:  "Responsive images, captions, and aspect-ratio handling.",
		Paragraphs: []string{
			"Images scale to the content column and keep their intrinsic aspect ratio, with optional captions rendered below in a smaller size.",
			"Remote images from the asset backend are allowed by the security policy; anything else is blocked.",
		},
	},
	{
		Slug:  "table-showcase",
		Title: "Table Showcase",
		Lead:  "Data tables with sticky headers and zebra striping.",
		Paragraphs: []string{
			"Tables stretch to the content column, stripe alternate rows, and keep their header row visible while scrolling.",
			"Numeric columns right-align so magnitudes line up for quick scanning.",
		},
	},
	{
		Slug:  "lorem-ipsum",
		Title: "Lorem Ipsum",
		Lead:  "A long-form placeholder page for testing reading flow.",
		Paragraphs: []string{
			"Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
			"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
			"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.",
		},
	},
}

func docPageBySlug(slug string) (docPage, bool) {
	for _, p := range docPages {
		if p.Slug == slug {
			return p, true
		}
	}
	return docPage{}, false
}

// customerStory is the content of a single customer page.
type customerStory struct {
	Slug    string
	Name    string
	Role    string
	Company string
	Quote   string
	Story   string
}

var customerStories = []customerStory{
	{
		Slug: "sarah-johnson", Name: "Sarah Johnson", Role: "CTO", Company: "Brightline Analytics",
		Quote: "We shipped our customer portal in a weekend.",
		Story: "Brightline moved their reporting portal onto the platform and cut their page response times in half while dropping an entire service from their deployment.",
	},
	{
		Slug: "michael-chen", Name: "Michael Chen", Role: "Head of Engineering", Company: "Northwind Logistics",
		Quote: "The profile and auth flows just worked out of the box.",
		Story: "Northwind replaced a custom session layer with the hosted authentication flow and stopped maintaining three services they had written only to keep logins working.",
	},
	{
		Slug: "emily-rodriguez", Name: "Emily Rodriguez", Role: "Product Lead", Company: "Cascade Health",
		Quote: "Our docs finally live next to the product.",
		Story: "Cascade consolidated their scattered guides into the built-in documentation viewer, and support tickets about outdated instructions stopped within a month.",
	},
	{
		Slug: "david-thompson", Name: "David Thompson", Role: "Founder", Company: "Meridian Labs",
		Quote: "One binary, one database, no surprises.",
		Story: "Meridian runs the whole site from a single deployment, which let a two-person team keep their focus on the product instead of infrastructure.",
	},
	{
		Slug: "lisa-park", Name: "Lisa Park", Role: "VP of Operations", Company: "Harbor Supply Co",
		Quote: "Avatar uploads used to be a whole sprint. Now it is a form.",
		Story: "Harbor's team onboarding flow uses the built-in avatar pipeline, including validation and storage, without writing any upload handling of their own.",
	},
	{
		Slug: "james-wilson", Name: "James Wilson", Role: "Engineering Manager", Company: "Summit Financial",
		Quote: "Security review took a day instead of a quarter.",
		Story: "Summit's compliance team signed off quickly because every response already carried a strict content security policy and the session handling never touched token internals.",
	},
	{
		Slug: "maria-garcia", Name: "Maria Garcia", Role: "Director of Product", Company: "Solstice Media",
		Quote: "Search engines picked us up within the week.",
		Story: "Solstice's marketing pages ship with a generated sitemap and per-bot crawl rules, and their organic traffic doubled after the migration.",
	},
	{
		Slug: "robert-kim", Name: "Robert Kim", Role: "Principal Engineer", Company: "Atlas Robotics",
		Quote: "The observable profile state made our UI trivial.",
		Story: "Atlas built their account area on the session-scoped profile store, so every widget stays in sync after an update without a single manual refresh.",
	},
}

func customerBySlug(slug string) (customerStory, bool) {
	for _, c := range customerStories {
		if c.Slug == slug {
			return c, true
		}
	}
	return customerStory{}, false
}

// HandleHome serves the marketing landing page.
func HandleHome(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(deps.Config, r, "", "")
		data.Data = routes.Table[routes.Customers]
		renderPage(w, "home", http.StatusOK, data)
	}
}

// HandleDocsIndex serves the documentation landing page.
func HandleDocsIndex(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(deps.Config, r, "Docs", "Guides and showcases for building on the platform.")
		data.Data = docPages
		renderPage(w, "docs_index", http.StatusOK, data)
	}
}

// HandleDocPage serves a single documentation page by slug.
func HandleDocPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		page, ok := docPageBySlug(slug)
		if !ok {
			HandleNotFound(deps)(w, r)
			return
		}

		data := newPageData(deps.Config, r, page.Title, page.Lead)
		data.Data = page
		renderPage(w, "doc_page", http.StatusOK, data)
	}
}

// HandleLoginPage serves the email sign-in page.
func HandleLoginPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(deps.Config, r, "Sign in", "Sign in with a one-time email code.")
		renderPage(w, "login", http.StatusOK, data)
	}
}

// HandleAuthErrorPage shows the auth failure page with the message passed in
// the error query parameter.
func HandleAuthErrorPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(deps.Config, r, "Authentication Error", "Something went wrong while signing you in.")
		data.Data = r.URL.Query().Get("error")
		renderPage(w, "auth_error", http.StatusOK, data)
	}
}

// HandleProfilePage serves the authenticated profile page. The session gate
// guarantees a session before this runs; the page seeds a session-scoped
// profile store from a server-side snapshot so the initial render needs no
// client fetch.
func HandleProfilePage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)

		store := profileStateStore(deps, r)

		p, customErr := deps.Profiles.GetProfile(r.Context(), userID)
		if customErr == nil {
			store.Hydrate(&p)
		} else if customErr.Code != errs.ErrProfileNotFound {
			logx.Error(customErr, "Profile page snapshot load failed")
		}

		if err := store.EnsureLoaded(r.Context()); err != nil {
			logx.Warn("Profile state load failed", "error", err.Error())
		}

		data := newPageData(deps.Config, r, "Profile", "Manage your account profile.")
		data.Profile = store.Current()
		renderPage(w, "profile", http.StatusOK, data)
	}
}

// profileStateStore builds the session-scoped profile store for a request,
// wiring its fetch to the profile service and its session check to the gate.
func profileStateStore(deps *AppDeps, r *http.Request) *state.Store {
	userID := currentUserID(r)

	fetch := func(ctx context.Context) (*profile.Profile, error) {
		p, customErr := deps.Profiles.GetProfile(ctx, userID)
		if customErr != nil {
			if customErr.Code == errs.ErrProfileNotFound {
				return nil, nil
			}
			return nil, customErr
		}
		return &p, nil
	}

	hasSession := func(ctx context.Context) bool {
		return gate.ClaimsFromContext(r) != nil
	}

	// The snapshot is fetched in-request, so the settle debounce is pointless
	// here.
	return state.NewStore(fetch, hasSession, state.WithSettleDelay(0))
}

// HandleCustomerPage serves a customer story page by slug.
func HandleCustomerPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		story, ok := customerBySlug(slug)
		if !ok {
			HandleNotFound(deps)(w, r)
			return
		}

		data := newPageData(deps.Config, r, story.Name, story.Quote)
		data.Data = story
		renderPage(w, "customer", http.StatusOK, data)
	}
}

// HandleNotFound serves the 404 page.
func HandleNotFound(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(deps.Config, r, "Page Not Found", "The page you are looking for does not exist.")
		renderPage(w, "not_found", http.StatusNotFound, data)
	}
}
