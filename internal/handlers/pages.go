package handlers

import (
	"html/template"

	"comforttech.in/ac-web/internal/catalog"
	"comforttech.in/ac-web/internal/cms"
	"comforttech.in/ac-web/internal/nav"
	"comforttech.in/ac-web/internal/seo"
)

// PageData is the view model for every page rendered with the shared layout.
type PageData struct {
	Title     string
	SEO       seo.Meta
	JSONLD    []template.JS
	Analytics Analytics

	Business    catalog.Business
	ChatURL     string
	Path        string
	Nav         []nav.RenderedItem
	Sections    []nav.RenderedSection
	Breadcrumbs []nav.Crumb
	CSRFToken   string
	Year        int

	// Gate is set on pages that show the loading overlay.
	Gate *GateView

	// Optional per-page view model payloads
	Home     *HomeView
	Services *ServicesView
	Areas    []catalog.AreaGroup
	Content  *cms.Page
	Booking  any
}

// GateView configures the loading overlay script.
type GateView struct {
	SocketPath    string
	Assets        []string
	MinDurationMS int64
}
