package main

import (
	"html/template"
	"net/http"
	"strings"

	"comforttech.in/ac-web/internal/catalog"
	handlersPkg "comforttech.in/ac-web/internal/handlers"
	mw "comforttech.in/ac-web/internal/middleware"
	"comforttech.in/ac-web/internal/nav"
	"comforttech.in/ac-web/internal/seo"
)

const (
	siteName       = "Comfort Technical Services"
	defaultSummary = "Professional AC servicing, installation, gas refill and repair in Pune & Pimpri Chinchwad. Book on WhatsApp in under a minute."
	ogImagePath    = "/assets/img/hero-bg.jpg"
)

// basePage fills the fields every page shares.
func (s *server) basePage(r *http.Request, title, description string) handlersPkg.PageData {
	path := r.URL.Path
	if description == "" {
		description = defaultSummary
	}
	fullTitle := siteName
	if title != "" {
		fullTitle = title + " | " + siteName
	}
	canonical := s.absURL(path)

	crumbs := nav.Breadcrumbs(path)
	vm := handlersPkg.PageData{
		Title:       fullTitle,
		SEO:         seo.NewMeta(siteName, fullTitle, description, canonical, s.absURL(ogImagePath)),
		Analytics:   s.analytics,
		Business:    s.catalog.Business,
		ChatURL:     s.linker.Link("Hi Comfort Technical Services! I'd like to book an AC service."),
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: crumbs,
		CSRFToken:   mw.CSRFToken(r),
		Year:        s.now().Year(),
	}
	vm.JSONLD = append(vm.JSONLD, seo.Script(seo.HVACBusiness(s.businessMarkup())))
	if len(crumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(crumbs))
		for _, c := range crumbs {
			items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: s.absURL(c.Href)})
		}
		vm.JSONLD = append(vm.JSONLD, seo.Script(seo.BreadcrumbList(items)))
	}
	return vm
}

func (s *server) absURL(path string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + path
}

func (s *server) businessMarkup() seo.Business {
	b := s.catalog.Business
	var areas []string
	for _, a := range s.catalog.Areas {
		if a.Active {
			areas = append(areas, a.Name)
		}
	}
	var phone string
	if len(b.Phones) > 0 {
		phone = b.Phones[0]
	}
	rating, reviews := testimonialRating(s.catalog.Testimonials)
	return seo.Business{
		Name:      b.Name,
		URL:       strings.TrimRight(s.cfg.BaseURL, "/"),
		LogoURL:   s.absURL("/assets/img/logo.png"),
		ImageURL:  s.absURL(ogImagePath),
		Telephone: phone,
		Email:     b.Email,
		Locality:  "Pune",
		Region:    "Maharashtra",
		Country:   "IN",
		AreaNames: areas,
		Founded:   b.Since,
		Rating:    rating,
		Reviews:   reviews,
	}
}

func testimonialRating(items []catalog.Testimonial) (float64, int) {
	if len(items) == 0 {
		return 0, 0
	}
	var sum int
	for _, t := range items {
		sum += t.Rating
	}
	return float64(sum) / float64(len(items)), len(items)
}

// gateView configures the loading overlay for pages that show it.
func (s *server) gateView() *handlersPkg.GateView {
	return &handlersPkg.GateView{
		SocketPath:    "/loading/ws",
		Assets:        s.cfg.Gate.Assets,
		MinDurationMS: s.cfg.Gate.MinDuration.Milliseconds(),
	}
}

func faqMarkup(entries []handlersPkg.FAQEntry) template.JS {
	questions := make([]seo.Question, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, seo.Question{Name: e.Question, Answer: string(e.Answer)})
	}
	return seo.Script(seo.FAQPage(questions))
}
