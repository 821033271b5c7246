package main

import (
	"net/http"

	"comforttech.in/ac-web/internal/nav"
	"comforttech.in/ac-web/internal/seo"
)

// HomeHandler renders the landing page with the booking form at its current step.
// ?section= marks a section active for clients without scroll tracking.
func (s *server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	vm := s.basePage(r, "", "")
	vm.Title = siteName + " | Professional AC Services in Pune"
	vm.SEO.Title = vm.Title
	vm.SEO.OG.Title = vm.Title
	vm.Sections = nav.BuildSections(nav.ActiveSection(nil, r.URL.Query().Get("section")))
	vm.Home = s.home
	vm.Gate = s.gateView()
	vm.Booking = s.bookingView(r, s.flowFor(r), nil)
	vm.JSONLD = append(vm.JSONLD, faqMarkup(s.home.FAQ))
	s.renderPage(w, r, http.StatusOK, "home", vm)
}

// ServicesHandler renders the pricing tables.
func (s *server) ServicesHandler(w http.ResponseWriter, r *http.Request) {
	vm := s.basePage(r, "Services & Pricing", "Transparent AC service pricing: servicing, installation, gas refill, repairs and AMC in Pune.")
	vm.Services = s.services
	for _, table := range s.services.Tables {
		offers := s.catalogItems(table.Category)
		vm.JSONLD = append(vm.JSONLD, seo.Script(seo.ServiceCatalog(s.cfg.BaseURL, table.Category, offers)))
	}
	s.renderPage(w, r, http.StatusOK, "services", vm)
}

func (s *server) catalogItems(category string) []seo.Offer {
	for _, c := range s.catalog.Pricing {
		if c.Category != category {
			continue
		}
		offers := make([]seo.Offer, 0, len(c.Items))
		for _, item := range c.Items {
			offers = append(offers, seo.Offer{Name: item.Name, Description: item.Details, Price: item.Price.From})
		}
		return offers
	}
	return nil
}

// AreasHandler renders the service-area coverage grouped by city.
func (s *server) AreasHandler(w http.ResponseWriter, r *http.Request) {
	vm := s.basePage(r, "Service Areas", "AC service coverage across Pune and Pimpri Chinchwad.")
	vm.Areas = s.catalog.AreasByCity()
	s.renderPage(w, r, http.StatusOK, "areas", vm)
}
