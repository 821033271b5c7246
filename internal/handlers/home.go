package handlers

import (
	"html/template"

	"comforttech.in/ac-web/internal/catalog"
	"comforttech.in/ac-web/internal/cms"
	"comforttech.in/ac-web/internal/lead"
)

// HomeView is the landing page content.
type HomeView struct {
	Hero         catalog.Hero
	About        template.HTML
	Services     []ServiceCard
	Highlights   []catalog.Highlight
	AMCPlans     []PlanCard
	Gallery      []catalog.GalleryImage
	Stats        []catalog.Stat
	Milestones   []catalog.Milestone
	Testimonials []catalog.Testimonial
	Areas        []catalog.AreaGroup
	FAQ          []FAQEntry
}

// ServiceCard is one bookable service with its enquiry deep link.
type ServiceCard struct {
	Name       string
	Slug       string
	Icon       string
	Price      string
	Features   []string
	EnquiryURL string
}

// PlanCard is one AMC plan.
type PlanCard struct {
	Name       string
	Visits     string
	Price      string
	Includes   []string
	EnquiryURL string
}

// FAQEntry carries a rendered answer.
type FAQEntry struct {
	ID       int
	Category string
	Question string
	Answer   template.HTML
}

// ServicesView is the pricing page content.
type ServicesView struct {
	Tables []PriceTable
	Notes  []string
}

// PriceTable lists prices for one category.
type PriceTable struct {
	Category    string
	Description string
	Rows        []PriceRow
}

// PriceRow is a single priced item with an enquiry link.
type PriceRow struct {
	Name       string
	Price      string
	Details    string
	EnquiryURL string
}

var pricingNotes = []string{
	"Prices may vary based on AC condition, location, and accessibility",
	"Parts and materials are charged separately if needed",
	"Free inspection for all services",
	"No work done without your approval",
	"All services include warranty",
	"AMC customers get priority support and discounted rates",
}

// BuildHome assembles the landing page from the catalog.
func BuildHome(cat *catalog.Catalog, md *cms.Renderer, linker lead.Linker) *HomeView {
	view := &HomeView{
		Hero:         cat.Hero,
		About:        md.MustRender(cat.Business.About),
		Highlights:   cat.Highlights,
		Gallery:      cat.Gallery,
		Stats:        cat.Stats,
		Milestones:   cat.Milestones,
		Testimonials: cat.Testimonials,
		Areas:        cat.AreasByCity(),
	}
	for _, s := range cat.Services {
		view.Services = append(view.Services, ServiceCard{
			Name:       s.Name,
			Slug:       s.Slug,
			Icon:       s.Icon,
			Price:      s.Price.String(),
			Features:   s.Features,
			EnquiryURL: linker.Enquiry(s.Name),
		})
	}
	for _, p := range cat.AMCPlans {
		view.AMCPlans = append(view.AMCPlans, PlanCard{
			Name:       p.Name,
			Visits:     p.Visits,
			Price:      p.Price.String(),
			Includes:   p.Includes,
			EnquiryURL: linker.Enquiry(p.Name),
		})
	}
	for _, f := range cat.SortedFAQ() {
		view.FAQ = append(view.FAQ, FAQEntry{
			ID:       f.ID,
			Category: f.Category,
			Question: f.Question,
			Answer:   md.MustRender(f.Answer),
		})
	}
	return view
}

// BuildServices assembles the pricing tables.
func BuildServices(cat *catalog.Catalog, linker lead.Linker) *ServicesView {
	view := &ServicesView{Notes: pricingNotes}
	for _, c := range cat.Pricing {
		table := PriceTable{Category: c.Category, Description: c.Description}
		for _, item := range c.Items {
			table.Rows = append(table.Rows, PriceRow{
				Name:       item.Name,
				Price:      item.Price.String(),
				Details:    item.Details,
				EnquiryURL: linker.Enquiry(item.Name),
			})
		}
		view.Tables = append(view.Tables, table)
	}
	return view
}
