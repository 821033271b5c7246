package seo

import (
	"encoding/json"
	"html/template"
	"strconv"
)

const schemaContext = "https://schema.org"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script renders v as a JSON-LD payload safe for a <script type="application/ld+json"> body.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Business describes the local business for HVACBusiness markup.
type Business struct {
	Name      string
	URL       string
	LogoURL   string
	ImageURL  string
	Telephone string
	Email     string
	Locality  string
	Region    string
	Country   string
	AreaNames []string
	Founded   int
	Rating    float64
	Reviews   int
}

// HVACBusiness returns a schema.org HVACBusiness payload.
func HVACBusiness(b Business) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "HVACBusiness",
		"name":     b.Name,
	}
	if b.URL != "" {
		m["url"] = b.URL
		m["@id"] = b.URL + "#business"
	}
	if b.LogoURL != "" {
		m["logo"] = b.LogoURL
	}
	if b.ImageURL != "" {
		m["image"] = b.ImageURL
	}
	if b.Telephone != "" {
		m["telephone"] = b.Telephone
	}
	if b.Email != "" {
		m["email"] = b.Email
	}
	if b.Founded > 0 {
		m["foundingDate"] = strconv.Itoa(b.Founded)
	}
	if b.Locality != "" || b.Region != "" {
		m["address"] = map[string]any{
			"@type":           "PostalAddress",
			"addressLocality": b.Locality,
			"addressRegion":   b.Region,
			"addressCountry":  b.Country,
		}
	}
	if len(b.AreaNames) > 0 {
		areas := make([]map[string]any, 0, len(b.AreaNames))
		for _, name := range b.AreaNames {
			areas = append(areas, map[string]any{"@type": "Place", "name": name})
		}
		m["areaServed"] = areas
	}
	if b.Reviews > 0 {
		m["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": b.Rating,
			"reviewCount": b.Reviews,
		}
	}
	return m
}

// Question is one FAQ entry.
type Question struct {
	Name   string
	Answer string
}

// FAQPage builds schema.org FAQPage markup.
func FAQPage(questions []Question) map[string]any {
	entities := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  q.Name,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  q.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

// Offer is a priced service.
type Offer struct {
	Name        string
	Description string
	Price       int64 // rupees; zero when priced on inspection
}

// ServiceCatalog builds a Service with an OfferCatalog of priced offers.
func ServiceCatalog(providerURL, name string, offers []Offer) map[string]any {
	items := make([]map[string]any, 0, len(offers))
	for _, o := range offers {
		offer := map[string]any{
			"@type": "Offer",
			"itemOffered": map[string]any{
				"@type":       "Service",
				"name":        o.Name,
				"description": o.Description,
			},
		}
		if o.Price > 0 {
			offer["priceSpecification"] = map[string]any{
				"@type":         "PriceSpecification",
				"price":         o.Price,
				"priceCurrency": "INR",
				"minPrice":      o.Price,
			}
		}
		items = append(items, offer)
	}
	m := map[string]any{
		"@context":    schemaContext,
		"@type":       "Service",
		"serviceType": name,
		"hasOfferCatalog": map[string]any{
			"@type":           "OfferCatalog",
			"name":            name,
			"itemListElement": items,
		},
	}
	if providerURL != "" {
		m["provider"] = map[string]any{"@id": providerURL + "#business"}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}
