package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"comforttech.in/ac-web/internal/format"
)

//go:embed catalog.yaml
var embedded []byte

// ErrInvalidCatalog wraps structural problems found while loading catalog data.
var ErrInvalidCatalog = errors.New("catalog: invalid data")

// Catalog is the static content of the site: services, pricing and the
// supporting lists rendered on the landing page.
type Catalog struct {
	Business     Business        `yaml:"business"`
	Hero         Hero            `yaml:"hero"`
	Services     []Service       `yaml:"services"`
	Pricing      []PriceCategory `yaml:"pricing"`
	AMCPlans     []AMCPlan       `yaml:"amc_plans"`
	Highlights   []Highlight     `yaml:"highlights"`
	Milestones   []Milestone     `yaml:"milestones"`
	Stats        []Stat          `yaml:"stats"`
	Testimonials []Testimonial   `yaml:"testimonials"`
	FAQ          []FAQItem       `yaml:"faq"`
	Areas        []Area          `yaml:"areas"`
	Gallery      []GalleryImage  `yaml:"gallery"`
}

// Business holds contact details shown in the header and footer.
type Business struct {
	Name     string   `yaml:"name"`
	Tagline  string   `yaml:"tagline"`
	Since    int      `yaml:"since"`
	WhatsApp string   `yaml:"whatsapp"`
	Phones   []string `yaml:"phones"`
	Email    string   `yaml:"email"`
	Region   string   `yaml:"region"`
	About    string   `yaml:"about"`
}

// Hero is the landing banner: rotating taglines and trust badges.
type Hero struct {
	GSTIN    string   `yaml:"gstin"`
	Taglines []string `yaml:"taglines"`
	Badges   []Badge  `yaml:"badges"`
}

type Badge struct {
	Label string `yaml:"label"`
	Desc  string `yaml:"desc"`
}

// Price is a starting price, a range, or a free-form label such as "Custom quote".
type Price struct {
	From   int64  `yaml:"from,omitempty"`
	To     int64  `yaml:"to,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`
	Label  string `yaml:"label,omitempty"`
}

// String renders the price the way the pricing tables display it.
func (p Price) String() string {
	if p.Label != "" {
		return p.Label
	}
	out := format.INR(p.From)
	if p.To > p.From {
		out += " - " + format.INR(p.To)
	}
	switch {
	case p.Suffix == "":
	case strings.HasPrefix(p.Suffix, "/"):
		out += p.Suffix
	default:
		out += " " + p.Suffix
	}
	return out
}

// Service is one of the bookable services offered in the lead form.
type Service struct {
	Name     string   `yaml:"name"`
	Slug     string   `yaml:"slug"`
	Icon     string   `yaml:"icon"`
	Price    Price    `yaml:"price"`
	Features []string `yaml:"features"`
}

// PriceCategory groups pricing rows on the services page.
type PriceCategory struct {
	Category    string      `yaml:"category"`
	Description string      `yaml:"description"`
	Items       []PriceItem `yaml:"items"`
}

// PriceItem is a single row of a pricing table.
type PriceItem struct {
	Name    string `yaml:"name"`
	Price   Price  `yaml:"price"`
	Details string `yaml:"details"`
}

type AMCPlan struct {
	Name     string   `yaml:"name"`
	Visits   string   `yaml:"visits"`
	Price    Price    `yaml:"price"`
	Includes []string `yaml:"includes"`
}

type Highlight struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Desc  string `yaml:"desc"`
}

type Milestone struct {
	Year  string `yaml:"year"`
	Title string `yaml:"title"`
	Desc  string `yaml:"desc"`
}

type Stat struct {
	Label  string `yaml:"label"`
	Value  int    `yaml:"value"`
	Suffix string `yaml:"suffix"`
}

type Testimonial struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	City   string `yaml:"city"`
	Rating int    `yaml:"rating"`
	Text   string `yaml:"text"`
}

// FAQItem answers are markdown.
type FAQItem struct {
	ID        int    `yaml:"id"`
	Category  string `yaml:"category"`
	SortOrder int    `yaml:"sort_order"`
	Question  string `yaml:"question"`
	Answer    string `yaml:"answer"`
}

type Area struct {
	ID     int    `yaml:"id"`
	City   string `yaml:"city"`
	Name   string `yaml:"name"`
	Active bool   `yaml:"active"`
}

type GalleryImage struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	ImageURL    string `yaml:"image_url"`
	Description string `yaml:"description"`
}

// AreaGroup lists active areas for one city, in catalog order.
type AreaGroup struct {
	City  string
	Areas []Area
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var problems []string
	if strings.TrimSpace(c.Business.Name) == "" {
		problems = append(problems, "business.name")
	}
	if strings.TrimSpace(c.Business.WhatsApp) == "" {
		problems = append(problems, "business.whatsapp")
	}
	if len(c.Services) == 0 {
		problems = append(problems, "services")
	}
	seen := map[string]struct{}{}
	for i, s := range c.Services {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			problems = append(problems, fmt.Sprintf("services[%d].name", i))
			continue
		}
		if _, dup := seen[name]; dup {
			problems = append(problems, fmt.Sprintf("services[%d].name duplicate %q", i, name))
		}
		seen[name] = struct{}{}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, ", "))
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// ServiceNames lists the bookable service labels in display order.
func (c *Catalog) ServiceNames() []string {
	out := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		out = append(out, s.Name)
	}
	return out
}

// Service looks up a service by its exact label.
func (c *Catalog) Service(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// SortedFAQ returns FAQ entries ordered by sort_order, then id.
func (c *Catalog) SortedFAQ() []FAQItem {
	out := make([]FAQItem, len(c.FAQ))
	copy(out, c.FAQ)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder == out[j].SortOrder {
			return out[i].ID < out[j].ID
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// AreasByCity groups active areas by city, keeping first-seen city order.
func (c *Catalog) AreasByCity() []AreaGroup {
	var groups []AreaGroup
	index := map[string]int{}
	for _, a := range c.Areas {
		if !a.Active {
			continue
		}
		i, ok := index[a.City]
		if !ok {
			i = len(groups)
			index[a.City] = i
			groups = append(groups, AreaGroup{City: a.City})
		}
		groups[i].Areas = append(groups[i].Areas, a)
	}
	return groups
}

// Marshal renders the catalog back to YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
