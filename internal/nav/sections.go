package nav

// Section is an in-page anchor on the landing page.
type Section struct {
	ID    string
	Label string
}

// Sections lists the landing page anchors in document order.
var Sections = []Section{
	{ID: "home", Label: "Home"},
	{ID: "services", Label: "Services"},
	{ID: "amc", Label: "AMC Plans"},
	{ID: "gallery", Label: "Gallery"},
	{ID: "about", Label: "About"},
	{ID: "contact", Label: "Contact"},
}

// DefaultSection is active before anything has been observed.
const DefaultSection = "home"

// Observation is how much of a section overlaps the viewport focus band, from 0 to 1.
type Observation struct {
	ID    string
	Ratio float64
}

// RenderedSection is a view model for the section menu.
type RenderedSection struct {
	ID     string
	Href   string
	Label  string
	Active bool
}

// ActiveSection returns the most visible known section. Ties go to the
// section earlier in the page. With nothing visible the previous value is kept.
func ActiveSection(observations []Observation, previous string) string {
	best, bestRatio, bestIndex := "", 0.0, len(Sections)
	for _, o := range observations {
		idx := sectionIndex(o.ID)
		if idx < 0 || o.Ratio <= 0 {
			continue
		}
		if o.Ratio > bestRatio || (o.Ratio == bestRatio && idx < bestIndex) {
			best, bestRatio, bestIndex = o.ID, o.Ratio, idx
		}
	}
	if best != "" {
		return best
	}
	if sectionIndex(previous) >= 0 {
		return previous
	}
	return DefaultSection
}

// BuildSections renders the section menu with active marking.
func BuildSections(active string) []RenderedSection {
	if sectionIndex(active) < 0 {
		active = DefaultSection
	}
	out := make([]RenderedSection, 0, len(Sections))
	for _, s := range Sections {
		out = append(out, RenderedSection{ID: s.ID, Href: "#" + s.ID, Label: s.Label, Active: s.ID == active})
	}
	return out
}

func sectionIndex(id string) int {
	for i, s := range Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
