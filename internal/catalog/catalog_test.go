package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogServices(t *testing.T) {
	t.Parallel()

	c := Default()
	require.Equal(t, []string{
		"AC Servicing",
		"Deep Cleaning",
		"Gas Refill",
		"AC Repair",
		"AC Installation",
		"AMC Plans",
	}, c.ServiceNames())

	svc, ok := c.Service("Gas Refill")
	require.True(t, ok)
	require.Equal(t, "₹2,500", svc.Price.String())
	require.Len(t, svc.Features, 4)

	_, ok = c.Service("gas refill")
	require.False(t, ok, "lookup is exact")
}

func TestDefaultCatalogLists(t *testing.T) {
	t.Parallel()

	c := Default()
	require.Equal(t, "917745046520", c.Business.WhatsApp)
	require.Len(t, c.Testimonials, 3)
	require.Len(t, c.Gallery, 6)
	require.Len(t, c.Highlights, 4)
	require.Len(t, c.Pricing, 4)
	require.Len(t, c.AMCPlans, 3)
	require.Len(t, c.Hero.Taglines, 4)
	require.Len(t, c.Hero.Badges, 4)

	faq := c.SortedFAQ()
	require.Len(t, faq, 10)
	for i := 1; i < len(faq); i++ {
		require.LessOrEqual(t, faq[i-1].SortOrder, faq[i].SortOrder)
	}

	groups := c.AreasByCity()
	require.Len(t, groups, 2)
	require.Equal(t, "Pune", groups[0].City)
	require.Len(t, groups[0].Areas, 15)
	require.Equal(t, "Pimpri Chinchwad", groups[1].City)
	require.Len(t, groups[1].Areas, 12)
}

func TestPriceString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		price Price
		want  string
	}{
		{Price{From: 399}, "₹399"},
		{Price{From: 799, To: 1499}, "₹799 - ₹1,499"},
		{Price{From: 1999, Suffix: "onwards"}, "₹1,999 onwards"},
		{Price{From: 2499, Suffix: "/year"}, "₹2,499/year"},
		{Price{Label: "Custom quote", From: 1}, "Custom quote"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.price.String())
	}
}

func TestParseRejectsDuplicateServices(t *testing.T) {
	t.Parallel()

	raw := []byte(`
business: { name: X, whatsapp: "911234567890" }
services:
  - { name: AC Repair }
  - { name: AC Repair }
`)
	_, err := Parse(raw)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidCatalog))
	require.Contains(t, err.Error(), "duplicate")
}

func TestParseSkipsInactiveAreas(t *testing.T) {
	t.Parallel()

	raw := []byte(`
business: { name: X, whatsapp: "911234567890" }
services: [{ name: AC Repair }]
areas:
  - { id: 1, city: Pune, name: Baner, active: true }
  - { id: 2, city: Pune, name: Wagholi, active: false }
`)
	c, err := Parse(raw)
	require.NoError(t, err)
	groups := c.AreasByCity()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Areas, 1)
	require.Equal(t, "Baner", groups[0].Areas[0].Name)
}
