package lead

import (
	"fmt"
	"net/url"
	"strings"

	"comforttech.in/ac-web/internal/format"
)

const (
	// DefaultNumber is the business WhatsApp number in international form, without "+".
	DefaultNumber = "917745046520"

	messageHeader   = "🔧 New Service Booking Request"
	noDate          = "Not specified"
	noMessage       = "No additional message"
	enquiryTemplate = "Hi Comfort Technical Services! I'm interested in %s. Could you please provide more details about pricing and availability?"
)

// ComposeMessage renders the booking text sent to the business.
func ComposeMessage(s State) string {
	date := noDate
	if s.Date != nil {
		date = format.LeadDate(*s.Date)
	}
	message := s.Message
	if message == "" {
		message = noMessage
	}

	var b strings.Builder
	b.WriteString(messageHeader)
	b.WriteString("\n\n")
	b.WriteString("Name: " + s.Name + "\n")
	b.WriteString("Phone: " + s.Phone + "\n")
	b.WriteString("Service: " + s.Service + "\n")
	b.WriteString("Preferred Date: " + date + "\n")
	b.WriteString("Message: " + message)
	return b.String()
}

// Linker builds wa.me deep links for a WhatsApp number.
type Linker struct {
	Number string
}

// Link returns the deep link that opens a chat prefilled with text.
func (l Linker) Link(text string) string {
	number := l.Number
	if number == "" {
		number = DefaultNumber
	}
	return "https://wa.me/" + number + "?text=" + EncodeComponent(text)
}

// Enquiry returns a link asking about pricing and availability of service.
func (l Linker) Enquiry(service string) string {
	return l.Link(fmt.Sprintf(enquiryTemplate, service))
}

// componentReplacer maps url.QueryEscape output onto encodeURIComponent form.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s for use inside a query value, encoding
// spaces as %20 and leaving the RFC 3986 mark characters intact.
func EncodeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}
