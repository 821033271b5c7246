package lead

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MinNameLength    = 3
	MaxMessageLength = 500
	DateLayout       = "2006-01-02"
)

const (
	msgNameShort   = "Name must be at least 3 characters"
	msgNameLetters = "Name must contain only letters and spaces"
	msgPhone       = "Please enter a valid 10-digit Indian phone number"
	msgService     = "Please select a service"
	msgDatePast    = "Date must be today or in the future"
	msgDateInvalid = "Please pick a valid date"
	msgMessageLong = "Message must be less than 500 characters"
	msgMarkup      = "Please remove HTML tags or special markup"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phonePattern = regexp.MustCompile(`^(\+91)?[6-9]\d{9}$`)
	textPolicy   = bluemonday.StrictPolicy()
)

// DefaultLocation is the business time zone used for "today".
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// ValidateName reports the message for an invalid name, or "" when valid.
func ValidateName(name string) string {
	if utf8.RuneCountInString(name) < MinNameLength {
		return msgNameShort
	}
	if !namePattern.MatchString(name) {
		return msgNameLetters
	}
	return ""
}

// ValidatePhone accepts a 10-digit Indian mobile number with an optional +91 prefix.
func ValidatePhone(phone string) string {
	if !phonePattern.MatchString(phone) {
		return msgPhone
	}
	return ""
}

// ValidateService requires service to be one of the offered labels.
func ValidateService(service string, offered []string) string {
	for _, s := range offered {
		if s == service {
			return ""
		}
	}
	return msgService
}

// ValidateDate accepts an absent date or one on or after today's midnight in loc.
func ValidateDate(date *time.Time, now time.Time, loc *time.Location) string {
	if date == nil {
		return ""
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if date.Before(today) {
		return msgDatePast
	}
	return ""
}

// ValidateMessage limits free text to MaxMessageLength characters.
func ValidateMessage(message string) string {
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return msgMessageLong
	}
	return ""
}

// ParseDate reads a YYYY-MM-DD form value as midnight in loc. Blank input yields nil.
func ParseDate(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return nil, &ValidationError{Fields: FieldErrors{FieldDate: msgDateInvalid}, Err: err}
	}
	return &t, nil
}

// CleanText trims value and strips any markup, leaving plain text.
func CleanText(value string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(value)))
}

// HasMarkup reports whether CleanText would change value beyond trimming it.
func HasMarkup(value string) bool {
	return CleanText(value) != strings.TrimSpace(value)
}
