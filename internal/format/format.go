package format

import (
	"fmt"
	"strings"
	"time"
)

// LeadDateLayout renders preferred visit dates as 05-Mar-2026.
const LeadDateLayout = "02-Jan-2006"

// INR formats a rupee amount with Indian digit grouping.
// Example: INR(150000) => "₹1,50,000"
func INR(rupees int64) string {
	if rupees < 0 {
		return "-₹" + indianSep(-rupees)
	}
	return "₹" + indianSep(rupees)
}

// Currency formats amount in minor units for the currencies the site quotes.
// Example: Currency(249900, "INR") => "₹2,499"
func Currency(minor int64, currency string) string {
	currency = strings.ToUpper(currency)
	switch currency {
	case "INR":
		neg := minor < 0
		if neg {
			minor = -minor
		}
		head := indianSep(minor / 100)
		out := "₹" + head
		if paise := minor % 100; paise != 0 {
			out += fmt.Sprintf(".%02d", paise)
		}
		if neg {
			return "-" + out
		}
		return out
	default:
		return fmt.Sprintf("%s %s", currency, thousandSep(minor))
	}
}

// indianSep groups the last three digits, then pairs: 1234567 => 12,34,567.
func indianSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	out := ""
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out += ","
		}
		out += string(c)
	}
	if neg {
		return "-" + out
	}
	return out
}

// LeadDate formats a preferred visit date the way the booking message carries it.
func LeadDate(t time.Time) string {
	return t.Format(LeadDateLayout)
}

// Date formats time in a short, human friendly form for page copy.
func Date(t time.Time) string {
	return t.Format("2 Jan 2006")
}
