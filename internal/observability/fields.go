package observability

import (
	"strings"
	"unicode"
)

// Rune budgets for request attributes copied into logs and span attributes.
const (
	methodRunes    = 10
	pathRunes      = 180
	addrRunes      = 64
	userAgentRunes = 160
)

const clipMarker = "..."

// clip keeps the printable runes of value. Anything past limit runes is cut
// and replaced with clipMarker.
func clip(value string, limit int) string {
	var b strings.Builder
	b.Grow(min(len(value), limit))
	n := 0
	for _, r := range value {
		if !unicode.IsPrint(r) {
			continue
		}
		if n == limit {
			b.WriteString(clipMarker)
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func logMethod(method string) string {
	return clip(strings.ToUpper(method), methodRunes)
}

// logPath renders a request path or chi route pattern for logs.
func logPath(p string) string {
	if p == "" {
		return "/"
	}
	return clip(p, pathRunes)
}

func logUserAgent(ua string) string {
	return clip(strings.TrimSpace(ua), userAgentRunes)
}
