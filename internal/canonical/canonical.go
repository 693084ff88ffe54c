// Package canonical normalizes raw market labels into the show identity used
// as the join key across every provider.
package canonical

import (
	"strings"
	"unicode"

	"ShowPulse/internal/domain/models"
)

const seasonMarker = ": season"

// Canonicalize maps a provider-specific label to its canonical show name:
// everything after a case-insensitive ": Season" marker is cut, a trailing
// whitespace-delimited integer is stripped ("Wednesday 2" -> "Wednesday"),
// and surrounding whitespace is trimmed. It is pure, total and idempotent;
// an empty input yields an empty output, which callers must discard.
func Canonicalize(raw string) string {
	name := raw
	if i := strings.Index(strings.ToLower(name), seasonMarker); i >= 0 {
		name = name[:i]
	}
	name = stripTrailingInt(name)
	return strings.TrimSpace(name)
}

// stripTrailingInt removes a final whitespace-delimited run of digits.
func stripTrailingInt(s string) string {
	trimmed := strings.TrimRightFunc(s, unicode.IsSpace)
	i := len(trimmed)
	for i > 0 && trimmed[i-1] >= '0' && trimmed[i-1] <= '9' {
		i--
	}
	// only strip when the digits were a standalone word
	if i < len(trimmed) && i > 0 && unicode.IsSpace(rune(trimmed[i-1])) {
		return trimmed[:i]
	}
	return trimmed
}

// EntitySet derives the de-duplicated canonical entity set from the active
// quotes, preserving first-seen order, paired with the quote that introduced
// each entity. Quotes whose label canonicalizes to the empty string are
// dropped.
func EntitySet(quotes []models.MarketQuote) ([]string, map[string]models.MarketQuote) {
	ordered := make([]string, 0, len(quotes))
	byShow := make(map[string]models.MarketQuote, len(quotes))
	for _, q := range quotes {
		show := Canonicalize(q.Label())
		if show == "" {
			continue
		}
		if _, seen := byShow[show]; seen {
			continue
		}
		ordered = append(ordered, show)
		byShow[show] = q
	}
	return ordered, byShow
}
