package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var addressFolder = cases.Fold()

// NormalizeAddress returns the cache key form of a free-text address:
// Unicode NFC, case folded, inner whitespace collapsed to single spaces.
// "Avenue  de la JUSTICE" and "avenue de la justice" share a key.
func NormalizeAddress(s string) string {
	s = norm.NFC.String(s)
	s = addressFolder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// MentionsPlace reports whether the address already names place,
// ignoring case and Unicode composition.
func MentionsPlace(address, place string) bool {
	place = NormalizeAddress(place)
	if place == "" {
		return true
	}
	return strings.Contains(NormalizeAddress(address), place)
}

