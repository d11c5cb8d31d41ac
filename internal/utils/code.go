// Package utils holds small pure helpers: invite-code generation and
// itinerary day grouping.
package utils

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tripCodeAlphabet omits visually ambiguous characters (0/O, 1/I/L).
const tripCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// tripCodeLength is the length of a shareable invite code.
const tripCodeLength = 6

// GenerateTripCode returns a 6-character invite code drawn uniformly from
// the unambiguous alphabet. Not cryptographically secure; collisions are
// handled by bounded retry at trip creation, not by a uniqueness pre-check.
func GenerateTripCode() string {
	b := make([]byte, tripCodeLength)
	for i := range b {
		b[i] = tripCodeAlphabet[rand.IntN(len(tripCodeAlphabet))]
	}
	return string(b)
}

var upper = cases.Upper(language.Und)

// NormalizeTripCode trims whitespace and uppercases a user-entered code so
// lookups match the stored form.
func NormalizeTripCode(code string) string {
	return upper.String(strings.TrimSpace(code))
}
