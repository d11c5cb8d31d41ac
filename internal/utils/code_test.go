package utils

import (
	"strings"
	"testing"
)

func TestGenerateTripCode_Domain(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateTripCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(tripCodeAlphabet, r) {
				t.Fatalf("code %q contains %q, outside the alphabet", code, r)
			}
		}
	}
}

func TestGenerateTripCode_NoAmbiguousChars(t *testing.T) {
	for _, banned := range "0O1IL" {
		if strings.ContainsRune(tripCodeAlphabet, banned) {
			t.Fatalf("alphabet contains ambiguous character %q", banned)
		}
	}
}

func TestNormalizeTripCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abc234", "ABC234"},
		{"  xyz789 ", "XYZ789"},
		{"AbC234", "ABC234"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTripCode(tc.in); got != tc.want {
			t.Errorf("NormalizeTripCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
