// Package textutil provides text processing utilities for turning camera
// metadata strings into filesystem-safe path segments.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxSegmentRunes caps a single path segment; long lens descriptions overflow
// path limits on FAT-formatted cards otherwise.
const maxSegmentRunes = 120

// UnknownSegment is returned when sanitization leaves nothing usable.
const UnknownSegment = "Unknown"

func allowedPunct(r rune) bool {
	switch r {
	case ' ', '.', '_', '-', '(', ')', '+', '[', ']', '#':
		return true
	}
	return false
}

// SanitizeSegment maps an arbitrary metadata string to a single safe path
// segment: NFKC normalization, whitespace trim, disallowed runes replaced by
// spaces, runs of whitespace collapsed, truncated to 120 runes. Returns
// "Unknown" for empty results. The function is idempotent and never emits
// path separators.
func SanitizeSegment(raw string) string {
	value := norm.NFKC.String(strings.TrimSpace(raw))
	if value == "" {
		return UnknownSegment
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || allowedPunct(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(collapsed)
	if len(runes) > maxSegmentRunes {
		collapsed = strings.TrimRight(string(runes[:maxSegmentRunes]), " ")
	}
	if collapsed == "" {
		return UnknownSegment
	}
	return collapsed
}
