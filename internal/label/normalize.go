package label

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks removes combining marks so accented letters keep their base.
// Canonical decomposition only: superscripts and vulgar fractions are left
// intact for the character filter to drop, never turned into digits.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures spells out the Latin typographic ligatures OCR engines emit.
var ligatures = strings.NewReplacer(
	"\uFB00", "ff",
	"\uFB01", "fi",
	"\uFB02", "fl",
	"\uFB03", "ffi",
	"\uFB04", "ffl",
	"\uFB05", "st",
	"\uFB06", "st",
	"\u0152", "OE",
	"\u0153", "oe",
	"\u00C6", "AE",
	"\u00E6", "ae",
)

// Normalize cleans raw OCR output into a single line of label text.
//
// The result contains only ASCII letters, digits, single spaces and the
// punctuation . , ; : % / ( ). Runs of whitespace, including line breaks,
// become one space, and the result is trimmed. Normalize(Normalize(s)) ==
// Normalize(s) for every s.
func Normalize(raw string) string {
	folded, _, err := transform.String(foldMarks, ligatures.Replace(raw))
	if err != nil {
		folded = raw
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case allowedRune(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune(".,;:%/()", r)
}
