package label

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ParseOptions tunes ParseWith.
type ParseOptions struct {
	// RepairMarkers rewrites near-miss section markers before segmentation.
	RepairMarkers bool
}

// Parse runs the full text pipeline: Normalize, Segment, ExtractNutrients.
func Parse(raw string) Record {
	return ParseWith(raw, ParseOptions{})
}

// ParseWith is Parse with options.
func ParseWith(raw string, opts ParseOptions) Record {
	text := Normalize(raw)
	if opts.RepairMarkers {
		text = RepairMarkers(text)
	}

	rec := Segment(text)
	if rec.NutritionFactsRaw != nil {
		rec.NutritionFacts = ExtractNutrients(*rec.NutritionFactsRaw)
	}
	return rec
}

// markerWords are the colon-terminated words that end a section marker,
// spelled the way RepairMarkers writes them back.
var markerWords = []string{"Ingredients", "Contains", "Facts", "Minerals"}

// minRepairLen keeps short words such as "Fat:" from being pulled onto a marker.
const minRepairLen = 5

// RepairMarkers fixes single-character OCR slips in section markers.
//
// Each space-separated word ending in ':' whose stem is within edit distance 1
// of a marker word (and at least minRepairLen letters long) is replaced by the
// marker word, e.g. "lngredients:" becomes "Ingredients:". Text is expected to
// be normalized.
func RepairMarkers(text string) string {
	words := strings.Split(text, " ")
	changed := false
	for i, w := range words {
		if len(w) < minRepairLen+1 || !strings.HasSuffix(w, ":") {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(w, ":"))
		for _, mw := range markerWords {
			target := strings.ToLower(mw)
			if stem == target {
				break
			}
			if levenshtein.ComputeDistance(stem, target) <= 1 {
				words[i] = mw + ":"
				changed = true
				break
			}
		}
	}
	if !changed {
		return text
	}
	return strings.Join(words, " ")
}
