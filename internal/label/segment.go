package label

import "strings"

// Section markers as printed on labels. Matching ignores case.
const (
	MarkerIngredients    = "Ingredients:"
	MarkerNutritionFacts = "Nutrition Facts:"
	MarkerVitamins       = "Vitamins and Minerals:"
	MarkerContains       = "Contains:"
)

// zoneRule describes one field: the text after start up to the nearest stop.
// An empty start anchors the zone at the beginning of the text.
type zoneRule struct {
	start string
	stops []string
	set   func(*Record, *string)
}

var zoneRules = []zoneRule{
	{
		start: "",
		stops: []string{MarkerIngredients, MarkerNutritionFacts},
		set:   func(r *Record, v *string) { r.ProductName = v },
	},
	{
		start: MarkerIngredients,
		stops: []string{MarkerNutritionFacts, MarkerVitamins, MarkerContains},
		set:   func(r *Record, v *string) { r.Ingredients = v },
	},
	{
		start: MarkerVitamins,
		stops: []string{MarkerContains, MarkerNutritionFacts},
		set:   func(r *Record, v *string) { r.VitaminsAndMinerals = v },
	},
	{
		start: MarkerNutritionFacts,
		stops: []string{MarkerIngredients, MarkerContains, MarkerVitamins},
		set:   func(r *Record, v *string) { r.NutritionFactsRaw = v },
	},
	{
		start: MarkerContains,
		set:   func(r *Record, v *string) { r.SpecialNotes = v },
	},
}

// Segment splits normalized label text into its textual zones.
//
// Each zone is located independently: the first occurrence of its start
// marker, then everything up to the nearest marker from its stop set or the
// end of the text. Captures are trimmed and empty captures leave the field
// nil. NutritionFacts is left empty; see ExtractNutrients.
//
// When the text has no "Contains:" marker and no other zone produced
// anything, the whole text is kept as SpecialNotes (possibly the empty
// string) so unrecognized labels are not dropped.
func Segment(text string) Record {
	var rec Record
	for _, rule := range zoneRules {
		if v, ok := captureZone(text, rule.start, rule.stops); ok {
			rule.set(&rec, optional(v))
		}
	}

	if rec.SpecialNotes == nil && indexFold(text, MarkerContains) < 0 && !rec.hasText() {
		notes := strings.TrimSpace(text)
		rec.SpecialNotes = &notes
	}
	return rec
}

func (r Record) hasText() bool {
	return r.ProductName != nil || r.Ingredients != nil || r.VitaminsAndMinerals != nil ||
		r.NutritionFactsRaw != nil || r.SpecialNotes != nil
}

// captureZone returns the text between start and the nearest stop marker.
// ok is false when start does not occur.
func captureZone(text, start string, stops []string) (string, bool) {
	from := 0
	if start != "" {
		i := indexFold(text, start)
		if i < 0 {
			return "", false
		}
		from = i + len(start)
	}

	rest := text[from:]
	end := len(rest)
	for _, stop := range stops {
		if j := indexFold(rest, stop); j >= 0 && j < end {
			end = j
		}
	}
	return rest[:end], true
}

// indexFold is a case-insensitive strings.Index for ASCII markers.
func indexFold(s, marker string) int {
	n := len(marker)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], marker) {
			return i
		}
	}
	return -1
}
