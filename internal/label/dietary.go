package label

import (
	"regexp"
	"strconv"
)

// Suitability tags emitted by AssessSuitability.
const (
	TagLowFat         = "Low-Fat"
	TagHighProtein    = "High-Protein"
	TagLowSugar       = "Low-Sugar"
	TagVegan          = "Vegan-Friendly"
	TagVegetarian     = "Vegetarian-Friendly"
	TagNoDietaryClaim = "No specific dietary claims identified."
)

// thresholdCheck emits tag when the named nutrient passes the comparison.
// Values are read as grams; no unit conversion happens.
type thresholdCheck struct {
	nutrient string
	tag      string
	passes   func(float64) bool
}

var thresholdChecks = []thresholdCheck{
	{nutrient: "Fat", tag: TagLowFat, passes: func(v float64) bool { return v < 3 }},
	{nutrient: "Protein", tag: TagHighProtein, passes: func(v float64) bool { return v > 10 }},
	{nutrient: "Sugars", tag: TagLowSugar, passes: func(v float64) bool { return v < 5 }},
}

var (
	veganExcluded      = wordPatterns([]string{"milk", "dairy", "egg", "honey", "beeswax", "whey", "casein", "gelatin"})
	vegetarianExcluded = wordPatterns([]string{"meat", "poultry", "fish", "gelatin", "lactose", "casein"})
	leadingNumber      = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)
)

// AssessSuitability derives dietary tags from nutrient values and ingredients.
//
// Tags come out in check order: Low-Fat, High-Protein, Low-Sugar, then at most
// one of Vegan-Friendly or Vegetarian-Friendly. A nutrient that is missing or
// whose value does not start with a number is skipped. The ingredient checks
// run only when ingredients is non-nil and non-empty. The result is never
// empty; with no tag it holds TagNoDietaryClaim alone.
func AssessSuitability(nutrients NutrientMap, ingredients *string) []string {
	var tags []string
	for _, c := range thresholdChecks {
		v, ok := leadingValue(nutrients, c.nutrient)
		if ok && c.passes(v) {
			tags = append(tags, c.tag)
		}
	}

	if text := deref(ingredients); text != "" {
		switch {
		case !containsAnyWord(text, veganExcluded):
			tags = append(tags, TagVegan)
		case !containsAnyWord(text, vegetarianExcluded):
			tags = append(tags, TagVegetarian)
		}
	}

	if len(tags) == 0 {
		return []string{TagNoDietaryClaim}
	}
	return tags
}

func leadingValue(nutrients NutrientMap, name string) (float64, bool) {
	raw, ok := nutrients.Get(name)
	if !ok {
		return 0, false
	}
	m := leadingNumber.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
