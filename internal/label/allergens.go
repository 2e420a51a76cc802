package label

import (
	"regexp"
	"sort"
)

// Allergens is the vocabulary DetectAllergens looks for.
var Allergens = []string{
	"milk", "dairy", "lactose", "egg", "eggs", "peanut", "peanuts", "tree nut", "tree nuts",
	"almond", "cashew", "walnut", "soy", "soybean", "wheat", "gluten", "fish", "shellfish",
	"shrimp", "crab", "lobster", "sesame", "sulfites",
}

// AllergenSet is a set of allergen terms from the Allergens vocabulary.
type AllergenSet map[string]struct{}

// Sorted returns the terms in alphabetical order.
func (s AllergenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for term := range s {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

var allergenPatterns = wordPatterns(Allergens)

// DetectAllergens returns every vocabulary term that occurs in text as a
// whole word, ignoring case. "almonds" does not match "almond".
func DetectAllergens(text string) AllergenSet {
	found := AllergenSet{}
	for i, re := range allergenPatterns {
		if re.MatchString(text) {
			found[Allergens[i]] = struct{}{}
		}
	}
	return found
}

// wordPatterns compiles a case-insensitive whole-word matcher per term.
func wordPatterns(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return out
}

func containsAnyWord(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
