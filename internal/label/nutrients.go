package label

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// nutrientRule maps a group of name aliases to the units that may follow the value.
//
// When unitRequired is set the token after the value must be one of units or
// the whole match is rejected. Otherwise an unknown unit is dropped and the
// value is recorded bare.
type nutrientRule struct {
	aliases      []string
	units        []string
	unitRequired bool
}

// nutrientRules are tried in order at every token position; the first rule
// that matches wins.
var nutrientRules = []nutrientRule{
	{aliases: []string{"calories", "energy"}, units: []string{"kcal", "kj"}},
	{
		aliases:      []string{"fat", "total fat", "saturated", "saturates", "carbohydrate", "carbs", "sugars", "protein", "fiber"},
		units:        []string{"g"},
		unitRequired: true,
	},
	{aliases: []string{"sodium", "salt", "vitamin c", "vit c", "iron", "calcium"}, units: []string{"mg", "g", "%"}},
	{aliases: []string{"cholesterol"}, units: []string{"mg"}},
	{aliases: []string{"vitamin a", "vit a"}, units: []string{"mcg", "iu"}},
}

// ExtractNutrients reads nutrient values out of the Nutrition Facts text.
//
// The text is tokenized and scanned one token at a time. At each position a
// nutrient alias (possibly several words, e.g. "total fat") followed by a
// numeric token produces an entry keyed by the capitalized alias, with the
// value "<number> <unit>". Positions are never skipped, so overlapping
// matches are all recorded; a repeated name overwrites the earlier value
// and keeps its original position. A name and value in the last two tokens
// are recorded as well; only the unit is then empty.
func ExtractNutrients(raw string) NutrientMap {
	var out NutrientMap
	tokens := tokenize(raw)
	for i := range tokens {
		for _, rule := range nutrientRules {
			if name, value, ok := rule.match(tokens, i); ok {
				out.Set(name, value)
				break
			}
		}
	}
	return out
}

func (r nutrientRule) match(tokens []string, i int) (name, value string, ok bool) {
	for _, alias := range r.aliases {
		words := strings.Fields(alias)
		if !hasWordsAt(tokens, i, words) {
			continue
		}
		v := i + len(words)
		if v >= len(tokens) || !isNumber(tokens[v]) {
			continue
		}

		unit := ""
		if v+1 < len(tokens) && r.acceptsUnit(tokens[v+1]) {
			unit = strings.ToLower(tokens[v+1])
		}
		if unit == "" && r.unitRequired {
			continue
		}

		name = capitalize(alias)
		return name, strings.TrimSpace(tokens[v] + " " + unit), true
	}
	return "", "", false
}

func (r nutrientRule) acceptsUnit(tok string) bool {
	tok = strings.ToLower(tok)
	for _, u := range r.units {
		if tok == u {
			return true
		}
	}
	return false
}

func hasWordsAt(tokens []string, i int, words []string) bool {
	if i+len(words) > len(tokens) {
		return false
	}
	for k, w := range words {
		if !strings.EqualFold(tokens[i+k], w) {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// isNumber reports whether tok is digits with at most one decimal point
// between them.
func isNumber(tok string) bool {
	if tok == "" {
		return false
	}
	dot := false
	for i, r := range tok {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot && i > 0 && i < len(tok)-1:
			dot = true
		default:
			return false
		}
	}
	return true
}

// tokenize splits label text into words, numbers and punctuation.
//
// Whitespace separates tokens. The characters , ; : ( ) / % stand alone. A
// period is kept inside a number ("2.5") and stands alone otherwise. A
// number glued to letters is split, so "120kcal" yields "120" and "kcal".
func tokenize(s string) []string {
	var tokens []string
	runes := []rune(s)
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '.':
			if len(cur) > 0 && isDigit(cur[len(cur)-1]) && i+1 < len(runes) && isDigit(runes[i+1]) {
				cur = append(cur, r)
				continue
			}
			flush()
			tokens = append(tokens, ".")
		case strings.ContainsRune(",;:()/%", r):
			flush()
			tokens = append(tokens, string(r))
		default:
			if len(cur) > 0 && isDigit(cur[len(cur)-1]) != isDigit(r) && cur[len(cur)-1] != '.' {
				flush()
			}
			cur = append(cur, r)
		}
	}
	flush()
	return tokens
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
