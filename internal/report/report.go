// Package report renders label analyses for people.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/ironsheep/label-tools-mcp/internal/label"
)

// Empty is the whole report for an analysis with nothing to show.
const Empty = "No information extracted."

// Markdown renders a as a Markdown document.
//
// Sections appear in a fixed order and only when they have content. The raw
// Nutrition Facts text is shown when no nutrient could be parsed out of it.
func Markdown(a label.Analysis) string {
	rec := a.Record
	var parts []string

	if v := text(rec.ProductName); v != "" {
		parts = append(parts, fmt.Sprintf("## Product Name:\n* **%s**\n", v))
	}
	if v := text(rec.Ingredients); v != "" {
		parts = append(parts, fmt.Sprintf("## Ingredients:\n* %s\n", v))
	}
	if v := text(rec.VitaminsAndMinerals); v != "" {
		parts = append(parts, fmt.Sprintf("## Vitamins and Minerals:\n* %s\n", v))
	}

	if rec.NutritionFacts.Len() > 0 {
		var b strings.Builder
		b.WriteString("## Nutrition Facts:\n")
		for _, name := range rec.NutritionFacts.Keys() {
			value, _ := rec.NutritionFacts.Get(name)
			fmt.Fprintf(&b, "* **%s**: %s\n", name, value)
		}
		parts = append(parts, b.String())
	} else if v := text(rec.NutritionFactsRaw); v != "" {
		parts = append(parts, fmt.Sprintf("## Raw Nutrition Facts (couldn't parse fully):\n* %s\n", v))
	}

	if text(rec.Ingredients) != "" || text(rec.SpecialNotes) != "" {
		if len(a.Allergens) > 0 {
			names := make([]string, len(a.Allergens))
			for i, name := range a.Allergens {
				names[i] = capitalize(name)
			}
			parts = append(parts, fmt.Sprintf("## Allergens Detected:\n* %s\n", strings.Join(names, ", ")))
		} else {
			parts = append(parts, "## No major allergens detected.\n")
		}
	}

	if rec.NutritionFacts.Len() > 0 || text(rec.Ingredients) != "" {
		var b strings.Builder
		b.WriteString("## Dietary Suitability:\n")
		for _, tag := range a.Suitability {
			fmt.Fprintf(&b, "* %s\n", tag)
		}
		parts = append(parts, b.String())
	}

	if v := text(rec.SpecialNotes); v != "" {
		parts = append(parts, fmt.Sprintf("## Special Notes:\n* %s\n", v))
	}

	if len(parts) == 0 {
		return Empty
	}
	return strings.Join(parts, "\n")
}

// HTML renders a as an HTML fragment.
func HTML(a label.Analysis) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(a)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
