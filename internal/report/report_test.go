package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/label-tools-mcp/internal/label"
)

func TestMarkdown_FullLabel(t *testing.T) {
	a := label.Analyze(label.Parse(
		"Brand X Ingredients: Water, Sugar, Soy lecithin Nutrition Facts: Calories 120 kcal Fat 2 g Contains: Milk"))

	md := Markdown(a)

	want := []string{
		"## Product Name:\n* **Brand X**\n",
		"## Ingredients:\n* Water, Sugar, Soy lecithin\n",
		"## Nutrition Facts:\n* **Calories**: 120 kcal\n* **Fat**: 2 g\n",
		"## Allergens Detected:\n* Milk, Soy\n",
		"## Dietary Suitability:\n* Low-Fat\n* Vegan-Friendly\n",
		"## Special Notes:\n* Milk\n",
	}
	last := -1
	for _, section := range want {
		i := strings.Index(md, section)
		require.GreaterOrEqual(t, i, 0, "missing section %q in:\n%s", section, md)
		assert.Greater(t, i, last, "section %q out of order", section)
		last = i
	}
	assert.NotContains(t, md, "Raw Nutrition Facts")
	assert.NotContains(t, md, "Vitamins and Minerals")
}

func TestMarkdown_RawNutritionFallback(t *testing.T) {
	a := label.Analyze(label.Parse("Nutrition Facts: per 100 ml: see side panel"))

	md := Markdown(a)
	assert.Contains(t, md, "## Raw Nutrition Facts (couldn't parse fully):\n* per 100 ml: see side panel\n")
	assert.NotContains(t, md, "Dietary Suitability")
	assert.NotContains(t, md, "allergens")
}

func TestMarkdown_NoAllergens(t *testing.T) {
	a := label.Analyze(label.Parse("Ingredients: Water"))

	md := Markdown(a)
	assert.Contains(t, md, "## No major allergens detected.\n")
	assert.Contains(t, md, "* Vegan-Friendly\n")
}

func TestMarkdown_Empty(t *testing.T) {
	assert.Equal(t, Empty, Markdown(label.Analyze(label.Parse("Ingredients: Contains:"))))
	assert.Equal(t, Empty, Markdown(label.Analysis{}))
}

func TestHTML(t *testing.T) {
	a := label.Analyze(label.Parse("Oat Bar Ingredients: Oats, Honey Contains: Gluten"))

	html, err := HTML(a)
	require.NoError(t, err)
	assert.Contains(t, html, "<h2>Product Name:</h2>")
	assert.Contains(t, html, "<strong>Oat Bar</strong>")
	assert.Contains(t, html, "<li>Vegetarian-Friendly</li>")
	assert.Contains(t, html, "<li>Gluten</li>")
}
