// Package recipes stores recipes and turns them into shopping-list input:
// free-text ingredient parsing, PDF text extraction for uploads, and
// cross-recipe ingredient aggregation.
package recipes

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"larder/internal/shopping"
)

// ingredientLinePattern splits "2 cups flour" into quantity, unit, and name.
// The unit group is optional so "3 eggs" parses as quantity plus name.
var ingredientLinePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?(?:/\d+)?)\s*([a-zA-Z]+)?\s+(.+)$`)

// ParseIngredientLine parses one free-text ingredient line. Lines without a
// leading quantity come back with the whole line as the name.
func ParseIngredientLine(line string) shopping.IngredientLine {
	line = strings.TrimSpace(line)
	if match := ingredientLinePattern.FindStringSubmatch(line); match != nil {
		return shopping.IngredientLine{
			Quantity: match[1],
			Unit:     match[2],
			Name:     strings.TrimSpace(match[3]),
		}
	}
	return shopping.IngredientLine{Name: line}
}

// ManualRecipe is the result of parsing a pasted recipe text.
type ManualRecipe struct {
	Name        string
	Description string
	Servings    int
	Ingredients []shopping.IngredientLine
	Method      string
}

var methodMarkers = []string{"method", "instruction", "direction", "step"}

// ParseManualRecipe parses a copy-pasted recipe. The first non-empty line is
// the name; lines after an "Ingredients" heading are ingredient lines, lines
// after a method-like heading become the method. Text before either heading
// is ignored.
func ParseManualRecipe(text string) ManualRecipe {
	recipe := ManualRecipe{Name: "Untitled Recipe", Servings: 4}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		recipe.Name = strings.TrimSpace(lines[0])
		lines = lines[1:]
	}

	section := ""
	var method []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "ingredient") {
			section = "ingredients"
			continue
		}
		if isMethodHeading(lower) {
			section = "method"
			continue
		}
		switch section {
		case "ingredients":
			recipe.Ingredients = append(recipe.Ingredients, ParseIngredientLine(line))
		case "method":
			method = append(method, line)
		}
	}
	recipe.Method = strings.Join(method, "\n")
	return recipe
}

func isMethodHeading(lower string) bool {
	for _, marker := range methodMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ExtractPDFText pulls the plain text out of an uploaded PDF so it can feed
// the manual parser or the assistant-backed extractor.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
