package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"larder/internal/shopping"
)

// ClassifyShoppingList asks the model to combine, substitute, and categorise
// the given ingredients. The returned list is the model's raw organisation;
// callers run the completeness repair over it. Implements shopping.Classifier.
func (c *Client) ClassifyShoppingList(ctx context.Context, in shopping.Inputs) (*shopping.CategorizedList, error) {
	content, err := c.performChatCompletion(ctx, []chatMessage{
		{Role: "system", Content: "You are an expert grocery shopping assistant. Respond with strictly valid JSON only."},
		{Role: "user", Content: buildShoppingPrompt(in)},
	})
	if err != nil {
		return nil, err
	}

	result := shopping.NewCategorizedList()
	if err := json.NewDecoder(strings.NewReader(content)).Decode(result); err != nil {
		return nil, fmt.Errorf("ai: parse shopping list payload: %w", err)
	}
	return result, nil
}

func buildShoppingPrompt(in shopping.Inputs) string {
	var b strings.Builder
	b.WriteString("Analyze this shopping list and organize it intelligently.\n\n")

	b.WriteString("RAW INGREDIENTS FROM RECIPES:\n")
	b.WriteString(formatIngredients(in.Lines))

	b.WriteString("\n\nSTAPLES (items to add if not in stock):\n")
	b.WriteString(formatStaples(in.Staples))

	b.WriteString("\n\nORGANIC PREFERENCES: ")
	if len(in.Organic) == 0 {
		b.WriteString("None specified")
	} else {
		b.WriteString(strings.Join(in.Organic, ", "))
	}

	b.WriteString("\n\nINGREDIENT SUBSTITUTIONS:\n")
	b.WriteString(formatSubstitutions(in.Substitutions))

	b.WriteString(`

Tasks:
1. Combine duplicate or similar ingredients (e.g. "2 cups milk" + "1 cup milk" = "3 cups milk")
2. Organize into store categories: Fresh Produce, Dairy & Eggs, Meat & Seafood, Bakery, Pantry Staples, Frozen, Beverages, Snacks, Other
3. Apply organic preferences where specified
4. Apply the substitutions listed
5. Add staples that are not in stock
6. Provide helpful shopping tips
7. Suggest cost-saving opportunities

Include EVERY ingredient listed above. If unsure about a category, use "Other". Never skip an item.

Return EXACTLY this JSON structure:
{
  "categories": {
    "Fresh Produce": [{"item": "organic kale", "quantity": "2 bunches", "notes": "Organic preference"}],
    "Dairy & Eggs": [],
    "Other": []
  },
  "shopping_tips": ["tip"],
  "cost_saving_suggestions": ["suggestion"],
  "total_items": 0
}

Return ONLY the JSON object. No markdown, no explanations.`)
	return b.String()
}

func formatIngredients(lines []shopping.IngredientLine) string {
	if len(lines) == 0 {
		return "No ingredients"
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, "- "+strings.TrimSpace(line.Name+" "+shopping.QuantityText(line.Quantity, line.Unit)))
	}
	return strings.Join(out, "\n")
}

func formatStaples(staples []shopping.Staple) string {
	out := make([]string, 0, len(staples))
	for _, staple := range staples {
		if staple.InStock {
			continue
		}
		out = append(out, "- "+strings.TrimSpace(staple.Name+" "+shopping.QuantityText(staple.Quantity, staple.Unit)))
	}
	if len(out) == 0 {
		return "All staples in stock"
	}
	return strings.Join(out, "\n")
}

func formatSubstitutions(subs []shopping.SubstitutionRule) string {
	if len(subs) == 0 {
		return "No substitutions"
	}
	out := make([]string, 0, len(subs))
	for _, sub := range subs {
		line := fmt.Sprintf("- Replace %q with %q", sub.Original, sub.Substitute)
		if sub.Reason != "" {
			line += " (" + sub.Reason + ")"
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
