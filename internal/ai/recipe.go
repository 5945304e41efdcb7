package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RecipeImportResult captures a recipe parsed by the model from pasted or
// extracted text.
type RecipeImportResult struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Servings    int                      `json:"servings"`
	MealType    string                   `json:"meal_type"`
	Ingredients []RecipeImportIngredient `json:"ingredients"`
	Method      string                   `json:"method"`
}

// RecipeImportIngredient is one ingredient entry from the model's response.
type RecipeImportIngredient struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
	IsOptional bool   `json:"is_optional"`
}

// ExtractRecipe asks the model to parse free-form recipe text, typically a
// pasted recipe or the text layer of an uploaded PDF, into structured form.
func (c *Client) ExtractRecipe(ctx context.Context, rawText string) (RecipeImportResult, error) {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return RecipeImportResult{}, errors.New("ai: recipe import requires text content")
	}

	systemPrompt := `You are an assistant who converts recipe text into precise JSON.
- Extract the recipe name, a short description, the serving count, and every ingredient mentioned.
- Split each ingredient into name, quantity, and unit. Quantity is the bare number or fraction as text ("2", "1/2", "1.5"); unit is the measure word ("cup", "g", "tbsp") or empty.
- Mark ingredients described as optional with is_optional true.
- If no serving count is stated, use 4.
- Classify meal_type as one of breakfast, lunch, dinner, snack, dessert, or empty when unclear.
- Respond with strictly valid JSON using this schema:
{
  "name": string,
  "description": string,
  "servings": number,
  "meal_type": string,
  "ingredients": [
    {"name": string, "quantity": string, "unit": string, "is_optional": boolean}
  ],
  "method": string
}
- Never include explanations, markdown, or commentary outside of the JSON payload.`

	content, err := c.performChatCompletion(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Recipe text:\n" + trimmed},
	})
	if err != nil {
		return RecipeImportResult{}, err
	}

	var result RecipeImportResult
	if err := json.NewDecoder(strings.NewReader(content)).Decode(&result); err != nil {
		return RecipeImportResult{}, fmt.Errorf("ai: parse recipe payload: %w", err)
	}
	if strings.TrimSpace(result.Name) == "" {
		return RecipeImportResult{}, errors.New("ai: recipe name missing from response")
	}
	if result.Servings <= 0 {
		result.Servings = 4
	}
	return result, nil
}
