package recipes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"larder/internal/shopping"
	"larder/models"
)

// Store persists recipes and their ingredient lines.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create saves a recipe with its ingredients. Empty ingredient names are
// dropped rather than rejected so a sloppy paste still imports.
func (s *Store) Create(ctx context.Context, recipe *models.Recipe) error {
	recipe.Name = strings.TrimSpace(recipe.Name)
	if recipe.Name == "" {
		return errors.New("recipes: recipe name is required")
	}
	if recipe.Servings <= 0 {
		recipe.Servings = 4
	}

	kept := recipe.Ingredients[:0]
	for _, ing := range recipe.Ingredients {
		ing.IngredientName = strings.TrimSpace(ing.IngredientName)
		if ing.IngredientName == "" {
			continue
		}
		kept = append(kept, ing)
	}
	recipe.Ingredients = kept

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(recipe).Error
	})
}

// List returns an owner's recipes, ingredients included, ordered by name.
func (s *Store) List(ctx context.Context, ownerID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients").
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get loads one recipe with ingredients. A missing recipe returns (nil, nil).
func (s *Store) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Ingredients").First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe and its ingredient rows. It reports whether a
// recipe existed.
func (s *Store) Delete(ctx context.Context, id uint) (bool, error) {
	existed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.First(&recipe, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	return existed, err
}

// ShoppingLines merges the ingredients of the selected recipes into the lines
// the shopping pipeline consumes. Lines sharing a name and unit are combined
// by summing numeric quantities; non-numeric quantities keep the first value
// seen. The multiplier scales every numeric quantity, for adjusted servings.
func (s *Store) ShoppingLines(ctx context.Context, recipeIDs []uint, multiplier float64) ([]shopping.IngredientLine, error) {
	if multiplier <= 0 {
		multiplier = 1
	}
	if len(recipeIDs) == 0 {
		return []shopping.IngredientLine{}, nil
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients").
		Where("id IN ?", recipeIDs).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	merged := map[string]*shopping.IngredientLine{}
	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			key := fmt.Sprintf("%s_%s", strings.ToLower(ing.IngredientName), strings.ToLower(ing.Unit))
			line, ok := merged[key]
			if !ok {
				merged[key] = &shopping.IngredientLine{
					Name:         ing.IngredientName,
					Quantity:     ing.Quantity,
					Unit:         ing.Unit,
					IsOptional:   ing.IsOptional,
					SourceRecipe: recipe.Name,
				}
				continue
			}
			existing, okA := parseQuantity(line.Quantity)
			added, okB := parseQuantity(ing.Quantity)
			if okA && okB {
				line.Quantity = formatQuantity(existing + added)
			}
			if !ing.IsOptional {
				line.IsOptional = false
			}
		}
	}

	lines := make([]shopping.IngredientLine, 0, len(merged))
	for _, line := range merged {
		if qty, ok := parseQuantity(line.Quantity); ok && multiplier != 1 {
			line.Quantity = formatQuantity(qty * multiplier)
		}
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines, nil
}

func parseQuantity(text string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func formatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
