// Package preferences persists the household's shopping preferences:
// ingredient substitutions, organic flags, preferred-product pins, typed
// shopping defaults, and dietary restrictions. The shopping pipeline consumes
// them as plain data through Rules.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"larder/internal/shopping"
	"larder/models"
)

// Store wraps the preference tables of a gorm database.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db. The database must already be
// migrated.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var descriptorPattern = regexp.MustCompile(`\b(organic|fresh|frozen|dried)\b`)

// NormalizeIngredient lowercases, collapses whitespace, and strips state
// descriptors so "Fresh Organic Kale" and "kale" share one preference row.
func NormalizeIngredient(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = descriptorPattern.ReplaceAllString(normalized, "")
	return strings.Join(strings.Fields(normalized), " ")
}

// SetSubstitution upserts a substitution keyed by the original ingredient.
// An inactive row for the same ingredient is reactivated rather than
// duplicated.
func (s *Store) SetSubstitution(ctx context.Context, original, substitute, reason string) error {
	original = strings.ToLower(strings.TrimSpace(original))
	substitute = strings.ToLower(strings.TrimSpace(substitute))
	if original == "" || substitute == "" {
		return errors.New("substitution requires an original and a substitute ingredient")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Substitution
		err := tx.Where("original_ingredient = ?", original).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.Substitution{
				OriginalIngredient:   original,
				SubstituteIngredient: substitute,
				Reason:               reason,
				Active:               true,
			}).Error
		}
		if err != nil {
			return err
		}
		existing.SubstituteIngredient = substitute
		existing.Reason = reason
		existing.Active = true
		return tx.Save(&existing).Error
	})
}

// Substitutions returns the active substitutions ordered by original
// ingredient.
func (s *Store) Substitutions(ctx context.Context) ([]models.Substitution, error) {
	var subs []models.Substitution
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("original_ingredient asc").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("loading substitutions: %w", err)
	}
	return subs, nil
}

// DeleteSubstitution deactivates the substitution for original. Missing rows
// are not an error.
func (s *Store) DeleteSubstitution(ctx context.Context, original string) error {
	original = strings.ToLower(strings.TrimSpace(original))
	return s.db.WithContext(ctx).
		Model(&models.Substitution{}).
		Where("original_ingredient = ?", original).
		Update("active", false).Error
}

// AddOrganic marks an ingredient as preferring organic. Adding an existing
// ingredient is a no-op.
func (s *Store) AddOrganic(ctx context.Context, ingredient string) error {
	ingredient = strings.ToLower(strings.TrimSpace(ingredient))
	if ingredient == "" {
		return errors.New("organic preference requires an ingredient")
	}
	var existing models.OrganicPreference
	err := s.db.WithContext(ctx).Where("ingredient = ?", ingredient).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(&models.OrganicPreference{Ingredient: ingredient}).Error
}

// RemoveOrganic removes the organic preference for an ingredient.
func (s *Store) RemoveOrganic(ctx context.Context, ingredient string) error {
	ingredient = strings.ToLower(strings.TrimSpace(ingredient))
	return s.db.WithContext(ctx).
		Where("ingredient = ?", ingredient).
		Delete(&models.OrganicPreference{}).Error
}

// OrganicIngredients returns every ingredient flagged organic, ordered.
func (s *Store) OrganicIngredients(ctx context.Context) ([]string, error) {
	var prefs []models.OrganicPreference
	err := s.db.WithContext(ctx).Order("ingredient asc").Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("loading organic preferences: %w", err)
	}
	ingredients := make([]string, 0, len(prefs))
	for _, pref := range prefs {
		ingredients = append(ingredients, pref.Ingredient)
	}
	return ingredients, nil
}

// Pin describes the product a preferred-product upsert should record.
type Pin struct {
	Ingredient  string
	Stockcode   int64
	ProductName string
	Brand       string
	Size        string
	Price       float64
	IsOrganic   bool
	ImageURL    string
	Fallbacks   []int64
}

// SetPreferredProduct upserts the pin for pin.Ingredient. On update the row's
// use count and creation time survive; fallback stockcodes are replaced
// wholesale.
func (s *Store) SetPreferredProduct(ctx context.Context, pin Pin) error {
	ingredient := NormalizeIngredient(pin.Ingredient)
	if ingredient == "" {
		return errors.New("preferred product requires an ingredient")
	}
	if pin.Stockcode <= 0 {
		return fmt.Errorf("preferred product for %q requires a positive stockcode", pin.Ingredient)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.PreferredProduct
		err := tx.Where("ingredient = ?", ingredient).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.PreferredProduct{Ingredient: ingredient}
		} else if err != nil {
			return err
		}

		row.Stockcode = pin.Stockcode
		row.ProductName = pin.ProductName
		row.Brand = pin.Brand
		row.Size = pin.Size
		row.Price = pin.Price
		row.IsOrganic = pin.IsOrganic
		row.ImageURL = pin.ImageURL

		if row.ID == 0 {
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
			if err := tx.Where("preferred_product_id = ?", row.ID).Delete(&models.Fallback{}).Error; err != nil {
				return err
			}
		}

		for i, code := range pin.Fallbacks {
			fallback := models.Fallback{PreferredProductID: row.ID, Stockcode: code, Position: i}
			if err := tx.Create(&fallback).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// PreferredProduct looks up the pin for an ingredient and records the use:
// the row's use count increments atomically and LastUsedAt moves to now.
// Returns (nil, nil) when no pin exists.
func (s *Store) PreferredProduct(ctx context.Context, ingredient string) (*models.PreferredProduct, error) {
	normalized := NormalizeIngredient(ingredient)
	var row models.PreferredProduct
	err := s.db.WithContext(ctx).
		Preload("Fallbacks", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("ingredient = ?", normalized).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading preferred product for %q: %w", ingredient, err)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).
		Model(&models.PreferredProduct{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"use_count":    gorm.Expr("use_count + ?", 1),
			"last_used_at": now,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("recording use of preferred product for %q: %w", ingredient, err)
	}
	row.UseCount++
	row.LastUsedAt = &now
	return &row, nil
}

// RemovePreferredProduct deletes the pin for an ingredient. The bool reports
// whether a pin existed.
func (s *Store) RemovePreferredProduct(ctx context.Context, ingredient string) (bool, error) {
	normalized := NormalizeIngredient(ingredient)
	var row models.PreferredProduct
	err := s.db.WithContext(ctx).Where("ingredient = ?", normalized).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("preferred_product_id = ?", row.ID).Delete(&models.Fallback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// PreferredProducts returns every pin ordered by ingredient, fallbacks
// included.
func (s *Store) PreferredProducts(ctx context.Context) ([]models.PreferredProduct, error) {
	var rows []models.PreferredProduct
	err := s.db.WithContext(ctx).
		Preload("Fallbacks", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("ingredient asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading preferred products: %w", err)
	}
	return rows, nil
}

// SetDefault stores a typed shopping default. Booleans and numbers round-trip
// through Default with their type; everything else is kept as a string.
func (s *Store) SetDefault(ctx context.Context, key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("shopping default requires a key")
	}

	var text, valueType string
	switch v := value.(type) {
	case bool:
		text, valueType = strconv.FormatBool(v), "boolean"
	case int:
		text, valueType = strconv.Itoa(v), "number"
	case int64:
		text, valueType = strconv.FormatInt(v, 10), "number"
	case float64:
		text, valueType = strconv.FormatFloat(v, 'f', -1, 64), "number"
	case nil:
		text, valueType = "null", "string"
	default:
		text, valueType = fmt.Sprint(v), "string"
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ShoppingDefault
		err := tx.Where("setting_key = ?", key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.ShoppingDefault{
				SettingKey:   key,
				SettingValue: text,
				ValueType:    valueType,
			}).Error
		}
		if err != nil {
			return err
		}
		existing.SettingValue = text
		existing.ValueType = valueType
		return tx.Save(&existing).Error
	})
}

// Default returns the decoded value for key. The bool reports whether the key
// exists.
func (s *Store) Default(ctx context.Context, key string) (any, bool, error) {
	var row models.ShoppingDefault
	err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return decodeDefault(row), true, nil
}

// Defaults returns every shopping default decoded into its stored type.
func (s *Store) Defaults(ctx context.Context) (map[string]any, error) {
	var rows []models.ShoppingDefault
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading shopping defaults: %w", err)
	}
	defaults := make(map[string]any, len(rows))
	for _, row := range rows {
		defaults[row.SettingKey] = decodeDefault(row)
	}
	return defaults, nil
}

func decodeDefault(row models.ShoppingDefault) any {
	switch row.ValueType {
	case "boolean":
		return strings.EqualFold(row.SettingValue, "true")
	case "number":
		if strings.Contains(row.SettingValue, ".") {
			value, err := strconv.ParseFloat(row.SettingValue, 64)
			if err != nil {
				return row.SettingValue
			}
			return value
		}
		value, err := strconv.ParseInt(row.SettingValue, 10, 64)
		if err != nil {
			return row.SettingValue
		}
		return value
	default:
		if row.SettingValue == "null" {
			return nil
		}
		return row.SettingValue
	}
}

// AddDietaryRestriction records a household-wide restriction, reactivating a
// previously removed one.
func (s *Store) AddDietaryRestriction(ctx context.Context, restriction string) error {
	restriction = strings.ToLower(strings.TrimSpace(restriction))
	if restriction == "" {
		return errors.New("dietary restriction requires a name")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.DietaryRestriction
		err := tx.Where("restriction_name = ?", restriction).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.DietaryRestriction{RestrictionName: restriction, Active: true}).Error
		}
		if err != nil {
			return err
		}
		existing.Active = true
		return tx.Save(&existing).Error
	})
}

// RemoveDietaryRestriction deactivates a restriction.
func (s *Store) RemoveDietaryRestriction(ctx context.Context, restriction string) error {
	restriction = strings.ToLower(strings.TrimSpace(restriction))
	return s.db.WithContext(ctx).
		Model(&models.DietaryRestriction{}).
		Where("restriction_name = ?", restriction).
		Update("active", false).Error
}

// DietaryRestrictions returns the active restrictions ordered by name.
func (s *Store) DietaryRestrictions(ctx context.Context) ([]string, error) {
	var rows []models.DietaryRestriction
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("restriction_name asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading dietary restrictions: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.RestrictionName)
	}
	return names, nil
}

// Rules loads the preference data the shopping pipeline consumes: active
// substitution rules and the organic ingredient list.
func (s *Store) Rules(ctx context.Context) ([]shopping.SubstitutionRule, []string, error) {
	subs, err := s.Substitutions(ctx)
	if err != nil {
		return nil, nil, err
	}
	rules := make([]shopping.SubstitutionRule, 0, len(subs))
	for _, sub := range subs {
		rules = append(rules, shopping.SubstitutionRule{
			Original:   sub.OriginalIngredient,
			Substitute: sub.SubstituteIngredient,
			Reason:     sub.Reason,
		})
	}
	organic, err := s.OrganicIngredients(ctx)
	if err != nil {
		return nil, nil, err
	}
	return rules, organic, nil
}
