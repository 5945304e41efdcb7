package preferences

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// SnapshotSubstitution is the portable form of one substitution rule.
type SnapshotSubstitution struct {
	Original   string `json:"original"`
	Substitute string `json:"substitute"`
	Reason     string `json:"reason,omitempty"`
}

// Snapshot is the portable form of the whole preference set, used by the
// export and import commands.
type Snapshot struct {
	Substitutions       []SnapshotSubstitution `json:"substitutions"`
	OrganicPreferences  []string               `json:"organic_preferences"`
	ShoppingDefaults    map[string]any         `json:"shopping_defaults"`
	DietaryRestrictions []string               `json:"dietary_restrictions"`
}

// Export collects the current preferences into a Snapshot.
func (s *Store) Export(ctx context.Context) (*Snapshot, error) {
	subs, err := s.Substitutions(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := &Snapshot{
		Substitutions:    make([]SnapshotSubstitution, 0, len(subs)),
		ShoppingDefaults: map[string]any{},
	}
	for _, sub := range subs {
		snapshot.Substitutions = append(snapshot.Substitutions, SnapshotSubstitution{
			Original:   sub.OriginalIngredient,
			Substitute: sub.SubstituteIngredient,
			Reason:     sub.Reason,
		})
	}
	if snapshot.OrganicPreferences, err = s.OrganicIngredients(ctx); err != nil {
		return nil, err
	}
	if snapshot.ShoppingDefaults, err = s.Defaults(ctx); err != nil {
		return nil, err
	}
	if snapshot.DietaryRestrictions, err = s.DietaryRestrictions(ctx); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Import merges a Snapshot into the store. Existing rows with the same keys
// are overwritten; everything else is left alone.
func (s *Store) Import(ctx context.Context, snapshot *Snapshot) error {
	for _, sub := range snapshot.Substitutions {
		if err := s.SetSubstitution(ctx, sub.Original, sub.Substitute, sub.Reason); err != nil {
			return fmt.Errorf("importing substitution %q: %w", sub.Original, err)
		}
	}
	for _, ingredient := range snapshot.OrganicPreferences {
		if err := s.AddOrganic(ctx, ingredient); err != nil {
			return fmt.Errorf("importing organic preference %q: %w", ingredient, err)
		}
	}
	for key, value := range snapshot.ShoppingDefaults {
		if err := s.SetDefault(ctx, key, value); err != nil {
			return fmt.Errorf("importing shopping default %q: %w", key, err)
		}
	}
	for _, restriction := range snapshot.DietaryRestrictions {
		if err := s.AddDietaryRestriction(ctx, restriction); err != nil {
			return fmt.Errorf("importing dietary restriction %q: %w", restriction, err)
		}
	}
	return nil
}

// CartProduct is the slice of a catalog cart item the import heuristic needs.
type CartProduct struct {
	Stockcode   int64
	DisplayName string
	Price       float64
}

var (
	packagingPattern = regexp.MustCompile(`\d+\s?g|\d+\s?kg|\d+\s?ml|\d+\s?l|\d+ pack`)
	houseBrand       = regexp.MustCompile(`woolworths|macro|essentials`)
	prepDescriptor   = regexp.MustCompile(`\b(organic|fresh|frozen|dried|sliced|diced|chopped)\b`)
)

// ExtractIngredient guesses an ingredient name from a product display name by
// stripping package sizes, house brands, and preparation descriptors, keeping
// the first two words of three or more letters. Returns "" when nothing
// usable remains.
func ExtractIngredient(productName string) string {
	name := strings.ToLower(productName)
	name = packagingPattern.ReplaceAllString(name, "")
	name = houseBrand.ReplaceAllString(name, "")
	name = prepDescriptor.ReplaceAllString(name, "")

	words := make([]string, 0, 2)
	for _, word := range strings.Fields(name) {
		if len(word) > 2 {
			words = append(words, word)
			if len(words) == 2 {
				break
			}
		}
	}
	return strings.Join(words, " ")
}

// ImportFromCart derives preferred-product pins from cart contents. Items
// whose display name yields no ingredient are skipped. Returns the number of
// pins written.
func (s *Store) ImportFromCart(ctx context.Context, items []CartProduct) (int, error) {
	count := 0
	for _, item := range items {
		if item.Stockcode <= 0 || item.DisplayName == "" {
			continue
		}
		ingredient := ExtractIngredient(item.DisplayName)
		if ingredient == "" {
			continue
		}
		err := s.SetPreferredProduct(ctx, Pin{
			Ingredient:  ingredient,
			Stockcode:   item.Stockcode,
			ProductName: item.DisplayName,
			Price:       item.Price,
		})
		if err != nil {
			return count, fmt.Errorf("pinning %q from cart: %w", ingredient, err)
		}
		count++
	}
	return count, nil
}
