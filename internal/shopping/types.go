// Package shopping implements the shopping-list pipeline: quantity
// aggregation, preference application, rule-based categorisation, and the
// assistant-backed optimisation path with its completeness repair.
package shopping

import (
	"sort"
	"strings"
)

// IngredientLine is one free-text ingredient reference drawn from a recipe or
// a staple. Quantity and Unit are untrimmed text; the aggregator decides what
// is numeric.
type IngredientLine struct {
	Name         string   `json:"name"`
	Quantity     string   `json:"quantity"`
	Unit         string   `json:"unit"`
	IsOptional   bool     `json:"is_optional"`
	SourceRecipe string   `json:"source_recipe,omitempty"`
	Notes        []string `json:"notes,omitempty"`
}

// AggregatedItem is the result of merging one or more ingredient lines that
// share an aggregation key.
type AggregatedItem struct {
	Name       string
	Quantity   string
	Unit       string
	IsOptional bool
	Notes      []string
}

// Staple is a recurring household item tracked independently of recipes. It
// joins the shopping list only while InStock is false.
type Staple struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	InStock  bool   `json:"in_stock"`
	Category string `json:"category"`
}

// SubstitutionRule swaps one ingredient for another. Original is matched by
// substring containment against the normalised item name.
type SubstitutionRule struct {
	Original   string `json:"original_ingredient"`
	Substitute string `json:"substitute_ingredient"`
	Reason     string `json:"reason,omitempty"`
}

// ListItem is one display entry of a categorised list.
type ListItem struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
}

// Store categories. Other is a valid terminal bucket, not an error marker.
const (
	CategoryProduce   = "Fresh Produce"
	CategoryDairy     = "Dairy & Eggs"
	CategoryMeat      = "Meat & Seafood"
	CategoryBakery    = "Bakery"
	CategoryPantry    = "Pantry Staples"
	CategoryFrozen    = "Frozen"
	CategoryBeverages = "Beverages"
	CategorySnacks    = "Snacks"
	CategoryOther     = "Other"
)

// categoryOrder is the canonical display precedence. It intentionally matches
// the scan order of the categoriser table, with Other appended last.
var categoryOrder = []string{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryBakery,
	CategoryPantry,
	CategoryFrozen,
	CategoryBeverages,
	CategorySnacks,
	CategoryOther,
}

// CategorizedList maps category names to ordered display items. The category
// map is what travels over the wire; insertion order of categories outside the
// canonical set is tracked separately so display stays deterministic.
type CategorizedList struct {
	Categories   map[string][]ListItem `json:"categories"`
	ShoppingTips []string              `json:"shopping_tips"`
	CostSaving   []string              `json:"cost_saving_suggestions"`
	TotalItems   int                   `json:"total_items"`

	extraOrder []string
}

// NewCategorizedList returns an empty list ready for Append.
func NewCategorizedList() *CategorizedList {
	return &CategorizedList{Categories: map[string][]ListItem{}}
}

// Append adds an item to a category, creating the bucket on first use.
func (l *CategorizedList) Append(category string, item ListItem) {
	if l.Categories == nil {
		l.Categories = map[string][]ListItem{}
	}
	if _, ok := l.Categories[category]; !ok && !isCanonicalCategory(category) {
		l.extraOrder = append(l.extraOrder, category)
	}
	l.Categories[category] = append(l.Categories[category], item)
}

// OrderedCategories returns the populated category names in canonical
// precedence, followed by any non-canonical categories in first-seen order.
// Lists decoded from JSON lose first-seen order; their extras fall back to
// lexicographic order, which keeps output deterministic either way.
func (l *CategorizedList) OrderedCategories() []string {
	ordered := make([]string, 0, len(l.Categories))
	for _, cat := range categoryOrder {
		if _, ok := l.Categories[cat]; ok {
			ordered = append(ordered, cat)
		}
	}
	if len(l.extraOrder) > 0 {
		for _, cat := range l.extraOrder {
			if _, ok := l.Categories[cat]; ok {
				ordered = append(ordered, cat)
			}
		}
		return ordered
	}
	extras := make([]string, 0)
	for cat := range l.Categories {
		if !isCanonicalCategory(cat) {
			extras = append(extras, cat)
		}
	}
	sort.Strings(extras)
	return append(ordered, extras...)
}

// ItemCount returns the number of display items across all categories.
func (l *CategorizedList) ItemCount() int {
	count := 0
	for _, items := range l.Categories {
		count += len(items)
	}
	return count
}

func isCanonicalCategory(category string) bool {
	for _, cat := range categoryOrder {
		if cat == category {
			return true
		}
	}
	return false
}

// QuantityText joins a quantity and unit into the display form used across
// the list ("3 cup", "1 bunch", or "" when both are empty).
func QuantityText(quantity, unit string) string {
	return strings.TrimSpace(strings.TrimSpace(quantity) + " " + strings.TrimSpace(unit))
}
