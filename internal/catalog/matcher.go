package catalog

import (
	"context"
	"errors"
	"fmt"

	applog "larder/internal/log"
	"larder/internal/preferences"
	"larder/internal/shopping"
	"larder/models"
)

// PreferenceStore is the slice of the preference layer the matcher needs:
// pin lookup (which records the use) and pin persistence.
type PreferenceStore interface {
	PreferredProduct(ctx context.Context, ingredient string) (*models.PreferredProduct, error)
	SetPreferredProduct(ctx context.Context, pin preferences.Pin) error
}

// MatchedItem is one shopping-list entry resolved, or not, to a catalog
// product.
type MatchedItem struct {
	Ingredient string  `json:"ingredient"`
	Quantity   string  `json:"quantity"`
	Category   string  `json:"category"`
	Matched    bool    `json:"matched"`
	Preferred  bool    `json:"preferred,omitempty"`
	Product    Product `json:"product,omitempty"`
}

// MatchReport summarises a whole-list match run.
type MatchReport struct {
	Matched        []MatchedItem `json:"matched_items"`
	Unmatched      []MatchedItem `json:"unmatched_items"`
	TotalItems     int           `json:"total_items"`
	TotalMatched   int           `json:"total_matched"`
	TotalUnmatched int           `json:"total_unmatched"`
	EstimatedCost  float64       `json:"estimated_cost"`
	MatchRate      float64       `json:"match_rate"`
}

// Matcher resolves shopping-list items to catalog products, consulting the
// household's preferred-product pins before falling back to a name search.
type Matcher struct {
	client *Client
	pins   PreferenceStore
}

// NewMatcher builds a Matcher. pins may be nil, in which case every item is
// resolved by name search alone.
func NewMatcher(client *Client, pins PreferenceStore) *Matcher {
	return &Matcher{client: client, pins: pins}
}

// Search exposes the underlying catalog search, so a Matcher can stand in
// wherever both pin management and lookups are needed.
func (m *Matcher) Search(ctx context.Context, term string, limit int) ([]Product, error) {
	return m.client.Search(ctx, term, limit)
}

// Match resolves every item of a categorised list. A failing lookup marks
// that item unmatched and the batch continues. Missing prices count as zero
// toward the estimated cost, and the match rate of an empty list is zero.
func (m *Matcher) Match(ctx context.Context, list *shopping.CategorizedList) MatchReport {
	report := MatchReport{
		Matched:   []MatchedItem{},
		Unmatched: []MatchedItem{},
	}
	if list == nil {
		return report
	}

	for _, category := range list.OrderedCategories() {
		for _, item := range list.Categories[category] {
			report.TotalItems++
			entry := MatchedItem{
				Ingredient: item.Item,
				Quantity:   item.Quantity,
				Category:   category,
			}

			product, preferred, err := m.resolve(ctx, item.Item)
			if err != nil {
				applog.Info(ctx, "no catalog match for item", "ingredient", item.Item, "error", err)
				report.Unmatched = append(report.Unmatched, entry)
				continue
			}

			entry.Matched = true
			entry.Preferred = preferred
			entry.Product = product
			report.Matched = append(report.Matched, entry)
			report.EstimatedCost += product.Price
		}
	}

	report.TotalMatched = len(report.Matched)
	report.TotalUnmatched = len(report.Unmatched)
	if report.TotalItems > 0 {
		report.MatchRate = float64(report.TotalMatched) / float64(report.TotalItems) * 100
	}
	return report
}

// resolve tries the pinned product first, walking its fallback stockcodes
// when the primary is unknown or unavailable, then falls back to taking the
// first result of a name search.
func (m *Matcher) resolve(ctx context.Context, ingredient string) (Product, bool, error) {
	if m.pins != nil {
		pin, err := m.pins.PreferredProduct(ctx, ingredient)
		if err != nil {
			applog.Info(ctx, "preferred product lookup failed, searching instead", "ingredient", ingredient, "error", err)
		} else if pin != nil {
			codes := make([]int64, 0, 1+len(pin.Fallbacks))
			codes = append(codes, pin.Stockcode)
			for _, fallback := range pin.Fallbacks {
				codes = append(codes, fallback.Stockcode)
			}
			for _, code := range codes {
				product, err := m.client.ProductByStockcode(ctx, code)
				if err != nil {
					if !errors.Is(err, ErrNotFound) {
						applog.Info(ctx, "pinned stockcode lookup failed", "ingredient", ingredient, "stockcode", code, "error", err)
					}
					continue
				}
				if !product.IsAvailable {
					continue
				}
				return product, true, nil
			}
		}
	}

	results, err := m.client.Search(ctx, ingredient, 3)
	if err != nil {
		return Product{}, false, err
	}
	if len(results) == 0 {
		return Product{}, false, fmt.Errorf("catalog: no products found for %q", ingredient)
	}
	return results[0], false, nil
}

// SetPreferred verifies a stockcode against the catalog and persists it as
// the pin for an ingredient. Nothing is written when the lookup fails, so a
// bad stockcode can never corrupt the stored preference.
func (m *Matcher) SetPreferred(ctx context.Context, ingredient string, stockcode int64, fallbacks []int64) (Product, error) {
	if m.pins == nil {
		return Product{}, errors.New("catalog: no preference store configured")
	}

	product, err := m.client.ProductByStockcode(ctx, stockcode)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: cannot pin %q to stockcode %d: %w", ingredient, stockcode, err)
	}

	name := product.DisplayName
	if name == "" {
		name = product.Name
	}
	err = m.pins.SetPreferredProduct(ctx, preferences.Pin{
		Ingredient:  ingredient,
		Stockcode:   product.Stockcode,
		ProductName: name,
		Brand:       product.Brand,
		Size:        product.Size,
		Price:       product.Price,
		IsOrganic:   product.IsOrganic(),
		ImageURL:    product.ImageURL,
		Fallbacks:   fallbacks,
	})
	if err != nil {
		return Product{}, fmt.Errorf("catalog: persist pin for %q: %w", ingredient, err)
	}
	return product, nil
}
