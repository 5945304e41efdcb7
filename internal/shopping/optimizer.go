package shopping

import (
	"sort"
	"strings"
)

// Inputs carries everything one optimisation pass needs. Substitutions and
// organic preferences arrive as data so the pass stays runnable with no
// external dependency.
type Inputs struct {
	Lines         []IngredientLine
	Organic       []string
	Substitutions []SubstitutionRule
	Staples       []Staple
}

type listEntry struct {
	item     AggregatedItem
	category string
}

// Optimize runs the deterministic pipeline: aggregate duplicate lines, apply
// substitutions, apply organic preferences, fold in out-of-stock staples, and
// categorise into the final list. Every input line with a non-empty name is
// represented in the output, by construction.
func Optimize(in Inputs) *CategorizedList {
	items := Combine(in.Lines)
	items = ApplySubstitutions(items, in.Substitutions)
	items = ApplyOrganicPreferences(items, in.Organic)

	entries := make([]listEntry, 0, len(items)+len(in.Staples))
	for _, item := range items {
		entries = append(entries, listEntry{item: item})
	}
	for _, staple := range stapleItems(in.Staples) {
		entries = append(entries, staple)
	}

	list := NewCategorizedList()
	for _, entry := range entries {
		category := entry.category
		if category == "" {
			category = Categorize(entry.item.Name)
		}
		list.Append(category, ListItem{
			Item:     entry.item.Name,
			Quantity: QuantityText(entry.item.Quantity, entry.item.Unit),
			Notes:    strings.Join(entry.item.Notes, "; "),
		})
	}
	for category := range list.Categories {
		sortItems(list.Categories[category])
	}

	list.TotalItems = list.ItemCount()
	list.ShoppingTips = shoppingTips(entries)
	list.CostSaving = costSavingTips(entries)
	return list
}

// stapleItems converts out-of-stock staples into pre-categorised entries.
// Staples in stock never reach the list.
func stapleItems(staples []Staple) []listEntry {
	entries := make([]listEntry, 0, len(staples))
	for _, staple := range staples {
		if staple.InStock || Normalize(staple.Name) == "" {
			continue
		}
		entries = append(entries, listEntry{
			item: AggregatedItem{
				Name:     strings.TrimSpace(staple.Name),
				Quantity: strings.TrimSpace(staple.Quantity),
				Unit:     strings.TrimSpace(staple.Unit),
				Notes:    []string{"Staple item"},
			},
			category: strings.TrimSpace(staple.Category),
		})
	}
	return entries
}

func sortItems(items []ListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Item) < strings.ToLower(items[j].Item)
	})
}
