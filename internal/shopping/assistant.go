package shopping

import (
	"context"
	"strings"

	applog "larder/internal/log"
)

// Classifier is the narrow seam to an external categorisation service. A
// successful call returns a list shaped like the deterministic output; any
// error, timeout, or malformed payload is reported as a plain error and the
// caller falls back to the local pipeline.
type Classifier interface {
	ClassifyShoppingList(ctx context.Context, in Inputs) (*CategorizedList, error)
}

// OptimizeWithAssistant asks the classifier to organise the list, then runs
// the completeness repair over its output. Any classifier failure falls back
// to Optimize, so the caller always receives a complete list. The returned
// bool reports whether the assistant's output was used.
func OptimizeWithAssistant(ctx context.Context, in Inputs, classifier Classifier) (*CategorizedList, bool) {
	if classifier == nil {
		return Optimize(in), false
	}

	result, err := classifier.ClassifyShoppingList(ctx, in)
	if err != nil || result == nil || len(result.Categories) == 0 {
		applog.Info(ctx, "assistant optimisation unavailable, using standard list", "error", err)
		return Optimize(in), false
	}

	repaired := repairMissingItems(result, expectedItems(in))
	if repaired > 0 {
		applog.Info(ctx, "restored items dropped by the assistant", "count", repaired)
	}
	result.TotalItems = result.ItemCount()
	return result, true
}

// expectedItems builds the set of items the assistant's output must cover:
// the aggregated lines after substitutions and organic preferences, plus
// every out-of-stock staple.
func expectedItems(in Inputs) []AggregatedItem {
	items := Combine(in.Lines)
	items = ApplySubstitutions(items, in.Substitutions)
	items = ApplyOrganicPreferences(items, in.Organic)
	for _, staple := range stapleItems(in.Staples) {
		item := staple.item
		items = append(items, item)
	}
	return items
}

// repairMissingItems reinserts expected items absent from the classified
// output into the Other category. Coverage is tested by substring containment
// in either direction, which tolerates the assistant renaming or merging
// entries ("2 cups milk" + "1 cup milk" into "3 cups milk"). Returns the
// number of items restored.
func repairMissingItems(list *CategorizedList, expected []AggregatedItem) int {
	present := make([]string, 0, list.ItemCount())
	for _, items := range list.Categories {
		for _, item := range items {
			if name := Normalize(item.Item); name != "" {
				present = append(present, name)
			}
		}
	}

	restored := 0
	for _, item := range expected {
		name := Normalize(item.Name)
		if name == "" || covered(name, present) {
			continue
		}
		note := "Added (missing from optimised list)"
		if len(item.Notes) > 0 && item.Notes[len(item.Notes)-1] == "Staple item" {
			note += " - Staple"
		}
		list.Append(CategoryOther, ListItem{
			Item:     item.Name,
			Quantity: QuantityText(item.Quantity, item.Unit),
			Notes:    note,
		})
		present = append(present, name)
		restored++
	}
	return restored
}

func covered(name string, present []string) bool {
	for _, candidate := range present {
		if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
			return true
		}
	}
	return false
}
