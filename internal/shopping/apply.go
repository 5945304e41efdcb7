package shopping

import (
	"fmt"
	"strings"
)

// ApplySubstitutions replaces item names that contain an active rule's
// original ingredient. Matching is by substring containment against the
// normalised name. When several rules hit the same item the last one wins the
// name while every replacement is recorded in the notes.
func ApplySubstitutions(items []AggregatedItem, rules []SubstitutionRule) []AggregatedItem {
	if len(rules) == 0 {
		return items
	}

	result := make([]AggregatedItem, 0, len(items))
	for _, item := range items {
		matchName := Normalize(item.Name)
		for _, rule := range rules {
			original := Normalize(rule.Original)
			if original == "" || rule.Substitute == "" {
				continue
			}
			if strings.Contains(matchName, original) {
				item.Notes = append(item.Notes, fmt.Sprintf("Substituted from %s", item.Name))
				item.Name = rule.Substitute
			}
		}
		result = append(result, item)
	}
	return result
}

// ApplyOrganicPreferences prefixes matching item names with "organic".
// Matching is substring containment against the normalised name and the
// prefix is never doubled, so the operation is idempotent.
func ApplyOrganicPreferences(items []AggregatedItem, organic []string) []AggregatedItem {
	if len(organic) == 0 {
		return items
	}

	terms := make([]string, 0, len(organic))
	for _, term := range organic {
		if normalized := Normalize(term); normalized != "" {
			terms = append(terms, normalized)
		}
	}

	result := make([]AggregatedItem, 0, len(items))
	for _, item := range items {
		name := Normalize(item.Name)
		for _, term := range terms {
			if !strings.Contains(name, term) {
				continue
			}
			if !strings.Contains(name, "organic") {
				item.Name = "organic " + item.Name
				item.Notes = append(item.Notes, "Organic preferred")
			}
			break
		}
		result = append(result, item)
	}
	return result
}
