package shopping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumberPattern = regexp.MustCompile(`^\s*(\d+\s+\d+/\d+|\d+/\d+|\d*\.?\d+)`)

// Combine merges ingredient lines that share an aggregation key. Quantities
// are summed only when every line in a group carries a parseable leading
// number; a single unparseable quantity switches the whole group to per-line
// retention with provenance notes, so nothing is summed incorrectly or lost.
// Output order is stable by first-seen key.
func Combine(lines []IngredientLine) []AggregatedItem {
	groups := map[string][]IngredientLine{}
	keyOrder := []string{}

	for _, line := range lines {
		if Normalize(line.Name) == "" {
			continue
		}
		key := AggregationKey(line.Name, line.Unit)
		if _, ok := groups[key]; !ok {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], line)
	}

	combined := make([]AggregatedItem, 0, len(keyOrder))
	for _, key := range keyOrder {
		group := groups[key]
		if len(group) == 1 {
			combined = append(combined, toAggregated(group[0]))
			continue
		}
		combined = append(combined, mergeGroup(group)...)
	}
	return combined
}

func toAggregated(line IngredientLine) AggregatedItem {
	return AggregatedItem{
		Name:       strings.TrimSpace(line.Name),
		Quantity:   strings.TrimSpace(line.Quantity),
		Unit:       strings.TrimSpace(line.Unit),
		IsOptional: line.IsOptional,
		Notes:      append([]string(nil), line.Notes...),
	}
}

func mergeGroup(group []IngredientLine) []AggregatedItem {
	total := 0.0
	allNumeric := true
	allOptional := true

	for _, line := range group {
		value, ok := parseQuantity(line.Quantity)
		if !ok {
			allNumeric = false
		}
		total += value
		if !line.IsOptional {
			allOptional = false
		}
	}

	if allNumeric {
		item := toAggregated(group[0])
		item.Quantity = formatQuantity(total)
		item.IsOptional = allOptional
		item.Notes = append(item.Notes, fmt.Sprintf("Combined from %d recipes", len(group)))
		return []AggregatedItem{item}
	}

	// Mixed or missing quantities: keep every line, annotated with its
	// 1-indexed position inside the group.
	items := make([]AggregatedItem, 0, len(group))
	for idx, line := range group {
		item := toAggregated(line)
		item.Notes = append(item.Notes, fmt.Sprintf("From recipe %d", idx+1))
		items = append(items, item)
	}
	return items
}

// parseQuantity reads the leading numeric token of a quantity string.
// Integers, decimals, simple fractions ("1/2"), and mixed numbers ("1 1/2")
// are recognised. Empty strings are parse failures, not zero.
func parseQuantity(quantity string) (float64, bool) {
	match := leadingNumberPattern.FindString(quantity)
	if match == "" {
		return 0, false
	}
	match = strings.TrimSpace(match)

	if strings.Contains(match, "/") {
		whole := 0.0
		frac := match
		if fields := strings.Fields(match); len(fields) == 2 {
			w, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return 0, false
			}
			whole = w
			frac = fields[1]
		}
		parts := strings.SplitN(frac, "/", 2)
		num, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		den, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || den == 0 {
			return 0, false
		}
		return whole + num/den, true
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// formatQuantity renders a summed quantity without trailing zeros or a
// dangling decimal point ("3", "2.5", "0.75").
func formatQuantity(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")
	if formatted == "" {
		formatted = "0"
	}
	return formatted
}
