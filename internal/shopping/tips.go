package shopping

import (
	"fmt"
	"strings"
)

var expensiveKeywords = []string{"beef", "lamb", "salmon", "prawns", "shrimp", "organic"}

func shoppingTips(entries []listEntry) []string {
	tips := []string{}

	hasProduce := false
	organicCount := 0
	for _, entry := range entries {
		category := entry.category
		if category == "" {
			category = Categorize(entry.item.Name)
		}
		if category == CategoryProduce {
			hasProduce = true
		}
		if strings.Contains(Normalize(entry.item.Name), "organic") {
			organicCount++
		}
	}

	if hasProduce {
		tips = append(tips, "Start with fresh produce to ensure best quality")
	}
	if organicCount > 0 {
		tips = append(tips, fmt.Sprintf("%d organic items marked with preference", organicCount))
	}
	if len(entries) > 20 {
		tips = append(tips, fmt.Sprintf("%d items total - consider shopping online", len(entries)))
	}
	return tips
}

func costSavingTips(entries []listEntry) []string {
	tips := []string{}

	expensive := 0
	pantry := 0
	for _, entry := range entries {
		name := Normalize(entry.item.Name)
		for _, keyword := range expensiveKeywords {
			if strings.Contains(name, keyword) {
				expensive++
				break
			}
		}
		category := entry.category
		if category == "" {
			category = Categorize(entry.item.Name)
		}
		if category == CategoryPantry {
			pantry++
		}
	}

	if expensive > 3 {
		tips = append(tips, "Consider buying meat and seafood on special or in bulk")
	}
	tips = append(tips, "Buy seasonal produce for better prices and quality")
	if pantry > 5 {
		tips = append(tips, "Pantry staples are often cheaper in bulk")
	}
	return tips
}
