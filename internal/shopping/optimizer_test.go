package shopping

import (
	"strings"
	"testing"
)

func TestOptimizeEndToEnd(t *testing.T) {
	in := Inputs{
		Lines: []IngredientLine{
			{Name: "milk", Quantity: "2", Unit: "cup"},
			{Name: "milk", Quantity: "1", Unit: "cup"},
			{Name: "kale", Quantity: "1", Unit: "bunch"},
		},
		Organic: []string{"kale"},
	}

	list := Optimize(in)

	dairy := list.Categories[CategoryDairy]
	if len(dairy) != 1 {
		t.Fatalf("expected one dairy item, got %+v", dairy)
	}
	if dairy[0].Item != "milk" || dairy[0].Quantity != "3 cup" {
		t.Fatalf("expected combined milk entry, got %+v", dairy[0])
	}

	produce := list.Categories[CategoryProduce]
	if len(produce) != 1 {
		t.Fatalf("expected one produce item, got %+v", produce)
	}
	if produce[0].Item != "organic kale" || produce[0].Quantity != "1 bunch" {
		t.Fatalf("expected organic kale entry, got %+v", produce[0])
	}

	if list.TotalItems != 2 {
		t.Fatalf("expected 2 total items, got %d", list.TotalItems)
	}
}

func TestOptimizeAddsOutOfStockStaplesWithPresetCategory(t *testing.T) {
	in := Inputs{
		Staples: []Staple{
			{Name: "Milk", Quantity: "2", Unit: "L", InStock: true, Category: CategoryDairy},
			{Name: "Bread", Quantity: "1", Unit: "loaf", InStock: false, Category: CategoryBakery},
			{Name: "Vegemite", Quantity: "1", Unit: "jar", InStock: false, Category: CategoryPantry},
		},
	}

	list := Optimize(in)
	if len(list.Categories[CategoryDairy]) != 0 {
		t.Fatalf("in-stock staples must not appear, got %+v", list.Categories[CategoryDairy])
	}
	bakery := list.Categories[CategoryBakery]
	if len(bakery) != 1 || bakery[0].Item != "Bread" {
		t.Fatalf("expected bread staple in its preset category, got %+v", bakery)
	}
	if !strings.Contains(bakery[0].Notes, "Staple item") {
		t.Fatalf("expected staple provenance note, got %q", bakery[0].Notes)
	}
	pantry := list.Categories[CategoryPantry]
	if len(pantry) != 1 || pantry[0].Item != "Vegemite" {
		t.Fatalf("preset category must override keyword categorisation, got %+v", pantry)
	}
}

func TestOptimizeSortsItemsWithinCategories(t *testing.T) {
	in := Inputs{
		Lines: []IngredientLine{
			{Name: "zucchini", Quantity: "2"},
			{Name: "Apple", Quantity: "3"},
			{Name: "mango", Quantity: "1"},
		},
	}

	produce := Optimize(in).Categories[CategoryProduce]
	got := []string{produce[0].Item, produce[1].Item, produce[2].Item}
	want := []string{"Apple", "mango", "zucchini"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected case-insensitive name order %v, got %v", want, got)
		}
	}
}

func TestOptimizeOrdersCategoriesCanonically(t *testing.T) {
	in := Inputs{
		Lines: []IngredientLine{
			{Name: "flour", Quantity: "1", Unit: "kg"},
			{Name: "kale", Quantity: "1", Unit: "bunch"},
			{Name: "chicken thigh", Quantity: "500", Unit: "g"},
		},
		Staples: []Staple{
			{Name: "Batteries", Quantity: "1", Unit: "pack", Category: "Household"},
		},
	}

	ordered := Optimize(in).OrderedCategories()
	want := []string{CategoryProduce, CategoryMeat, CategoryPantry, "Household"}
	if len(ordered) != len(want) {
		t.Fatalf("expected categories %v, got %v", want, ordered)
	}
	for i := range want {
		if ordered[i] != want[i] {
			t.Fatalf("expected categories %v, got %v", want, ordered)
		}
	}
}

func TestOptimizeCoversEveryInput(t *testing.T) {
	in := Inputs{
		Lines: []IngredientLine{
			{Name: "milk", Quantity: "1", Unit: "L"},
			{Name: "obscure spice blend", Quantity: "1"},
			{Name: "dragonfruit", Quantity: "2"},
		},
		Staples: []Staple{{Name: "Eggs", Quantity: "1", Unit: "dozen"}},
	}

	list := Optimize(in)
	for _, name := range []string{"milk", "obscure spice blend", "dragonfruit", "eggs"} {
		if !listContains(list, name) {
			t.Fatalf("input %q missing from output list", name)
		}
	}
}

func listContains(list *CategorizedList, name string) bool {
	for _, items := range list.Categories {
		for _, item := range items {
			if strings.Contains(Normalize(item.Item), Normalize(name)) {
				return true
			}
		}
	}
	return false
}
