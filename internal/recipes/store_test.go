package recipes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"larder/models"
)

func newRecipesTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:recipes-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Recipe{}, &models.RecipeIngredient{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedRecipe(t *testing.T, store *Store, name string, ingredients ...models.RecipeIngredient) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		OwnerID:     1,
		Ingredients: ingredients,
	}
	if err := store.Create(context.Background(), recipe); err != nil {
		t.Fatalf("create recipe %q: %v", name, err)
	}
	return recipe
}

func TestCreateValidatesAndDropsEmptyIngredients(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newRecipesTestDB(t))

	if err := store.Create(ctx, &models.Recipe{Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}

	recipe := &models.Recipe{
		Name:    "Pasta Bake",
		OwnerID: 1,
		Ingredients: []models.RecipeIngredient{
			{IngredientName: "penne", Quantity: "500", Unit: "g"},
			{IngredientName: "   "},
		},
	}
	if err := store.Create(ctx, recipe); err != nil {
		t.Fatalf("create: %v", err)
	}
	if recipe.Servings != 4 {
		t.Errorf("expected default servings 4, got %d", recipe.Servings)
	}

	loaded, err := store.Get(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded == nil || len(loaded.Ingredients) != 1 {
		t.Fatalf("expected 1 stored ingredient, got %+v", loaded)
	}
}

func TestListOrdersByName(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newRecipesTestDB(t))
	seedRecipe(t, store, "Zucchini Slice", models.RecipeIngredient{IngredientName: "zucchini", Quantity: "2"})
	seedRecipe(t, store, "Apple Crumble", models.RecipeIngredient{IngredientName: "apples", Quantity: "6"})

	recipes, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 2 || recipes[0].Name != "Apple Crumble" || recipes[1].Name != "Zucchini Slice" {
		t.Fatalf("unexpected order: %+v", recipes)
	}
	if len(recipes[0].Ingredients) != 1 {
		t.Error("ingredients should be preloaded")
	}

	other, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list other owner: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("owner 2 should have no recipes, got %d", len(other))
	}
}

func TestGetMissingRecipe(t *testing.T) {
	store := NewStore(newRecipesTestDB(t))
	recipe, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if recipe != nil {
		t.Errorf("expected nil for missing recipe, got %+v", recipe)
	}
}

func TestDeleteRemovesRecipeAndIngredients(t *testing.T) {
	ctx := context.Background()
	db := newRecipesTestDB(t)
	store := NewStore(db)
	recipe := seedRecipe(t, store, "Soup",
		models.RecipeIngredient{IngredientName: "carrots", Quantity: "3"},
		models.RecipeIngredient{IngredientName: "stock", Quantity: "1", Unit: "L"},
	)

	existed, err := store.Delete(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !existed {
		t.Fatal("expected delete to report an existing recipe")
	}

	var count int64
	if err := db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error; err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if count != 0 {
		t.Errorf("expected ingredient rows removed, found %d", count)
	}

	existed, err = store.Delete(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if existed {
		t.Error("second delete should report nothing removed")
	}
}

func TestShoppingLinesMergesByNameAndUnit(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newRecipesTestDB(t))
	first := seedRecipe(t, store, "Omelette",
		models.RecipeIngredient{IngredientName: "eggs", Quantity: "3"},
		models.RecipeIngredient{IngredientName: "milk", Quantity: "0.5", Unit: "cup"},
	)
	second := seedRecipe(t, store, "Pancakes",
		models.RecipeIngredient{IngredientName: "Eggs", Quantity: "2"},
		models.RecipeIngredient{IngredientName: "milk", Quantity: "1 splash", Unit: "cup"},
		models.RecipeIngredient{IngredientName: "flour", Quantity: "2", Unit: "cup"},
	)

	lines, err := store.ShoppingLines(ctx, []uint{first.ID, second.ID}, 1)
	if err != nil {
		t.Fatalf("shopping lines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 merged lines, got %+v", lines)
	}
	// Sorted by name: eggs, flour, milk.
	if lines[0].Name != "eggs" || lines[0].Quantity != "5" {
		t.Errorf("eggs should sum to 5, got %+v", lines[0])
	}
	if lines[1].Name != "flour" || lines[1].Quantity != "2" {
		t.Errorf("unexpected flour line %+v", lines[1])
	}
	// "1 splash" is not numeric, so the first quantity wins.
	if lines[2].Name != "milk" || lines[2].Quantity != "0.5" {
		t.Errorf("unexpected milk line %+v", lines[2])
	}
}

func TestShoppingLinesAppliesMultiplier(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newRecipesTestDB(t))
	recipe := seedRecipe(t, store, "Stir Fry",
		models.RecipeIngredient{IngredientName: "rice", Quantity: "1.5", Unit: "cup"},
		models.RecipeIngredient{IngredientName: "soy sauce", Quantity: "a dash"},
	)

	lines, err := store.ShoppingLines(ctx, []uint{recipe.ID}, 2)
	if err != nil {
		t.Fatalf("shopping lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", lines)
	}
	if lines[0].Name != "rice" || lines[0].Quantity != "3" {
		t.Errorf("rice should double to 3, got %+v", lines[0])
	}
	if lines[1].Quantity != "a dash" {
		t.Errorf("non-numeric quantity should survive the multiplier, got %+v", lines[1])
	}
}

func TestShoppingLinesEmptySelection(t *testing.T) {
	store := NewStore(newRecipesTestDB(t))
	lines, err := store.ShoppingLines(context.Background(), nil, 1)
	if err != nil {
		t.Fatalf("shopping lines: %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", lines)
	}
}
