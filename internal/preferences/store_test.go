package preferences

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

func newPreferencesTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:preferences-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Substitution{},
		&models.OrganicPreference{},
		&models.PreferredProduct{},
		&models.Fallback{},
		&models.ShoppingDefault{},
		&models.DietaryRestriction{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestNormalizeIngredient(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Fresh Organic Kale", "kale"},
		{"  greek   yogurt ", "greek yogurt"},
		{"frozen peas", "peas"},
		{"dried apricots", "apricots"},
	}
	for _, tc := range cases {
		if got := NormalizeIngredient(tc.in); got != tc.want {
			t.Fatalf("NormalizeIngredient(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSetSubstitutionUpsertsAndReactivates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	if err := store.SetSubstitution(ctx, "Heavy Cream", "thickened cream", "local name"); err != nil {
		t.Fatalf("set substitution: %v", err)
	}
	if err := store.SetSubstitution(ctx, "heavy cream", "double cream", ""); err != nil {
		t.Fatalf("update substitution: %v", err)
	}

	subs, err := store.Substitutions(ctx)
	if err != nil {
		t.Fatalf("list substitutions: %v", err)
	}
	if len(subs) != 1 || subs[0].SubstituteIngredient != "double cream" {
		t.Fatalf("expected one updated substitution, got %+v", subs)
	}

	if err := store.DeleteSubstitution(ctx, "heavy cream"); err != nil {
		t.Fatalf("delete substitution: %v", err)
	}
	if subs, err = store.Substitutions(ctx); err != nil || len(subs) != 0 {
		t.Fatalf("expected no active substitutions, got %+v (err %v)", subs, err)
	}

	// Re-adding after a soft delete reuses the row.
	if err := store.SetSubstitution(ctx, "heavy cream", "coconut cream", "dairy free"); err != nil {
		t.Fatalf("reactivate substitution: %v", err)
	}
	var count int64
	if err := store.db.Model(&models.Substitution{}).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("expected a single row, got %d (err %v)", count, err)
	}
}

func TestOrganicPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	for _, ingredient := range []string{"Kale", "kale", "strawberries"} {
		if err := store.AddOrganic(ctx, ingredient); err != nil {
			t.Fatalf("add organic %q: %v", ingredient, err)
		}
	}
	got, err := store.OrganicIngredients(ctx)
	if err != nil {
		t.Fatalf("list organic: %v", err)
	}
	if len(got) != 2 || got[0] != "kale" || got[1] != "strawberries" {
		t.Fatalf("expected [kale strawberries], got %v", got)
	}

	if err := store.RemoveOrganic(ctx, "kale"); err != nil {
		t.Fatalf("remove organic: %v", err)
	}
	if got, err = store.OrganicIngredients(ctx); err != nil || len(got) != 1 {
		t.Fatalf("expected one remaining preference, got %v (err %v)", got, err)
	}
}

func TestPreferredProductUpsertPreservesUseCount(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	pin := Pin{
		Ingredient:  "Greek Yogurt",
		Stockcode:   123456,
		ProductName: "Farmers Union Greek Style Yogurt 1kg",
		Price:       7.5,
		Fallbacks:   []int64{234567, 345678},
	}
	if err := store.SetPreferredProduct(ctx, pin); err != nil {
		t.Fatalf("set preferred product: %v", err)
	}

	// Two lookups record two uses.
	for i := 0; i < 2; i++ {
		row, err := store.PreferredProduct(ctx, "greek yogurt")
		if err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
		if row == nil || row.Stockcode != 123456 {
			t.Fatalf("lookup %d returned %+v", i, row)
		}
		if row.UseCount != int64(i+1) {
			t.Fatalf("lookup %d: use count %d, want %d", i, row.UseCount, i+1)
		}
		if row.LastUsedAt == nil {
			t.Fatalf("lookup %d: LastUsedAt not set", i)
		}
		if len(row.Fallbacks) != 2 || row.Fallbacks[0].Stockcode != 234567 {
			t.Fatalf("lookup %d: fallbacks %+v", i, row.Fallbacks)
		}
	}

	// Re-pinning keeps the use count and swaps the fallbacks.
	pin.Stockcode = 999999
	pin.Fallbacks = []int64{111111}
	if err := store.SetPreferredProduct(ctx, pin); err != nil {
		t.Fatalf("update preferred product: %v", err)
	}
	row, err := store.PreferredProduct(ctx, "organic greek yogurt")
	if err != nil {
		t.Fatalf("lookup after update: %v", err)
	}
	if row == nil || row.Stockcode != 999999 {
		t.Fatalf("expected updated stockcode, got %+v", row)
	}
	if row.UseCount != 3 {
		t.Fatalf("use count reset on update: got %d, want 3", row.UseCount)
	}
	if len(row.Fallbacks) != 1 || row.Fallbacks[0].Stockcode != 111111 {
		t.Fatalf("fallbacks not replaced: %+v", row.Fallbacks)
	}
}

func TestPreferredProductMissingAndRemoval(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	if row, err := store.PreferredProduct(ctx, "capers"); err != nil || row != nil {
		t.Fatalf("expected no pin, got %+v (err %v)", row, err)
	}
	if removed, err := store.RemovePreferredProduct(ctx, "capers"); err != nil || removed {
		t.Fatalf("removing a missing pin must report false, got %v (err %v)", removed, err)
	}

	if err := store.SetPreferredProduct(ctx, Pin{Ingredient: "capers", Stockcode: 42}); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	if removed, err := store.RemovePreferredProduct(ctx, "capers"); err != nil || !removed {
		t.Fatalf("expected removal, got %v (err %v)", removed, err)
	}
	if row, err := store.PreferredProduct(ctx, "capers"); err != nil || row != nil {
		t.Fatalf("pin survived removal: %+v (err %v)", row, err)
	}
}

func TestSetPreferredProductValidation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	if err := store.SetPreferredProduct(ctx, Pin{Ingredient: "  ", Stockcode: 1}); err == nil {
		t.Fatal("expected an error for a blank ingredient")
	}
	if err := store.SetPreferredProduct(ctx, Pin{Ingredient: "milk", Stockcode: 0}); err == nil {
		t.Fatal("expected an error for a missing stockcode")
	}
}

func TestShoppingDefaultsKeepTheirTypes(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	if err := store.SetDefault(ctx, "prefer_specials", true); err != nil {
		t.Fatalf("set boolean: %v", err)
	}
	if err := store.SetDefault(ctx, "max_budget", 150.5); err != nil {
		t.Fatalf("set float: %v", err)
	}
	if err := store.SetDefault(ctx, "household_size", 4); err != nil {
		t.Fatalf("set int: %v", err)
	}
	if err := store.SetDefault(ctx, "store_location", "town centre"); err != nil {
		t.Fatalf("set string: %v", err)
	}

	defaults, err := store.Defaults(ctx)
	if err != nil {
		t.Fatalf("list defaults: %v", err)
	}
	if v, ok := defaults["prefer_specials"].(bool); !ok || !v {
		t.Fatalf("prefer_specials = %#v, want true", defaults["prefer_specials"])
	}
	if v, ok := defaults["max_budget"].(float64); !ok || v != 150.5 {
		t.Fatalf("max_budget = %#v, want 150.5", defaults["max_budget"])
	}
	if v, ok := defaults["household_size"].(int64); !ok || v != 4 {
		t.Fatalf("household_size = %#v, want 4", defaults["household_size"])
	}

	// Overwriting changes both value and type.
	if err := store.SetDefault(ctx, "prefer_specials", "ask"); err != nil {
		t.Fatalf("overwrite default: %v", err)
	}
	value, ok, err := store.Default(ctx, "prefer_specials")
	if err != nil || !ok {
		t.Fatalf("default lookup: ok=%v err=%v", ok, err)
	}
	if value != "ask" {
		t.Fatalf("overwritten default = %#v, want \"ask\"", value)
	}

	if _, ok, err := store.Default(ctx, "missing_key"); err != nil || ok {
		t.Fatalf("missing key must report ok=false, got ok=%v err=%v", ok, err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := NewStore(newPreferencesTestDB(t))

	if err := source.SetSubstitution(ctx, "scallions", "spring onions", "regional name"); err != nil {
		t.Fatalf("seed substitution: %v", err)
	}
	if err := source.AddOrganic(ctx, "spinach"); err != nil {
		t.Fatalf("seed organic: %v", err)
	}
	if err := source.SetDefault(ctx, "prefer_specials", true); err != nil {
		t.Fatalf("seed default: %v", err)
	}
	if err := source.AddDietaryRestriction(ctx, "Vegetarian"); err != nil {
		t.Fatalf("seed restriction: %v", err)
	}

	snapshot, err := source.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	target := NewStore(newPreferencesTestDB(t))
	if err := target.Import(ctx, snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}

	subs, err := target.Substitutions(ctx)
	if err != nil || len(subs) != 1 || subs[0].SubstituteIngredient != "spring onions" {
		t.Fatalf("substitutions not imported: %+v (err %v)", subs, err)
	}
	organic, err := target.OrganicIngredients(ctx)
	if err != nil || len(organic) != 1 || organic[0] != "spinach" {
		t.Fatalf("organic preferences not imported: %v (err %v)", organic, err)
	}
	if value, ok, err := target.Default(ctx, "prefer_specials"); err != nil || !ok || value != true {
		t.Fatalf("defaults not imported: %#v ok=%v err=%v", value, ok, err)
	}
	restrictions, err := target.DietaryRestrictions(ctx)
	if err != nil || len(restrictions) != 1 || restrictions[0] != "vegetarian" {
		t.Fatalf("restrictions not imported: %v (err %v)", restrictions, err)
	}
}

func TestExtractIngredient(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Woolworths Fresh Chicken Breast Fillets 500g", "chicken breast"},
		{"Macro Organic Rolled Oats 1kg", "rolled oats"},
		{"Essentials 2L", ""},
	}
	for _, tc := range cases {
		if got := ExtractIngredient(tc.in); got != tc.want {
			t.Fatalf("ExtractIngredient(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestImportFromCart(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	count, err := store.ImportFromCart(ctx, []CartProduct{
		{Stockcode: 111, DisplayName: "Woolworths Fresh Chicken Breast Fillets 500g", Price: 9.0},
		{Stockcode: 0, DisplayName: "no stockcode"},
		{Stockcode: 222, DisplayName: ""},
	})
	if err != nil {
		t.Fatalf("import from cart: %v", err)
	}
	if count != 1 {
		t.Fatalf("imported %d pins, want 1", count)
	}

	row, err := store.PreferredProduct(ctx, "chicken breast")
	if err != nil || row == nil {
		t.Fatalf("pin not written: %+v (err %v)", row, err)
	}
	if row.Stockcode != 111 || row.Price != 9.0 {
		t.Fatalf("unexpected pin %+v", row)
	}
}

func TestRulesFeedsTheListPipeline(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newPreferencesTestDB(t))

	if err := store.SetSubstitution(ctx, "scallions", "spring onions", ""); err != nil {
		t.Fatalf("seed substitution: %v", err)
	}
	if err := store.AddOrganic(ctx, "kale"); err != nil {
		t.Fatalf("seed organic: %v", err)
	}

	rules, organic, err := store.Rules(ctx)
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if len(rules) != 1 || rules[0].Original != "scallions" || rules[0].Substitute != "spring onions" {
		t.Fatalf("unexpected rules %+v", rules)
	}
	if len(organic) != 1 || organic[0] != "kale" {
		t.Fatalf("unexpected organic list %v", organic)
	}
}
