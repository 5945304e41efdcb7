package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "larder/internal/log"
	"larder/internal/preferences"
	"larder/models"
)

// New returns an in-memory sqlite database seeded with representative
// household data: a user, sample recipes, and the default preferences a
// fresh install starts with.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:larder-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Substitution{},
		&models.OrganicPreference{},
		&models.PreferredProduct{},
		&models.Fallback{},
		&models.ShoppingDefault{},
		&models.DietaryRestriction{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

// defaultOrganic lists the produce organic shoppers most often insist on.
var defaultOrganic = []string{
	"pumpkin",
	"butternut",
	"strawberries",
	"blueberries",
	"spinach",
	"kale",
	"apples",
	"tomatoes",
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte("pantry"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Jordan Household",
		Email:        "jordan@larder.app",
		PasswordHash: string(password),
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	store := preferences.NewStore(db)

	for _, ingredient := range defaultOrganic {
		if err := store.AddOrganic(ctx, ingredient); err != nil {
			return err
		}
	}

	settings := []struct {
		key   string
		value any
	}{
		{"prefer_australian_grown", true},
		{"prefer_specials", true},
		{"max_price_per_item", nil},
		{"prefer_smaller_packages", false},
		{"avoid_palm_oil", true},
		{"always_organic_produce", true},
		{"highlight_expensive_items", int64(15)},
	}
	for _, setting := range settings {
		if err := store.SetDefault(ctx, setting.key, setting.value); err != nil {
			return err
		}
	}

	if err := store.SetSubstitution(ctx, "heavy cream", "thickened cream", "local name"); err != nil {
		return err
	}
	if err := store.SetSubstitution(ctx, "cilantro", "coriander", "local name"); err != nil {
		return err
	}

	recipes := []models.Recipe{
		{
			Name:        "Weeknight Stir Fry",
			Description: "Fast vegetable stir fry over rice.",
			Servings:    4,
			MealType:    "dinner",
			SourceType:  "manual",
			OwnerID:     user.ID,
			Ingredients: []models.RecipeIngredient{
				{IngredientName: "chicken breast", Quantity: "500", Unit: "g"},
				{IngredientName: "broccoli", Quantity: "1", Unit: "head"},
				{IngredientName: "rice", Quantity: "2", Unit: "cup"},
				{IngredientName: "soy sauce", Quantity: "2", Unit: "tbsp"},
			},
		},
		{
			Name:        "Berry Porridge",
			Description: "Oats with seasonal berries.",
			Servings:    2,
			MealType:    "breakfast",
			SourceType:  "manual",
			OwnerID:     user.ID,
			Ingredients: []models.RecipeIngredient{
				{IngredientName: "rolled oats", Quantity: "1", Unit: "cup"},
				{IngredientName: "milk", Quantity: "2", Unit: "cup"},
				{IngredientName: "strawberries", Quantity: "1", Unit: "punnet"},
				{IngredientName: "honey", Quantity: "1", Unit: "tbsp", IsOptional: true},
			},
		},
	}
	for i := range recipes {
		if err := db.WithContext(ctx).Create(&recipes[i]).Error; err != nil {
			return err
		}
	}

	pin := preferences.Pin{
		Ingredient:  "milk",
		Stockcode:   888140,
		ProductName: "Full Cream Milk 2L",
		Brand:       "Dairy Farmers",
		Size:        "2L",
		Price:       3.1,
	}
	if err := store.SetPreferredProduct(ctx, pin); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
