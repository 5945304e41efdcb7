package server

import (
	"context"
	"net/http"

	"larder/internal/handlers"
	applog "larder/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/api/signup", handlers.Signup)
	mux.HandleFunc("/api/login", handlers.Login)
	mux.HandleFunc("/api/logout", handlers.Logout)

	protected := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/api/shopping-list", handlers.ShoppingList},
		{"/api/staples", handlers.Staples},
		{"/api/recipes", handlers.Recipes},
		{"/api/recipes/", handlers.RecipeByID},
		{"/api/recipes/import", handlers.RecipeImport},
		{"/api/preferences/substitutions", handlers.Substitutions},
		{"/api/preferences/organic", handlers.OrganicPreferences},
		{"/api/preferences/defaults", handlers.ShoppingDefaults},
		{"/api/preferences/dietary", handlers.DietaryRestrictions},
		{"/api/preferences/export", handlers.PreferencesExport},
		{"/api/preferences/import", handlers.PreferencesImport},
		{"/api/products/search", handlers.ProductSearch},
		{"/api/products/match", handlers.ProductMatch},
		{"/api/products/preferred", handlers.PreferredProducts},
		{"/api/products/preferred/from-cart", handlers.PreferredImportFromCart},
		{"/api/chat", handlers.Chat},
	}
	for _, route := range protected {
		mux.Handle(route.path, handlers.RequireAuthentication(route.handler))
		applog.Debug(context.Background(), "route registered", "path", route.path, "protected", true)
	}

	return mux
}
