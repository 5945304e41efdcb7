package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"larder/internal/catalog"
	applog "larder/internal/log"
	"larder/internal/preferences"
	"larder/internal/shopping"
)

func productMatcher() *catalog.Matcher {
	if catalogClient == nil {
		return nil
	}
	var pins catalog.PreferenceStore
	if prefStore != nil {
		pins = prefStore
	}
	return catalog.NewMatcher(catalogClient, pins)
}

// ProductSearch looks products up in the catalog by name.
func ProductSearch(w http.ResponseWriter, r *http.Request) {
	if catalogClient == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := catalogClient.Search(r.Context(), term, limit)
	if err != nil {
		applog.Error(r.Context(), "product search failed", "term", term, "error", err)
		writeError(w, http.StatusBadGateway, "product search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// ProductMatch resolves the session's shopping list against the catalog and
// returns the match report.
func ProductMatch(w http.ResponseWriter, r *http.Request) {
	matcher := productMatcher()
	if matcher == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	list := shopping.NewCategorizedList()
	if !sessionGetJSON(r, sessionListKey, list) {
		writeError(w, http.StatusNotFound, "no shopping list generated yet")
		return
	}

	report := matcher.Match(r.Context(), list)
	applog.Info(r.Context(), "shopping list matched",
		"total", report.TotalItems,
		"matched", report.TotalMatched,
		"rate", report.MatchRate,
	)
	writeJSON(w, http.StatusOK, report)
}

// PreferredProducts manages ingredient-to-product pins.
func PreferredProducts(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		pins, err := prefStore.PreferredProducts(ctx)
		if err != nil {
			applog.Error(ctx, "failed to list preferred products", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to load preferred products")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"preferred_products": pins})
	case http.MethodPost:
		matcher := productMatcher()
		if matcher == nil {
			writeError(w, http.StatusServiceUnavailable, "catalog not configured")
			return
		}
		var req struct {
			Ingredient string  `json:"ingredient"`
			Stockcode  int64   `json:"stockcode"`
			Fallbacks  []int64 `json:"fallback_stockcodes"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		product, err := matcher.SetPreferred(ctx, req.Ingredient, req.Stockcode, req.Fallbacks)
		if err != nil {
			applog.Error(ctx, "failed to set preferred product", "ingredient", req.Ingredient, "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saved": true, "product": product})
	case http.MethodDelete:
		ingredient := strings.TrimSpace(r.URL.Query().Get("ingredient"))
		if ingredient == "" {
			writeError(w, http.StatusBadRequest, "ingredient query parameter is required")
			return
		}
		removed, err := prefStore.RemovePreferredProduct(ctx, ingredient)
		if err != nil {
			applog.Error(ctx, "failed to remove preferred product", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to remove preferred product")
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "no preference found for that ingredient")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// PreferredImportFromCart seeds preferred products from the current cart
// contents, deriving ingredient names from product display names.
func PreferredImportFromCart(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil || catalogClient == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	items, err := catalogClient.Cart(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load cart", "error", err)
		writeError(w, http.StatusBadGateway, "unable to load cart")
		return
	}

	products := make([]preferences.CartProduct, 0, len(items))
	for _, item := range items {
		products = append(products, preferences.CartProduct{
			Stockcode:   item.Stockcode,
			DisplayName: item.DisplayName,
			Price:       item.Price,
		})
	}

	count, err := prefStore.ImportFromCart(ctx, products)
	if err != nil {
		applog.Error(ctx, "cart import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to import cart preferences")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}
