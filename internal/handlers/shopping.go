package handlers

import (
	"net/http"

	applog "larder/internal/log"
	"larder/internal/shopping"
)

type generateListRequest struct {
	RecipeIDs          []uint  `json:"recipe_ids"`
	ServingsMultiplier float64 `json:"servings_multiplier"`
	UseAssistant       bool    `json:"use_ai"`
	ForceRefresh       bool    `json:"force_refresh"`
}

type shoppingListResponse struct {
	List   *shopping.CategorizedList `json:"shopping_list"`
	AIUsed bool                      `json:"ai_used"`
	Cached bool                      `json:"cached"`
}

// ShoppingList returns the session's current list, or generates one from the
// selected recipes. A cached list is reused unless force_refresh is set.
func ShoppingList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list := shopping.NewCategorizedList()
		if !sessionGetJSON(r, sessionListKey, list) {
			writeError(w, http.StatusNotFound, "no shopping list generated yet")
			return
		}
		writeJSON(w, http.StatusOK, shoppingListResponse{List: list, Cached: true})
	case http.MethodPost:
		generateShoppingList(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func generateShoppingList(w http.ResponseWriter, r *http.Request) {
	if recipeStore == nil || prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	var req generateListRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !req.ForceRefresh {
		cached := shopping.NewCategorizedList()
		if sessionGetJSON(r, sessionListKey, cached) {
			writeJSON(w, http.StatusOK, shoppingListResponse{List: cached, Cached: true})
			return
		}
	}

	ctx := r.Context()

	lines, err := recipeStore.ShoppingLines(ctx, req.RecipeIDs, req.ServingsMultiplier)
	if err != nil {
		applog.Error(ctx, "failed to load recipe ingredients", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	rules, organic, err := prefStore.Rules(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to load preferences")
		return
	}

	inputs := shopping.Inputs{
		Lines:         lines,
		Organic:       organic,
		Substitutions: rules,
		Staples:       sessionStaples(r),
	}

	var (
		list   *shopping.CategorizedList
		aiUsed bool
	)
	if req.UseAssistant && aiClient != nil {
		list, aiUsed = shopping.OptimizeWithAssistant(ctx, inputs, aiClient)
	} else {
		list = shopping.Optimize(inputs)
	}

	if err := sessionPutJSON(r, sessionListKey, list); err != nil {
		applog.Error(ctx, "failed to cache shopping list", "error", err)
	}

	applog.Info(ctx, "shopping list generated",
		"items", list.TotalItems,
		"recipes", len(req.RecipeIDs),
		"aiUsed", aiUsed,
	)
	writeJSON(w, http.StatusOK, shoppingListResponse{List: list, AIUsed: aiUsed})
}

// sessionStaples returns the session's staples checklist, falling back to the
// starter set.
func sessionStaples(r *http.Request) []shopping.Staple {
	var staples []shopping.Staple
	if sessionGetJSON(r, sessionStaplesKey, &staples) {
		return staples
	}
	return shopping.DefaultStaples()
}

// Staples reads or replaces the session's staples checklist.
func Staples(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"staples": sessionStaples(r)})
	case http.MethodPut:
		var req struct {
			Staples []shopping.Staple `json:"staples"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := sessionPutJSON(r, sessionStaplesKey, req.Staples); err != nil {
			applog.Error(r.Context(), "failed to store staples", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to save staples")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"staples": req.Staples})
	case http.MethodDelete:
		sessionManager.Remove(r.Context(), sessionStaplesKey)
		writeJSON(w, http.StatusOK, map[string]any{"staples": shopping.DefaultStaples()})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
