package handlers

import (
	"net/http"
	"strings"

	applog "larder/internal/log"
	"larder/internal/preferences"
)

// Substitutions manages the household's ingredient substitution rules.
func Substitutions(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		subs, err := prefStore.Substitutions(ctx)
		if err != nil {
			applog.Error(ctx, "failed to list substitutions", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to load substitutions")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"substitutions": subs})
	case http.MethodPost:
		var req struct {
			Original   string `json:"original"`
			Substitute string `json:"substitute"`
			Reason     string `json:"reason"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := prefStore.SetSubstitution(ctx, req.Original, req.Substitute, req.Reason); err != nil {
			applog.Error(ctx, "failed to save substitution", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
	case http.MethodDelete:
		original := strings.TrimSpace(r.URL.Query().Get("original"))
		if original == "" {
			writeError(w, http.StatusBadRequest, "original query parameter is required")
			return
		}
		if err := prefStore.DeleteSubstitution(ctx, original); err != nil {
			applog.Error(ctx, "failed to delete substitution", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to delete substitution")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// OrganicPreferences manages the always-buy-organic ingredient set.
func OrganicPreferences(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		organic, err := prefStore.OrganicIngredients(ctx)
		if err != nil {
			applog.Error(ctx, "failed to list organic preferences", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to load organic preferences")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"organic": organic})
	case http.MethodPost:
		var req struct {
			Ingredient string `json:"ingredient"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := prefStore.AddOrganic(ctx, req.Ingredient); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
	case http.MethodDelete:
		ingredient := strings.TrimSpace(r.URL.Query().Get("ingredient"))
		if ingredient == "" {
			writeError(w, http.StatusBadRequest, "ingredient query parameter is required")
			return
		}
		if err := prefStore.RemoveOrganic(ctx, ingredient); err != nil {
			applog.Error(ctx, "failed to remove organic preference", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to remove organic preference")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// ShoppingDefaults reads or writes the typed default settings.
func ShoppingDefaults(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		defaults, err := prefStore.Defaults(ctx)
		if err != nil {
			applog.Error(ctx, "failed to load defaults", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to load defaults")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"defaults": defaults})
	case http.MethodPut:
		var req struct {
			Key   string `json:"key"`
			Value any    `json:"value"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := prefStore.SetDefault(ctx, req.Key, req.Value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// DietaryRestrictions manages the household's dietary restriction list.
func DietaryRestrictions(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		restrictions, err := prefStore.DietaryRestrictions(ctx)
		if err != nil {
			applog.Error(ctx, "failed to list dietary restrictions", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to load dietary restrictions")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"dietary_restrictions": restrictions})
	case http.MethodPost:
		var req struct {
			Restriction string `json:"restriction"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := prefStore.AddDietaryRestriction(ctx, req.Restriction); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
	case http.MethodDelete:
		restriction := strings.TrimSpace(r.URL.Query().Get("restriction"))
		if restriction == "" {
			writeError(w, http.StatusBadRequest, "restriction query parameter is required")
			return
		}
		if err := prefStore.RemoveDietaryRestriction(ctx, restriction); err != nil {
			applog.Error(ctx, "failed to remove dietary restriction", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to remove dietary restriction")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// PreferencesExport renders every preference section as a portable JSON
// document.
func PreferencesExport(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot, err := prefStore.Export(r.Context())
	if err != nil {
		applog.Error(r.Context(), "preference export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to export preferences")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// PreferencesImport merges a previously exported preference document.
func PreferencesImport(w http.ResponseWriter, r *http.Request) {
	if prefStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var snapshot preferences.Snapshot
	if !decodeJSON(w, r, &snapshot) {
		return
	}
	if err := prefStore.Import(r.Context(), &snapshot); err != nil {
		applog.Error(r.Context(), "preference import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to import preferences")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"imported": true})
}
