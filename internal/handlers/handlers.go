// Package handlers implements the JSON HTTP surface: accounts, recipes,
// shopping-list generation, preferences, product matching, and the chat
// editor. Dependencies are installed once via Configure.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"larder/internal/ai"
	"larder/internal/catalog"
	applog "larder/internal/log"
	"larder/internal/preferences"
	"larder/internal/recipes"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
	sessionUserNameKey      = "auth:user:name"
	sessionListKey          = "shopping:list"
	sessionStaplesKey       = "shopping:staples"
	sessionChatHistoryKey   = "chat:history"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
	aiClient       *ai.Client
	catalogClient  *catalog.Client

	prefStore   *preferences.Store
	recipeStore *recipes.Store
)

// Configure installs the shared dependencies used by the HTTP handlers. The
// AI and catalog clients may be nil; the endpoints that need them respond
// with 503 instead.
func Configure(sm *scs.SessionManager, db *gorm.DB, brain *ai.Client, cat *catalog.Client) {
	sessionManager = sm
	database = db
	aiClient = brain
	catalogClient = cat

	prefStore = nil
	recipeStore = nil
	if db != nil {
		prefStore = preferences.NewStore(db)
		recipeStore = recipes.NewStore(db)
	}
}

// RequireAuthentication ensures the user has an active session before
// accessing the resource.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if id, ok := currentUserID(r); ok {
			r = r.WithContext(applog.ContextWith(r.Context(), "user_id", id))
		}
		next.ServeHTTP(w, r)
	})
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) && sessionManager.GetInt(r.Context(), sessionUserIDKey) > 0
}

func currentUserID(r *http.Request) (uint, bool) {
	if sessionManager == nil {
		return 0, false
	}
	id := sessionManager.GetInt(r.Context(), sessionUserIDKey)
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a JSON request body into dst and reports malformed input
// to the client.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// sessionPutJSON stores a value under key as a JSON string.
func sessionPutJSON(r *http.Request, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	sessionManager.Put(r.Context(), key, string(encoded))
	return nil
}

// sessionGetJSON loads a JSON string stored under key into dst. It reports
// whether a value was present and valid.
func sessionGetJSON(r *http.Request, key string, dst any) bool {
	raw := sessionManager.GetString(r.Context(), key)
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		applog.Error(r.Context(), "corrupt session value dropped", "key", key, "error", err)
		sessionManager.Remove(r.Context(), key)
		return false
	}
	return true
}
