package handlers

import (
	"net/http"
	"strings"

	"larder/internal/chat"
	applog "larder/internal/log"
	"larder/internal/shopping"
)

// Chat applies one conversational turn to the session's shopping list.
func Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if aiClient == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	list := shopping.NewCategorizedList()
	sessionGetJSON(r, sessionListKey, list)

	var pins chat.PinStore
	if prefStore != nil {
		pins = prefStore
	}
	var products chat.ProductService
	if matcher := productMatcher(); matcher != nil {
		products = matcher
	}

	agent := chat.NewAgent(aiClient, chat.NewEditor(products, pins))

	var history []chat.Turn
	sessionGetJSON(r, sessionChatHistoryKey, &history)
	agent.RestoreHistory(history)

	result := agent.Chat(r.Context(), req.Message, list)

	if err := sessionPutJSON(r, sessionChatHistoryKey, agent.History()); err != nil {
		applog.Error(r.Context(), "failed to store chat history", "error", err)
	}
	if result.UpdatedList != nil {
		if err := sessionPutJSON(r, sessionListKey, result.UpdatedList); err != nil {
			applog.Error(r.Context(), "failed to store updated list", "error", err)
		}
	}

	applog.Info(r.Context(), "chat turn handled", "action", result.Action)
	writeJSON(w, http.StatusOK, result)
}
