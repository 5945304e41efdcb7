package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"larder/internal/shopping"
)

func newCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		response := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected an error for a missing api key")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClassifyShoppingListDecodesPayload(t *testing.T) {
	payload := "```json\n" + `{
  "categories": {
    "Dairy & Eggs": [{"item": "milk", "quantity": "3 cups", "notes": "Combined from recipes"}],
    "Other": []
  },
  "shopping_tips": ["Start with fresh produce"],
  "cost_saving_suggestions": [],
  "total_items": 1
}` + "\n```"
	server := newCompletionServer(t, payload)
	defer server.Close()

	client := newTestClient(t, server)
	list, err := client.ClassifyShoppingList(context.Background(), shopping.Inputs{
		Lines: []shopping.IngredientLine{{Name: "milk", Quantity: "3", Unit: "cup"}},
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	items := list.Categories["Dairy & Eggs"]
	if len(items) != 1 || items[0].Item != "milk" {
		t.Fatalf("unexpected categories %+v", list.Categories)
	}
	if len(list.ShoppingTips) != 1 {
		t.Fatalf("unexpected tips %v", list.ShoppingTips)
	}
}

func TestClassifyShoppingListRejectsMalformedPayload(t *testing.T) {
	server := newCompletionServer(t, "sorry, I cannot help with that")
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.ClassifyShoppingList(context.Background(), shopping.Inputs{}); err == nil {
		t.Fatal("expected a parse error for a non-JSON reply")
	}
}

func TestClassifyShoppingListSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.ClassifyShoppingList(context.Background(), shopping.Inputs{}); err == nil {
		t.Fatal("expected an error for a 503 response")
	}
}

func TestExtractRecipe(t *testing.T) {
	payload := `{
  "name": "Weeknight Dahl",
  "description": "Quick red lentil dahl",
  "servings": 0,
  "meal_type": "dinner",
  "ingredients": [
    {"name": "red lentils", "quantity": "1", "unit": "cup", "is_optional": false},
    {"name": "coriander", "quantity": "1", "unit": "bunch", "is_optional": true}
  ],
  "method": "Simmer lentils until soft."
}`
	server := newCompletionServer(t, payload)
	defer server.Close()

	client := newTestClient(t, server)
	recipe, err := client.ExtractRecipe(context.Background(), "Weeknight Dahl\n1 cup red lentils\n1 bunch coriander (optional)")
	if err != nil {
		t.Fatalf("extract recipe: %v", err)
	}
	if recipe.Name != "Weeknight Dahl" || len(recipe.Ingredients) != 2 {
		t.Fatalf("unexpected recipe %+v", recipe)
	}
	if recipe.Servings != 4 {
		t.Fatalf("missing serving count must default to 4, got %d", recipe.Servings)
	}
	if !recipe.Ingredients[1].IsOptional {
		t.Fatalf("optional flag lost: %+v", recipe.Ingredients[1])
	}
}

func TestExtractRecipeRequiresText(t *testing.T) {
	server := newCompletionServer(t, "{}")
	defer server.Close()
	client := newTestClient(t, server)
	if _, err := client.ExtractRecipe(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for empty text")
	}
}

func TestChatTurnDecodesCommands(t *testing.T) {
	payload := `{
  "reply": "Added bananas to your list.",
  "commands": [
    {"action": "add_items", "items": [{"name": "bananas", "quantity": "6", "category": "Fresh Produce"}]}
  ]
}`
	server := newCompletionServer(t, payload)
	defer server.Close()

	client := newTestClient(t, server)
	reply, err := client.ChatTurn(context.Background(), nil, "add six bananas", "Total items: 0")
	if err != nil {
		t.Fatalf("chat turn: %v", err)
	}
	if reply.Message == "" || len(reply.Commands) != 1 {
		t.Fatalf("unexpected reply %+v", reply)
	}
	cmd := reply.Commands[0]
	if cmd.Action != "add_items" || len(cmd.Items) != 1 || cmd.Items[0].Name != "bananas" {
		t.Fatalf("unexpected command %+v", cmd)
	}
}
