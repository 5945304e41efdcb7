package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"larder/internal/chat"
)

const chatSystemPrompt = `You are a helpful shopping-list assistant. The user edits their grocery list by talking to you.

You respond with strictly valid JSON:
{
  "reply": string (a short friendly message for the user),
  "commands": [ ...zero or more commands... ]
}

Available commands:
- {"action": "add_items", "items": [{"name": string, "quantity": string, "category": string}]}
  category is one of: Fresh Produce, Dairy & Eggs, Meat & Seafood, Bakery, Pantry Staples, Frozen, Beverages, Snacks, Other
- {"action": "remove_items", "item_names": [string]}
- {"action": "modify_quantity", "item_name": string, "new_quantity": string}
- {"action": "search_products", "query": string}
- {"action": "set_preferred_product", "ingredient": string, "stockcode": integer, "fallback_stockcodes": [integer]}
- {"action": "get_preferred_products"}
- {"action": "remove_preferred_product", "ingredient": string}

When the user is only chatting, return an empty commands array. Never invent stockcodes; only use ones the user or previous search results supplied. Respond with the JSON object only, no markdown.`

// ChatTurn sends one user utterance, with the prior conversation and the
// current list rendered as text, and returns the model's reply plus any edit
// commands it extracted.
func (c *Client) ChatTurn(ctx context.Context, history []chat.Turn, utterance, listText string) (chat.Reply, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	system := chatSystemPrompt
	if strings.TrimSpace(listText) != "" {
		system += "\n\nCURRENT SHOPPING LIST:\n" + listText
	}
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: utterance})

	content, err := c.performChatCompletion(ctx, messages)
	if err != nil {
		return chat.Reply{}, err
	}

	var reply chat.Reply
	if err := json.NewDecoder(strings.NewReader(content)).Decode(&reply); err != nil {
		return chat.Reply{}, fmt.Errorf("ai: parse chat payload: %w", err)
	}
	return reply, nil
}
