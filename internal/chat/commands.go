// Package chat implements the conversational shopping-list editor: structured
// edit commands, the mutation engine that applies them to a categorised list,
// and the agent that turns user utterances into commands.
package chat

// Command actions. A reply with no recognisable action degrades to
// ActionNone, which leaves the list untouched.
const (
	ActionAddItems               = "add_items"
	ActionRemoveItems            = "remove_items"
	ActionModifyQuantity         = "modify_quantity"
	ActionSearchProducts         = "search_products"
	ActionSetPreferredProduct    = "set_preferred_product"
	ActionGetPreferredProducts   = "get_preferred_products"
	ActionRemovePreferredProduct = "remove_preferred_product"
	ActionNone                   = "none"
)

// CommandItem is one item an add_items command inserts.
type CommandItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

// Command is a single structured edit extracted from a user utterance. Which
// fields are set depends on Action.
type Command struct {
	Action      string        `json:"action"`
	Items       []CommandItem `json:"items,omitempty"`
	ItemNames   []string      `json:"item_names,omitempty"`
	ItemName    string        `json:"item_name,omitempty"`
	NewQuantity string        `json:"new_quantity,omitempty"`
	Ingredient  string        `json:"ingredient,omitempty"`
	Stockcode   int64         `json:"stockcode,omitempty"`
	Fallbacks   []int64       `json:"fallback_stockcodes,omitempty"`
	Query       string        `json:"query,omitempty"`
}

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the structured result of one chat turn: the assistant's message
// plus zero or more commands to execute.
type Reply struct {
	Message  string    `json:"reply"`
	Commands []Command `json:"commands"`
}
