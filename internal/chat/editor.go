package chat

import (
	"context"
	"fmt"
	"strings"

	"larder/internal/catalog"
	"larder/internal/shopping"
	"larder/models"
)

// ProductService is the catalog surface the editor needs.
type ProductService interface {
	Search(ctx context.Context, term string, limit int) ([]catalog.Product, error)
	SetPreferred(ctx context.Context, ingredient string, stockcode int64, fallbacks []int64) (catalog.Product, error)
}

// PinStore lists and removes preferred-product pins.
type PinStore interface {
	PreferredProducts(ctx context.Context) ([]models.PreferredProduct, error)
	RemovePreferredProduct(ctx context.Context, ingredient string) (bool, error)
}

// Result is the outcome of applying one reply's commands.
type Result struct {
	Response    string                    `json:"response"`
	Action      string                    `json:"action"`
	UpdatedList *shopping.CategorizedList `json:"updated_list,omitempty"`
	ChangesMade string                    `json:"changes_made,omitempty"`
}

// Editor applies structured commands to a categorised list. List mutations
// are local and cannot fail; actions that reach the catalog or the pin store
// degrade to an explanatory message on failure and leave the list untouched.
type Editor struct {
	products ProductService
	pins     PinStore
}

// NewEditor builds an Editor. Either dependency may be nil, which disables
// the corresponding commands with an explanatory reply.
func NewEditor(products ProductService, pins PinStore) *Editor {
	return &Editor{products: products, pins: pins}
}

// Apply executes the commands of a reply against list, mutating it in place
// for add/remove/modify actions. The result's action is the last command
// that changed anything, mirroring a chat turn with a single dominant intent.
func (e *Editor) Apply(ctx context.Context, list *shopping.CategorizedList, reply Reply) Result {
	result := Result{
		Response: reply.Message,
		Action:   ActionNone,
	}
	if result.Response == "" {
		result.Response = "I'm here to help with your shopping list!"
	}
	if len(reply.Commands) == 0 || list == nil {
		return result
	}

	var changes []string
	listChanged := false

	for _, cmd := range reply.Commands {
		switch cmd.Action {
		case ActionAddItems:
			for _, item := range cmd.Items {
				category := item.Category
				if category == "" {
					category = shopping.CategoryOther
				}
				list.Append(category, shopping.ListItem{
					Item:     item.Name,
					Quantity: item.Quantity,
				})
				changes = append(changes, fmt.Sprintf("Added %s to %s", item.Name, category))
			}
			result.Action = "add"
			listChanged = true

		case ActionRemoveItems:
			for _, name := range cmd.ItemNames {
				if removeFirstMatch(list, name) {
					changes = append(changes, "Removed "+name)
					result.Action = "remove"
					listChanged = true
				} else {
					changes = append(changes, "Could not find "+name)
				}
			}

		case ActionModifyQuantity:
			if modifyFirstMatch(list, cmd.ItemName, cmd.NewQuantity) {
				changes = append(changes, fmt.Sprintf("Changed %s quantity to %s", cmd.ItemName, cmd.NewQuantity))
				result.Action = "modify"
				listChanged = true
			} else {
				changes = append(changes, "Could not find "+cmd.ItemName)
			}

		case ActionSearchProducts:
			changes = append(changes, e.searchProducts(ctx, cmd.Query))
			result.Action = "search"

		case ActionSetPreferredProduct:
			changes = append(changes, e.setPreferred(ctx, cmd))
			result.Action = "set_preferred"

		case ActionGetPreferredProducts:
			changes = append(changes, e.listPreferred(ctx))
			result.Action = "get_preferred"

		case ActionRemovePreferredProduct:
			changes = append(changes, e.removePreferred(ctx, cmd.Ingredient))
			result.Action = "remove_preferred"
		}
	}

	if listChanged {
		list.TotalItems = list.ItemCount()
		result.UpdatedList = list
	}
	if len(changes) > 0 {
		result.ChangesMade = strings.Join(changes, "; ")
	}
	return result
}

// removeFirstMatch removes the first item whose display name contains name,
// case-insensitively, scanning categories in display order. At most one item
// is removed per call so an ambiguous short name cannot empty the list.
func removeFirstMatch(list *shopping.CategorizedList, name string) bool {
	needle := strings.ToLower(name)
	for _, category := range list.OrderedCategories() {
		items := list.Categories[category]
		for i, item := range items {
			if strings.Contains(strings.ToLower(item.Item), needle) {
				list.Categories[category] = append(items[:i], items[i+1:]...)
				return true
			}
		}
	}
	return false
}

func modifyFirstMatch(list *shopping.CategorizedList, name, quantity string) bool {
	needle := strings.ToLower(name)
	for _, category := range list.OrderedCategories() {
		for i, item := range list.Categories[category] {
			if strings.Contains(strings.ToLower(item.Item), needle) {
				list.Categories[category][i].Quantity = quantity
				return true
			}
		}
	}
	return false
}

func (e *Editor) searchProducts(ctx context.Context, query string) string {
	if e.products == nil {
		return "Product search is not available right now."
	}
	results, err := e.products.Search(ctx, query, 3)
	if err != nil {
		return fmt.Sprintf("Search for %q failed: %v", query, err)
	}
	if len(results) == 0 {
		return fmt.Sprintf("No products found for %q.", query)
	}
	lines := make([]string, 0, len(results))
	for _, product := range results {
		lines = append(lines, fmt.Sprintf("%s ($%.2f, stockcode %d)", product.Name, product.Price, product.Stockcode))
	}
	return fmt.Sprintf("Found for %q: %s", query, strings.Join(lines, "; "))
}

func (e *Editor) setPreferred(ctx context.Context, cmd Command) string {
	if e.products == nil {
		return "Preferred products are not available right now."
	}
	product, err := e.products.SetPreferred(ctx, cmd.Ingredient, cmd.Stockcode, cmd.Fallbacks)
	if err != nil {
		return fmt.Sprintf("Could not save preference for %s (stockcode %d): %v", cmd.Ingredient, cmd.Stockcode, err)
	}
	name := product.DisplayName
	if name == "" {
		name = product.Name
	}
	text := fmt.Sprintf("Saved preference: %s -> %s", cmd.Ingredient, name)
	if len(cmd.Fallbacks) > 0 {
		text += fmt.Sprintf(" with %d fallback(s)", len(cmd.Fallbacks))
	}
	return text
}

func (e *Editor) listPreferred(ctx context.Context) string {
	if e.pins == nil {
		return "Preferred products are not available right now."
	}
	pins, err := e.pins.PreferredProducts(ctx)
	if err != nil {
		return fmt.Sprintf("Could not load preferred products: %v", err)
	}
	if len(pins) == 0 {
		return "No preferred products saved yet."
	}
	lines := make([]string, 0, len(pins))
	for _, pin := range pins {
		lines = append(lines, fmt.Sprintf("%s -> %s (%d), used %d times", pin.Ingredient, pin.ProductName, pin.Stockcode, pin.UseCount))
	}
	return fmt.Sprintf("Your %d preferred products: %s", len(pins), strings.Join(lines, "; "))
}

func (e *Editor) removePreferred(ctx context.Context, ingredient string) string {
	if e.pins == nil {
		return "Preferred products are not available right now."
	}
	removed, err := e.pins.RemovePreferredProduct(ctx, ingredient)
	if err != nil {
		return fmt.Sprintf("Could not remove preference for %s: %v", ingredient, err)
	}
	if !removed {
		return fmt.Sprintf("No preference found for %s.", ingredient)
	}
	return fmt.Sprintf("Removed preference for %s.", ingredient)
}
