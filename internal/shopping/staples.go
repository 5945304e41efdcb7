package shopping

// DefaultStaples is the starter checklist a new session begins with. Every
// entry starts out of stock so the first generated list includes it.
func DefaultStaples() []Staple {
	return []Staple{
		{Name: "Milk", Quantity: "2", Unit: "L", Category: CategoryDairy},
		{Name: "Eggs", Quantity: "1", Unit: "dozen", Category: CategoryDairy},
		{Name: "Bread", Quantity: "1", Unit: "loaf", Category: CategoryBakery},
		{Name: "Strawberries", Quantity: "1", Unit: "punnet", Category: CategoryProduce},
		{Name: "Blueberries", Quantity: "1", Unit: "punnet", Category: CategoryProduce},
		{Name: "Butter", Quantity: "250", Unit: "g", Category: CategoryDairy},
		{Name: "Cheese", Quantity: "500", Unit: "g", Category: CategoryDairy},
		{Name: "Bananas", Quantity: "1", Unit: "bunch", Category: CategoryProduce},
		{Name: "Apples", Quantity: "1", Unit: "kg", Category: CategoryProduce},
		{Name: "Carrots", Quantity: "1", Unit: "kg", Category: CategoryProduce},
	}
}
