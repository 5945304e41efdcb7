package shopping

import "strings"

// categoryRule pairs a category with its keyword set. Rules are scanned in
// slice order and the first substring hit wins, so the table order is the
// tie-break policy for names matching several categories.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{CategoryProduce, []string{
		"lettuce", "spinach", "kale", "arugula", "salad", "greens",
		"tomato", "cucumber", "carrot", "celery", "onion", "garlic", "ginger",
		"potato", "sweet potato", "pumpkin", "squash", "zucchini", "eggplant",
		"capsicum", "pepper", "chili", "jalapeno",
		"broccoli", "cauliflower", "cabbage", "brussels sprout",
		"apple", "banana", "orange", "lemon", "lime", "avocado",
		"strawberry", "strawberries", "blueberry", "blueberries", "raspberry", "raspberries",
		"grape", "mango", "pineapple", "berry", "berries",
		"melon", "watermelon", "peach", "pear", "plum", "cherry", "cherries",
		"mushroom", "corn", "peas", "bean", "beans", "asparagus", "beetroot",
		"parsley", "cilantro", "coriander", "basil", "mint", "dill", "thyme", "rosemary",
		"oregano", "sage", "tarragon", "chives",
		"produce", "vegetable", "fruit", "herb", "fresh", "zest",
	}},
	{CategoryDairy, []string{
		"milk", "cream", "yogurt", "yoghurt", "cheese", "butter", "egg",
		"sour cream", "cottage cheese", "ricotta", "mozzarella", "parmesan",
		"cheddar", "feta", "brie", "cream cheese", "whipped cream",
	}},
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "lamb", "turkey", "duck",
		"bacon", "ham", "sausage", "salami", "prosciutto",
		"fish", "salmon", "tuna", "cod", "prawns", "shrimp", "seafood",
		"mince", "steak", "chop", "roast", "fillet", "breast", "thigh", "wing",
		"meat", "protein",
	}},
	{CategoryBakery, []string{
		"bread", "roll", "bun", "bagel", "croissant", "muffin",
		"tortilla", "wrap", "pita", "naan", "flatbread",
		"cake", "pastry", "cookie", "biscuit",
	}},
	{CategoryPantry, []string{
		"flour", "sugar", "salt", "pepper", "oil", "vinegar",
		"rice", "pasta", "noodle", "macaroni", "couscous", "quinoa",
		"sauce", "paste", "stock", "broth", "bouillon",
		"spice", "seasoning", "cumin", "paprika", "turmeric", "curry",
		"cinnamon", "nutmeg", "vanilla", "extract",
		"honey", "syrup", "jam", "peanut butter", "tahini",
		"canned", "tin", "chickpea", "lentil", "kidney bean", "black bean",
		"coconut milk", "condensed milk", "evaporated milk", "almond milk",
		"baking powder", "baking soda", "yeast", "cornstarch", "cornflour",
		"breadcrumb", "panko", "chia seed", "chia", "flax", "sesame",
		"clove", "cloves", "mustard", "chili powder", "garlic powder", "onion powder",
		"italian herb", "dried herb", "chili flakes", "stevia",
	}},
	{CategoryFrozen, []string{
		"frozen", "ice cream", "sorbet", "gelato",
		"frozen vegetables", "frozen fruit", "frozen meal",
	}},
	{CategoryBeverages, []string{
		"water", "juice", "soda", "soft drink", "tea", "coffee",
		"wine", "beer", "spirits", "alcohol", "drink", "beverage",
	}},
	{CategorySnacks, []string{
		"chip", "crisp", "cracker", "popcorn", "pretzel",
		"chocolate", "candy", "lolly", "snack", "nut", "almond", "cashew",
	}},
}

// Categorize classifies an ingredient name into a store category. It is a
// pure function of the name alone; anything that matches no keyword lands in
// Other.
func Categorize(name string) string {
	lowered := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
