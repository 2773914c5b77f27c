// Package catalog holds the compiled-in Wake 'n Bake menu. The catalog is
// constant for the process: no mutation operations exist, and item prices
// are copied out of it at cart-add time.
package catalog

const (
	PastriesCategory  = "pastries"
	CakesCategory     = "cakes"
	BeveragesCategory = "beverages"
)

// Item is a purchasable menu entry.
type Item struct {
	Name      string
	UnitPrice float64
}

// Category groups menu items under a display name.
type Category struct {
	Name  string
	Items []Item
}

var menu = []Category{
	{
		Name: PastriesCategory,
		Items: []Item{
			{Name: "Moist chocolate fudge pastry", UnitPrice: 150},
			{Name: "Belgian chocolate pastry", UnitPrice: 175},
			{Name: "Red velvet pastry", UnitPrice: 125},
			{Name: "Blueberry cheese pastry", UnitPrice: 100},
			{Name: "Wake 'n Bake special truffle pastry", UnitPrice: 200},
		},
	},
	{
		Name: CakesCategory,
		Items: []Item{
			{Name: "Blueberry Cheese Cake", UnitPrice: 350},
			{Name: "Hazelnut Ferrero Cake", UnitPrice: 400},
			{Name: "Dark Chocolate Excess Cake", UnitPrice: 300},
			{Name: "Dark Chocolate mousse Cake", UnitPrice: 275},
			{Name: "Red velvet Cake", UnitPrice: 300},
		},
	},
	{
		Name: BeveragesCategory,
		Items: []Item{
			{Name: "Jamaican chocolate frappe", UnitPrice: 100},
			{Name: "Viennese cold coffee", UnitPrice: 150},
			{Name: "Vanilla oreo shake", UnitPrice: 150},
			{Name: "Salted caramel shake", UnitPrice: 125},
			{Name: "Butterscotch Ice cream shake", UnitPrice: 150},
		},
	},
}

// Categories returns the full menu in display order. Callers get copies;
// the underlying data cannot be mutated through the returned slices.
func Categories() []Category {
	out := make([]Category, len(menu))
	for i, c := range menu {
		items := make([]Item, len(c.Items))
		copy(items, c.Items)
		out[i] = Category{Name: c.Name, Items: items}
	}
	return out
}

// GetCategory returns the ordered items of a single category.
// The second return value is false for an unknown category name.
func GetCategory(name string) ([]Item, bool) {
	for _, c := range menu {
		if c.Name == name {
			items := make([]Item, len(c.Items))
			copy(items, c.Items)
			return items, true
		}
	}
	return nil, false
}

// Lookup finds a single item by its exact name across all categories.
func Lookup(itemName string) (Item, bool) {
	for _, c := range menu {
		for _, item := range c.Items {
			if item.Name == itemName {
				return item, true
			}
		}
	}
	return Item{}, false
}
