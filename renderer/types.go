package renderer

import "github.com/etnz/tienda"

// Inventory is the ingredient list as rendered.
type Inventory struct {
	Ingredients []tienda.Ingredient `json:"ingredients"`
	Value       tienda.Money        `json:"value"`
}

// NewInventory builds the inventory view.
func NewInventory(inv *tienda.Inventory) *Inventory {
	return &Inventory{Ingredients: inv.All(), Value: inv.Value()}
}

// Catalog is the product list as rendered, priced at current ingredient
// prices.
type Catalog struct {
	Products []CatalogProduct `json:"products"`
}

// CatalogProduct is a product with its live cost and price.
type CatalogProduct struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Cost   tienda.Money         `json:"cost"`
	Margin tienda.OptionalMoney `json:"margin"`
	Price  tienda.OptionalMoney `json:"price"`
	Recipe []CatalogLine        `json:"recipe"`
}

// CatalogLine is a recipe line with the ingredient name resolved.
type CatalogLine struct {
	IngredientName string          `json:"ingredient"`
	Quantity       tienda.Quantity `json:"quantity"`
}

// NewCatalog builds the catalog view.
func NewCatalog(c *tienda.Catalog, inv *tienda.Inventory) *Catalog {
	view := &Catalog{}
	for _, p := range c.All() {
		cp := CatalogProduct{
			ID:     p.ID,
			Name:   p.Name,
			Cost:   c.Cost(p, inv),
			Margin: p.Margin,
		}
		if price, ok := c.DisplayPrice(p, inv); ok {
			cp.Price = tienda.Some(price)
		}
		for _, line := range p.Recipe {
			cp.Recipe = append(cp.Recipe, CatalogLine{
				IngredientName: inv.Name(line.IngredientID),
				Quantity:       line.Quantity.Quantity(),
			})
		}
		view.Products = append(view.Products, cp)
	}
	return view
}
