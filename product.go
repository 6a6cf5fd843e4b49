package tienda

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Product is something the shop sells, made from a recipe.
//
// Its price is either derived, cost plus Margin, or fixed by SalePrice. Both
// may be unset, the price is then unknown.
type Product struct {
	ID        string
	Name      string
	Recipe    []RecipeLine
	Margin    OptionalMoney // the "ganancia"
	SalePrice OptionalMoney // price resolved when the product was saved
}

// MarshalJSON writes the persisted form {id, nombre, ganancia, precioVenta, receta}.
func (p Product) MarshalJSON() ([]byte, error) {
	recipe := p.Recipe
	if recipe == nil {
		recipe = []RecipeLine{}
	}
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("nombre", p.Name)
	w.Append("ganancia", p.Margin)
	w.Append("precioVenta", p.SalePrice)
	w.Append("receta", recipe)
	return w.MarshalJSON()
}

// ProductLookup resolves the weak product reference held by sales.
type ProductLookup interface {
	Product(id string) (Product, bool)
}

// ProductDraft is a product as typed in the product form. Amounts are
// figures, typed text or JSON numbers: a margin that does not parse means
// "no margin".
type ProductDraft struct {
	Name      string       `json:"nombre" validate:"notblank"`
	Recipe    []RecipeLine `json:"receta"`
	Margin    Figure       `json:"ganancia"`
	SalePrice Figure       `json:"precioVenta"`
}

// DraftOf returns the draft that edits p.
func DraftOf(p Product) ProductDraft {
	d := ProductDraft{
		Name:   p.Name,
		Recipe: append([]RecipeLine(nil), p.Recipe...),
	}
	if m, ok := p.Margin.Get(); ok {
		d.Margin = Figure(m.Decimal().String())
	}
	if s, ok := p.SalePrice.Get(); ok {
		d.SalePrice = Figure(s.Decimal().String())
	}
	return d
}

// Catalog holds the products, most recent first.
type Catalog struct {
	currency string
	items    []Product
}

// NewCatalog returns a catalog priced in currency.
func NewCatalog(currency string, items ...Product) *Catalog {
	c := &Catalog{currency: currency}
	for _, p := range items {
		p.Margin = p.Margin.In(currency)
		p.SalePrice = p.SalePrice.In(currency)
		c.items = append(c.items, p)
	}
	return c
}

// Save validates the draft and commits it. An empty id creates a new product
// at the front of the catalog, otherwise the product id is replaced.
//
// Recipe lines without an ingredient or a quantity are dropped. The sale price
// is resolved once, here:
//   - no price typed and a valid margin: round2(cost + margin);
//   - a valid price typed: that price, as is;
//   - otherwise: unknown.
func (c *Catalog) Save(id string, draft ProductDraft, lookup IngredientLookup) (Product, error) {
	if err := check(draft); err != nil {
		return Product{}, err
	}
	k := -1
	if id != "" {
		if k = c.index(id); k < 0 {
			return Product{}, fmt.Errorf("product %q: %w", id, ErrNotFound)
		}
	}

	recipe := make([]RecipeLine, 0, len(draft.Recipe))
	for _, line := range draft.Recipe {
		if strings.TrimSpace(line.IngredientID) == "" || line.Quantity.IsBlank() {
			continue
		}
		recipe = append(recipe, line)
	}

	p := Product{
		ID:     id,
		Name:   strings.TrimSpace(draft.Name),
		Recipe: recipe,
	}
	margin, marginOK := draft.Margin.Value()
	if marginOK {
		p.Margin = Some(M(margin, c.currency))
	}
	price, priceOK := draft.SalePrice.Value()
	switch {
	case draft.SalePrice.IsBlank() && marginOK:
		cost := Cost(recipe, lookup).In(c.currency)
		p.SalePrice = Some(cost.Add(M(margin, c.currency)).Round2())
	case priceOK:
		p.SalePrice = Some(M(price, c.currency))
	}

	if k < 0 {
		p.ID = uuid.NewString()
		c.items = append([]Product{p}, c.items...)
	} else {
		c.items[k] = p
	}
	return p, nil
}

// Delete removes the product id. Sales keep their snapshots.
func (c *Catalog) Delete(id string) error {
	k := c.index(id)
	if k < 0 {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	c.items = append(c.items[:k], c.items[k+1:]...)
	return nil
}

// Product implements ProductLookup.
func (c *Catalog) Product(id string) (Product, bool) {
	k := c.index(id)
	if k < 0 {
		return Product{}, false
	}
	return c.items[k], true
}

// All returns a copy of the products, most recent first.
func (c *Catalog) All() []Product {
	return append([]Product(nil), c.items...)
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.items) }

// Cost returns the current unit cost of p.
func (c *Catalog) Cost(p Product, lookup IngredientLookup) Money {
	return Cost(p.Recipe, lookup).In(c.currency)
}

// DisplayPrice returns the live price of p: cost plus margin when a margin is
// set, the saved sale price otherwise. It reports false when neither is known.
func (c *Catalog) DisplayPrice(p Product, lookup IngredientLookup) (Money, bool) {
	if m, ok := p.Margin.Get(); ok {
		return c.Cost(p, lookup).Add(m), true
	}
	return p.SalePrice.Get()
}

func (c *Catalog) index(id string) int {
	for k, p := range c.items {
		if p.ID == id {
			return k
		}
	}
	return -1
}
