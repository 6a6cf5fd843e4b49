package tienda

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Ingredient is a raw material the shop keeps in stock.
type Ingredient struct {
	ID        string
	Name      string
	Quantity  Quantity // on hand, informational only
	UnitPrice Money
}

// Value returns the stock value of the ingredient.
func (i Ingredient) Value() Money { return i.UnitPrice.Mul(i.Quantity) }

// MarshalJSON writes the persisted form {id, nombre, cantidad, precio}.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", i.ID)
	w.Append("nombre", i.Name)
	w.Append("cantidad", i.Quantity)
	w.Append("precio", i.UnitPrice.Decimal())
	return w.MarshalJSON()
}

// IngredientLookup resolves the weak references held by recipe lines.
// A missing ingredient reports false and is never an error.
type IngredientLookup interface {
	Ingredient(id string) (Ingredient, bool)
}

// IngredientDraft is an ingredient as typed in the add form.
type IngredientDraft struct {
	Name      string `json:"nombre" validate:"notblank"`
	Quantity  string `json:"cantidad" validate:"notblank,decimal"`
	UnitPrice string `json:"precio" validate:"notblank,decimal"`
}

// IngredientEdit changes some fields of an ingredient. Nil fields are left
// untouched.
type IngredientEdit struct {
	Name      *string `json:"nombre,omitempty"`
	Quantity  *string `json:"cantidad,omitempty"`
	UnitPrice *string `json:"precio,omitempty"`
}

// Inventory is the ingredient ledger, in insertion order.
type Inventory struct {
	currency string
	items    []Ingredient
}

// NewInventory returns an inventory priced in currency.
func NewInventory(currency string, items ...Ingredient) *Inventory {
	inv := &Inventory{currency: currency}
	for _, i := range items {
		i.UnitPrice = i.UnitPrice.In(currency)
		inv.items = append(inv.items, i)
	}
	return inv
}

// Currency of the unit prices.
func (inv *Inventory) Currency() string { return inv.currency }

// Add validates the draft and appends a new ingredient.
func (inv *Inventory) Add(draft IngredientDraft) (Ingredient, error) {
	if err := check(draft); err != nil {
		return Ingredient{}, err
	}
	i := Ingredient{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(draft.Name),
		Quantity:  Q(toDecimal(draft.Quantity)),
		UnitPrice: M(toDecimal(draft.UnitPrice), inv.currency),
	}
	inv.items = append(inv.items, i)
	return i, nil
}

// Update applies the edit to the ingredient id. Numbers that do not parse
// are stored as 0.
func (inv *Inventory) Update(id string, edit IngredientEdit) (Ingredient, error) {
	k := inv.index(id)
	if k < 0 {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", id, ErrNotFound)
	}
	i := inv.items[k]
	if edit.Name != nil {
		i.Name = strings.TrimSpace(*edit.Name)
	}
	if edit.Quantity != nil {
		i.Quantity = Q(toDecimal(*edit.Quantity))
	}
	if edit.UnitPrice != nil {
		i.UnitPrice = M(toDecimal(*edit.UnitPrice), inv.currency)
	}
	inv.items[k] = i
	return i, nil
}

// Delete removes the ingredient id. Recipes that use it are left dangling.
func (inv *Inventory) Delete(id string) error {
	k := inv.index(id)
	if k < 0 {
		return fmt.Errorf("ingredient %q: %w", id, ErrNotFound)
	}
	inv.items = append(inv.items[:k], inv.items[k+1:]...)
	return nil
}

// Ingredient implements IngredientLookup.
func (inv *Inventory) Ingredient(id string) (Ingredient, bool) {
	k := inv.index(id)
	if k < 0 {
		return Ingredient{}, false
	}
	return inv.items[k], true
}

// All returns a copy of the ingredients.
func (inv *Inventory) All() []Ingredient {
	return append([]Ingredient(nil), inv.items...)
}

// Len returns the number of ingredients.
func (inv *Inventory) Len() int { return len(inv.items) }

// Value returns the total stock value.
func (inv *Inventory) Value() Money {
	total := M(0, inv.currency)
	for _, i := range inv.items {
		total = total.Add(i.Value())
	}
	return total
}

// Name returns the name of the ingredient id, or "—".
func (inv *Inventory) Name(id string) string { return ingredientName(inv, id) }

func (inv *Inventory) index(id string) int {
	for k, i := range inv.items {
		if i.ID == id {
			return k
		}
	}
	return -1
}
