package tienda

import (
	"testing"

	"github.com/etnz/tienda/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// lookupMap is an IngredientLookup over a plain map.
type lookupMap map[string]Ingredient

func (m lookupMap) Ingredient(id string) (Ingredient, bool) {
	i, ok := m[id]
	return i, ok
}

// productMap is a ProductLookup over a plain map.
type productMap map[string]Product

func (m productMap) Product(id string) (Product, bool) {
	p, ok := m[id]
	return p, ok
}

// bouquetShop returns a shop with a "Rose" at 0.50 and a "Bouquet" of 5 roses
// with a 3.00 margin.
func bouquetShop(t *testing.T) (shop *Shop, rose Ingredient, bouquet Product) {
	t.Helper()
	shop = NewShop("USD")
	rose, err := shop.Inventory.Add(IngredientDraft{Name: "Rose", Quantity: "100", UnitPrice: "0.50"})
	if err != nil {
		t.Fatalf("Add(Rose) unexpected error: %v", err)
	}
	bouquet, err = shop.SaveProduct("", ProductDraft{
		Name:   "Bouquet",
		Recipe: []RecipeLine{{IngredientID: rose.ID, Quantity: "5"}},
		Margin: "3.00",
	})
	if err != nil {
		t.Fatalf("Save(Bouquet) unexpected error: %v", err)
	}
	return shop, rose, bouquet
}

func assertMoney(t *testing.T, what string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func assertSnapshot(t *testing.T, what string, got OptionalMoney, want Money) {
	t.Helper()
	m, ok := got.Get()
	if !ok {
		t.Errorf("%s is unset, want %v", what, want)
		return
	}
	assertMoney(t, what, m, want)
}

var may10 = date.New(2024, 5, 10)
