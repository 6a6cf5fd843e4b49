package tienda

// RecipeLine is the quantity of one ingredient needed per unit of product.
// The ingredient is a weak reference and may dangle.
type RecipeLine struct {
	IngredientID string `json:"insumoId"`
	Quantity     Figure `json:"cantidad"`
}

// Cost returns the unit cost of a recipe at current ingredient prices.
//
// A line whose ingredient cannot be resolved, or whose quantity is blank or
// not a number, contributes 0. Cost never fails and has no side effect.
func Cost(recipe []RecipeLine, lookup IngredientLookup) Money {
	var total Money
	for _, line := range recipe {
		if lookup == nil {
			break
		}
		ing, ok := lookup.Ingredient(line.IngredientID)
		if !ok {
			continue
		}
		total = total.Add(ing.UnitPrice.Mul(line.Quantity.Quantity()))
	}
	return total
}

// ingredientName resolves an ingredient name, "—" when it is gone.
func ingredientName(lookup IngredientLookup, id string) string {
	if lookup == nil {
		return unknown
	}
	if ing, ok := lookup.Ingredient(id); ok {
		return ing.Name
	}
	return unknown
}
