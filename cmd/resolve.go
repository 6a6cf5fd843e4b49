package cmd

import (
	"fmt"
	"strings"

	"github.com/etnz/tienda"
)

// resolve finds the id of the single item matching ref: the full id, a
// unique id prefix, or the exact name (case insensitive) when name is given.
func resolve[T any](kind, ref string, items []T, id func(T) string, name func(T) string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("missing %s id", kind)
	}
	var matches []string
	for _, item := range items {
		switch {
		case id(item) == ref:
			return ref, nil
		case strings.HasPrefix(id(item), ref):
			matches = append(matches, id(item))
		case name != nil && strings.EqualFold(strings.TrimSpace(name(item)), ref):
			matches = append(matches, id(item))
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, ref, tienda.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s %q is ambiguous: %d matches", kind, ref, len(matches))
	}
}

func (s *session) ingredientID(ref string) (string, error) {
	return resolve("ingredient", ref, s.shop.Inventory.All(),
		func(i tienda.Ingredient) string { return i.ID },
		func(i tienda.Ingredient) string { return i.Name })
}

func (s *session) productID(ref string) (string, error) {
	return resolve("product", ref, s.shop.Catalog.All(),
		func(p tienda.Product) string { return p.ID },
		func(p tienda.Product) string { return p.Name })
}

func (s *session) saleID(ref string) (string, error) {
	return resolve("sale", ref, s.shop.Sales.All(),
		func(x tienda.Sale) string { return x.ID }, nil)
}

// short abbreviates an id the way reports print it.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
