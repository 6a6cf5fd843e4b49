package tienda

import (
	"fmt"
	"strings"

	"github.com/etnz/tienda/date"
	"github.com/google/uuid"
)

// Sale records one sale of a product.
//
// ProductName, UnitCost, UnitGain and UnitPrice are frozen when the sale is
// recorded and never change afterwards. Sales from before snapshots existed
// have them unset, see Aggregate.
type Sale struct {
	ID           string
	ProductID    string
	ProductName  string
	Quantity     Quantity
	Place        string
	Buyer        string
	Date         date.Date
	Time         date.Clock
	Color        Color
	Observations string
	UnitCost     OptionalMoney
	UnitGain     OptionalMoney
	UnitPrice    OptionalMoney
}

// MarshalJSON writes the persisted form. Unset snapshots are omitted.
func (s Sale) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.ID)
	w.Append("productId", s.ProductID)
	w.Append("qty", s.Quantity)
	w.Append("place", s.Place)
	w.Append("dateISO", s.Date)
	w.Append("name", s.Buyer)
	w.Append("hora", s.Time)
	w.Append("color", s.Color)
	w.Append("obs", s.Observations)
	w.Optional("unitCost", s.UnitCost)
	w.Optional("unitGain", s.UnitGain)
	w.Optional("unitPrice", s.UnitPrice)
	w.Optional("productNameSnapshot", s.ProductName)
	return w.MarshalJSON()
}

// SaleDraft is a sale as typed in the sale form.
type SaleDraft struct {
	ProductID string `json:"productId" validate:"notblank"`
	Quantity  string `json:"qty" validate:"notblank"`
	Place     string `json:"place"`
	Buyer     string `json:"name"`
	Date      string `json:"dateISO"` // blank is today
	Time      string `json:"hora"`
	Color     string `json:"color"`
	Notes     string `json:"obs"`
}

// SaleEdit changes the editable fields of a sale. Nil fields are left
// untouched. Snapshots, product and quantity are not editable.
type SaleEdit struct {
	Place        *string `json:"place,omitempty"`
	Date         *string `json:"dateISO,omitempty"`
	Time         *string `json:"hora,omitempty"`
	Color        *string `json:"color,omitempty"`
	Observations *string `json:"obs,omitempty"`
}

// Sales is the sales log, most recent first.
type Sales struct {
	currency string
	items    []Sale
}

// NewSales returns a sales log in currency.
func NewSales(currency string, items ...Sale) *Sales {
	s := &Sales{currency: currency}
	for _, sale := range items {
		sale.UnitCost = sale.UnitCost.In(currency)
		sale.UnitGain = sale.UnitGain.In(currency)
		sale.UnitPrice = sale.UnitPrice.In(currency)
		s.items = append(s.items, sale)
	}
	return s
}

// Record validates the draft and prepends a new sale, snapshotting the
// product name, unit cost, unit gain and unit price as they are now.
//
// A product that cannot be resolved records zero snapshots and an empty name.
// Recording reads products and ingredients and never changes them: stock is
// not depleted by sales.
func (s *Sales) Record(draft SaleDraft, products ProductLookup, lookup IngredientLookup, today date.Date) (Sale, error) {
	if err := check(draft); err != nil {
		return Sale{}, err
	}
	qty := Q(toDecimal(draft.Quantity))
	if !qty.IsPositive() {
		return Sale{}, invalid("qty", "must be > 0, got %q", draft.Quantity)
	}
	on := today
	if strings.TrimSpace(draft.Date) != "" {
		d, err := date.Parse(strings.TrimSpace(draft.Date))
		if err != nil {
			return Sale{}, invalid("dateISO", "%v", err)
		}
		on = d
	}
	clock, err := date.ParseClock(draft.Time)
	if err != nil {
		return Sale{}, invalid("hora", "%v", err)
	}
	color, err := ParseColor(draft.Color)
	if err != nil {
		return Sale{}, invalid("color", "%v", err)
	}

	sale := Sale{
		ID:           uuid.NewString(),
		ProductID:    strings.TrimSpace(draft.ProductID),
		Quantity:     qty,
		Place:        strings.TrimSpace(draft.Place),
		Buyer:        strings.TrimSpace(draft.Buyer),
		Date:         on,
		Time:         clock,
		Color:        color,
		Observations: draft.Notes,
	}
	cost, gain := M(0, s.currency), M(0, s.currency)
	if p, ok := lookupProduct(products, sale.ProductID); ok {
		sale.ProductName = p.Name
		cost = Cost(p.Recipe, lookup).In(s.currency)
		gain = p.Margin.Or(gain)
	}
	sale.UnitCost = Some(cost)
	sale.UnitGain = Some(gain)
	sale.UnitPrice = Some(cost.Add(gain))

	s.items = append([]Sale{sale}, s.items...)
	return sale, nil
}

// Update applies the edit to the sale id.
func (s *Sales) Update(id string, edit SaleEdit) (Sale, error) {
	k := s.index(id)
	if k < 0 {
		return Sale{}, fmt.Errorf("sale %q: %w", id, ErrNotFound)
	}
	sale := s.items[k]
	if edit.Place != nil {
		sale.Place = strings.TrimSpace(*edit.Place)
	}
	if edit.Date != nil {
		d, err := date.Parse(strings.TrimSpace(*edit.Date))
		if err != nil {
			return Sale{}, invalid("dateISO", "%v", err)
		}
		sale.Date = d
	}
	if edit.Time != nil {
		c, err := date.ParseClock(*edit.Time)
		if err != nil {
			return Sale{}, invalid("hora", "%v", err)
		}
		sale.Time = c
	}
	if edit.Color != nil {
		c, err := ParseColor(*edit.Color)
		if err != nil {
			return Sale{}, invalid("color", "%v", err)
		}
		sale.Color = c
	}
	if edit.Observations != nil {
		sale.Observations = *edit.Observations
	}
	s.items[k] = sale
	return sale, nil
}

// Delete removes the sale id.
func (s *Sales) Delete(id string) error {
	k := s.index(id)
	if k < 0 {
		return fmt.Errorf("sale %q: %w", id, ErrNotFound)
	}
	s.items = append(s.items[:k], s.items[k+1:]...)
	return nil
}

// Sale returns the sale id.
func (s *Sales) Sale(id string) (Sale, bool) {
	k := s.index(id)
	if k < 0 {
		return Sale{}, false
	}
	return s.items[k], true
}

// All returns a copy of the sales, most recent first.
func (s *Sales) All() []Sale {
	return append([]Sale(nil), s.items...)
}

// Len returns the number of sales.
func (s *Sales) Len() int { return len(s.items) }

func (s *Sales) index(id string) int {
	for k, sale := range s.items {
		if sale.ID == id {
			return k
		}
	}
	return -1
}

func lookupProduct(products ProductLookup, id string) (Product, bool) {
	if products == nil || id == "" {
		return Product{}, false
	}
	return products.Product(id)
}
