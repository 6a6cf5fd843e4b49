package tienda

import (
	"testing"

	"github.com/etnz/tienda/date"
)

// TestEndToEnd follows a rose bouquet from the inventory to the monthly report.
func TestEndToEnd(t *testing.T) {
	shop, _, bouquet := bouquetShop(t)

	assertMoney(t, "cost", shop.Catalog.Cost(bouquet, shop.Inventory), USD(2.5))
	price, ok := shop.Catalog.DisplayPrice(bouquet, shop.Inventory)
	if !ok {
		t.Fatal("DisplayPrice() is unknown")
	}
	assertMoney(t, "price", price, USD(5.5))
	assertSnapshot(t, "SalePrice", bouquet.SalePrice, USD(5.5))

	sale, err := shop.RecordSale(SaleDraft{ProductID: bouquet.ID, Quantity: "2", Date: "2024-05-10"}, date.Today())
	if err != nil {
		t.Fatalf("RecordSale() unexpected error: %v", err)
	}
	assertSnapshot(t, "UnitCost", sale.UnitCost, USD(2.5))
	assertSnapshot(t, "UnitGain", sale.UnitGain, USD(3))
	assertSnapshot(t, "UnitPrice", sale.UnitPrice, USD(5.5))

	r := shop.Report(date.NewMonth(2024, 5))
	if len(r.Lines) != 1 {
		t.Fatalf("report has %d lines, want 1", len(r.Lines))
	}
	assertMoney(t, "Revenue", r.Revenue, USD(11))
	assertMoney(t, "Cost", r.Cost, USD(5))
	assertMoney(t, "Gain", r.Gain, USD(6))
	if !r.Margin.Equal(54.5454) {
		t.Errorf("Margin = %v, want 54.5%%", r.Margin)
	}
	if r.Margin.String() != "54.5%" {
		t.Errorf("Margin.String() = %q, want 54.5%%", r.Margin.String())
	}

	if other := shop.Report(date.NewMonth(2024, 6)); len(other.Lines) != 0 || !other.Revenue.IsZero() || other.Margin != 0 {
		t.Errorf("June report = %+v, want empty", other)
	}
}

func TestAggregate_Order(t *testing.T) {
	mk := func(id, day, hour string) Sale {
		return Sale{ID: id, Date: date.MustParse(day), Time: date.MustParseClock(hour), Quantity: Q(1)}
	}
	sales := []Sale{
		mk("late-no-time-1", "2024-05-02", ""),
		mk("may1-no-time", "2024-05-01", ""),
		mk("late-no-time-2", "2024-05-02", ""),
		mk("may1-9h", "2024-05-01", "09:00"),
		mk("april", "2024-04-30", "08:00"),
		mk("may2-23h", "2024-05-02", "23:59"),
		mk("may1-8h", "2024-05-01", "08:30"),
	}
	r := Aggregate(sales, date.NewMonth(2024, 5), nil, nil)
	want := []string{"may1-8h", "may1-9h", "may1-no-time", "may2-23h", "late-no-time-1", "late-no-time-2"}
	if len(r.Lines) != len(want) {
		t.Fatalf("report has %d lines, want %d", len(r.Lines), len(want))
	}
	for i, id := range want {
		if got := r.Lines[i].Sale.ID; got != id {
			t.Errorf("line %d = %q, want %q", i, got, id)
		}
	}
}

func TestAggregate_Totals(t *testing.T) {
	sales := []Sale{
		{ID: "a", Date: may10, Quantity: Q(2), UnitCost: Some(USD(1.25)), UnitGain: Some(USD(0.75)), UnitPrice: Some(USD(2))},
		{ID: "b", Date: may10, Quantity: Q(3), UnitCost: Some(USD(4)), UnitGain: Some(USD(1)), UnitPrice: Some(USD(5))},
		{ID: "c", Date: may10, Quantity: Q(1), UnitCost: Some(USD(0)), UnitGain: Some(USD(0)), UnitPrice: Some(USD(0))},
	}
	r := Aggregate(sales, date.MonthOf(may10), nil, nil)
	assertMoney(t, "Cost", r.Cost, USD(14.5))
	assertMoney(t, "Gain", r.Gain, USD(4.5))
	assertMoney(t, "Revenue", r.Revenue, USD(19))
	assertMoney(t, "Revenue = Cost + Gain", r.Revenue, r.Cost.Add(r.Gain))
	if !r.Margin.Equal(Percent(4.5 / 19 * 100)) {
		t.Errorf("Margin = %v, want %v", r.Margin, 4.5/19*100)
	}
	assertMoney(t, "Subtotal", r.Lines[1].Subtotal, USD(15))
}

func TestAggregate_ZeroRevenue(t *testing.T) {
	sales := []Sale{
		{ID: "gift", Date: may10, Quantity: Q(1), UnitCost: Some(USD(3)), UnitGain: Some(USD(-3)), UnitPrice: Some(USD(0))},
	}
	r := Aggregate(sales, date.MonthOf(may10), nil, nil)
	if r.Margin != 0 {
		t.Errorf("Margin = %v, want 0 without revenue", r.Margin)
	}
}

// sales recorded before snapshots existed are valued at current prices.
func TestAggregate_LegacyFallback(t *testing.T) {
	lookup := lookupMap{"rose": {ID: "rose", Name: "Rose", UnitPrice: USD(0.5)}}
	products := productMap{
		"bouquet": {ID: "bouquet", Name: "Bouquet", Recipe: []RecipeLine{{"rose", "5"}}, Margin: Some(USD(3))},
		"card":    {ID: "card", Name: "Card", SalePrice: Some(USD(2))},
	}
	sales := []Sale{
		{ID: "legacy", ProductID: "bouquet", Date: may10, Quantity: Q(2)},
		{ID: "partial", ProductID: "bouquet", Date: may10, Quantity: Q(1), UnitCost: Some(USD(2))},
		{ID: "no-margin", ProductID: "card", Date: may10, Quantity: Q(1)},
		{ID: "gone", ProductID: "deleted", Date: may10, Quantity: Q(4)},
		{ID: "gone-but-named", ProductID: "deleted", ProductName: "Old bouquet", Date: may10, Quantity: Q(1), UnitPrice: Some(USD(7))},
	}
	r := Aggregate(sales, date.MonthOf(may10), products, lookup)

	type want struct {
		name              string
		cost, gain, price float64
	}
	wants := []want{
		{"Bouquet", 2.5, 3, 5.5},
		{"Bouquet", 2, 3, 5},
		{"Card", 0, 0, 0},
		{"—", 0, 0, 0},
		{"Old bouquet", 0, 0, 7},
	}
	for i, w := range wants {
		l := r.Lines[i]
		if l.ProductName != w.name {
			t.Errorf("line %d ProductName = %q, want %q", i, l.ProductName, w.name)
		}
		assertMoney(t, l.Sale.ID+" UnitCost", l.UnitCost, USD(w.cost))
		assertMoney(t, l.Sale.ID+" UnitGain", l.UnitGain, USD(w.gain))
		assertMoney(t, l.Sale.ID+" UnitPrice", l.UnitPrice, USD(w.price))
	}
	assertMoney(t, "Revenue", r.Revenue, USD(11+5+7))
}

func TestSelectSales(t *testing.T) {
	sales := []Sale{
		{ID: "b", Date: date.New(2024, 5, 2), Quantity: Q(1)},
		{ID: "a", Date: date.New(2024, 5, 1), Quantity: Q(1)},
		{ID: "c", Date: date.New(2024, 5, 3), Quantity: Q(1)},
	}
	r := Aggregate(sales, date.NewMonth(2024, 5), nil, nil)

	got := SelectSales(r, false, "c", "a", "elsewhere")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("SelectSales(c, a) = %v, want a then c", got)
	}
	if got := SelectSales(r, true); len(got) != 3 {
		t.Errorf("SelectSales(all) = %d sales, want 3", len(got))
	}
	if got := SelectSales(r, false); len(got) != 0 {
		t.Errorf("SelectSales() = %d sales, want none", len(got))
	}
}
