package tienda

import (
	"sort"

	"github.com/etnz/tienda/date"
)

// ReportLine is a sale as it counts in a report: its effective unit values and
// subtotal.
type ReportLine struct {
	Sale        Sale
	ProductName string // snapshot, else live name, else "—"
	UnitCost    Money
	UnitGain    Money
	UnitPrice   Money
	Subtotal    Money // UnitPrice × Quantity
}

// Cost returns UnitCost × Quantity.
func (l ReportLine) Cost() Money { return l.UnitCost.Mul(l.Sale.Quantity) }

// Gain returns UnitGain × Quantity.
func (l ReportLine) Gain() Money { return l.UnitGain.Mul(l.Sale.Quantity) }

// MonthlyReport is the sales of a month in chronological order, with totals.
type MonthlyReport struct {
	Month   date.Month
	Lines   []ReportLine
	Cost    Money
	Revenue Money
	Gain    Money
	Margin  Percent // Gain / Revenue, 0 without revenue
}

// Aggregate computes the report of a month. It is recomputed from scratch on
// every call.
//
// Lines are sorted by date then time; sales without a time come last in
// their day and ties keep the order of sales. Unit values come from the sale
// snapshots; a sale without a snapshot falls back, field by field, to the
// current product and ingredients. That fallback only matches history if the
// product did not change since.
func Aggregate(sales []Sale, month date.Month, products ProductLookup, lookup IngredientLookup) MonthlyReport {
	var selected []Sale
	for _, s := range sales {
		if month.Contains(s.Date) {
			selected = append(selected, s)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.Time.SortKey() < b.Time.SortKey()
	})

	r := MonthlyReport{Month: month, Lines: make([]ReportLine, 0, len(selected))}
	for _, s := range selected {
		line := newReportLine(s, products, lookup)
		r.Lines = append(r.Lines, line)
		r.Cost = r.Cost.Add(line.Cost())
		r.Revenue = r.Revenue.Add(line.Subtotal)
		r.Gain = r.Gain.Add(line.Gain())
	}
	r.Margin = r.Gain.Percent(r.Revenue)
	return r
}

func newReportLine(s Sale, products ProductLookup, lookup IngredientLookup) ReportLine {
	p, found := lookupProduct(products, s.ProductID)

	line := ReportLine{Sale: s, ProductName: displayName(s, p, found)}

	// live values, only computed when a snapshot is missing.
	live := func() (cost, gain Money) {
		if found {
			cost = Cost(p.Recipe, lookup)
			gain = p.Margin.Or(gain)
		}
		return cost, gain
	}
	if c, ok := s.UnitCost.Get(); ok {
		line.UnitCost = c
	} else {
		line.UnitCost, _ = live()
	}
	if g, ok := s.UnitGain.Get(); ok {
		line.UnitGain = g
	} else {
		_, line.UnitGain = live()
	}
	line.UnitPrice = s.UnitPrice.Or(line.UnitCost.Add(line.UnitGain))
	line.Subtotal = line.UnitPrice.Mul(s.Quantity)
	return line
}

// SelectSales returns the lines of the report whose sale id is in ids, in
// report order. With all set, every line of the month is selected.
func SelectSales(r MonthlyReport, all bool, ids ...string) []Sale {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	var sales []Sale
	for _, l := range r.Lines {
		if all || keep[l.Sale.ID] {
			sales = append(sales, l.Sale)
		}
	}
	return sales
}
