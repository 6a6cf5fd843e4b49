package tienda

import "github.com/etnz/tienda/date"

// SheetLine is an ingredient to prepare for a sale.
type SheetLine struct {
	IngredientID   string
	IngredientName string   // "—" when the ingredient is gone
	TotalQuantity  Quantity // per unit × sold quantity
}

// SheetBlock is the preparation block of one sale.
type SheetBlock struct {
	Sale         Sale
	ProductName  string
	Lines        []SheetLine
	Observations string
}

// Sheet is the print sheet: what to assemble for a selection of sales.
type Sheet struct {
	Blocks []SheetBlock
}

// NewSheet returns one block per sale, in the given order, listing every
// recipe line of the sold product at the sold quantity.
func NewSheet(sales []Sale, products ProductLookup, lookup IngredientLookup) Sheet {
	var sheet Sheet
	for _, s := range sales {
		p, found := lookupProduct(products, s.ProductID)
		block := SheetBlock{
			Sale:         s,
			ProductName:  displayName(s, p, found),
			Observations: s.Observations,
		}
		for _, r := range p.Recipe {
			block.Lines = append(block.Lines, SheetLine{
				IngredientID:   r.IngredientID,
				IngredientName: ingredientName(lookup, r.IngredientID),
				TotalQuantity:  r.Quantity.Quantity().Mul(s.Quantity),
			})
		}
		sheet.Blocks = append(sheet.Blocks, block)
	}
	return sheet
}

// DetailLine is a recipe line of a sold product, priced at current prices.
type DetailLine struct {
	SheetLine
	UnitPrice Money // of the ingredient, 0 when it is gone
	Subtotal  Money
}

// SaleDetail lists what went into a sale.
type SaleDetail struct {
	Sale        Sale
	ProductName string
	Lines       []DetailLine
	Total       Money // ingredient cost of the sale
}

// NewSaleDetail returns the ingredients of a sale at current prices.
func NewSaleDetail(s Sale, products ProductLookup, lookup IngredientLookup) SaleDetail {
	p, found := lookupProduct(products, s.ProductID)
	d := SaleDetail{Sale: s, ProductName: displayName(s, p, found)}
	for _, r := range p.Recipe {
		line := DetailLine{SheetLine: SheetLine{
			IngredientID:   r.IngredientID,
			IngredientName: unknown,
			TotalQuantity:  r.Quantity.Quantity().Mul(s.Quantity),
		}}
		if lookup != nil {
			if ing, ok := lookup.Ingredient(r.IngredientID); ok {
				line.IngredientName = ing.Name
				line.UnitPrice = ing.UnitPrice
			}
		}
		line.Subtotal = line.UnitPrice.Mul(line.TotalQuantity)
		d.Total = d.Total.Add(line.Subtotal)
		d.Lines = append(d.Lines, line)
	}
	return d
}

// SalesOn returns the sales of a day, in the order of the report.
func SalesOn(r MonthlyReport, day date.Date) []Sale {
	var sales []Sale
	for _, l := range r.Lines {
		if l.Sale.Date == day {
			sales = append(sales, l.Sale)
		}
	}
	return sales
}

func displayName(s Sale, p Product, found bool) string {
	switch {
	case s.ProductName != "":
		return s.ProductName
	case found:
		return p.Name
	default:
		return unknown
	}
}
