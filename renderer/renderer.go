// Package renderer turns the shop reports into markdown, printable HTML and
// PDF.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/tienda"
)

//go:embed *.md
var templates embed.FS

// funcs are available in every template.
var funcs = template.FuncMap{
	"cell":  cell,
	"short": short,
	"quote": quote,
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// short abbreviates an id. Commands accept any unique prefix.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// quote writes a markdown block quote.
func quote(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// RenderInventory renders the ingredient list and the stock value.
func RenderInventory(inv *tienda.Inventory) string {
	return renderTemplate("inventory", "inventory.md", nil, NewInventory(inv))
}

// RenderCatalog renders the products with their live cost and price.
func RenderCatalog(c *tienda.Catalog, lookup *tienda.Inventory) string {
	return renderTemplate("catalog", "catalog.md", nil, NewCatalog(c, lookup))
}

// RenderMonthly renders the report of a month.
func RenderMonthly(r tienda.MonthlyReport) string {
	partials := map[string]string{
		"monthly_title":  "monthly_title.md",
		"monthly_sales":  "monthly_sales.md",
		"monthly_totals": "monthly_totals.md",
	}
	return renderTemplate("monthly", "monthly.md", partials, r)
}

// RenderDetail renders what went into a sale.
func RenderDetail(d tienda.SaleDetail) string {
	return renderTemplate("detail", "detail.md", nil, d)
}

// RenderSheet renders the print sheet as a checklist per sale.
func RenderSheet(s tienda.Sheet) string {
	partials := map[string]string{
		"sheet_block": "sheet_block.md",
	}
	return renderTemplate("sheet", "sheet.md", partials, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
