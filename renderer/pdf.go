package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tienda"
	"github.com/go-pdf/fpdf"
)

// SheetPDF writes the print sheet as an A4 PDF, one block per sale with a
// box to tick per ingredient.
func SheetPDF(w io.Writer, sheet tienda.Sheet, title string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(title, true)
	pdf.AddPage()
	// core fonts are cp1252, names are UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(sheet.Blocks) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentW, 6, tr("No hay ventas seleccionadas."), "", 1, "L", false, 0, "")
	}

	for _, b := range sheet.Blocks {
		// keep a block header with at least its first lines.
		if _, y := pdf.GetXY(); y > 250 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(contentW, 7, tr(fmt.Sprintf("%s × %s", b.ProductName, b.Sale.Quantity)), "B", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, tr(blockInfo(b.Sale)), "", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 10)
		for _, l := range b.Lines {
			x, y := pdf.GetXY()
			pdf.Rect(x+1, y+1.2, 3.5, 3.5, "D")
			pdf.SetX(x + 7)
			pdf.CellFormat(25, 6, l.TotalQuantity.String(), "", 0, "R", false, 0, "")
			pdf.CellFormat(contentW-32, 6, tr("  "+l.IngredientName), "", 1, "L", false, 0, "")
		}
		if b.Observations != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(contentW, 5, tr(b.Observations), "L", "L", false)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

// blockInfo is the date, time, buyer and place of a sale on one line.
func blockInfo(s tienda.Sale) string {
	parts := []string{s.Date.String()}
	for _, p := range []string{s.Time.String(), s.Buyer, s.Place} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}
