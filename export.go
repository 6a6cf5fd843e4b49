package tienda

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/etnz/tienda/date"
)

// csvHeader are the column names of the exported report.
var csvHeader = []string{
	"Fecha", "Hora", "Lugar", "Color", "Nombre", "Producto", "Cantidad",
	"Costo unit.", "Ganancia", "Precio unit.", "Subtotal", "Observaciones",
}

// EncodeCSV writes the report lines as CSV, one row per sale in report order.
// Amounts have 2 decimals.
func EncodeCSV(w io.Writer, r MonthlyReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}
	for _, l := range r.Lines {
		s := l.Sale
		row := []string{
			s.Date.String(),
			s.Time.String(),
			s.Place,
			string(s.Color),
			s.Buyer,
			l.ProductName,
			s.Quantity.String(),
			l.UnitCost.Fixed2(),
			l.UnitGain.Fixed2(),
			l.UnitPrice.Fixed2(),
			l.Subtotal.Fixed2(),
			s.Observations,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("could not write sale %q: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName returns the name of the CSV file of a month.
func ExportFileName(month date.Month) string {
	return fmt.Sprintf("ventas_%s.csv", month)
}
