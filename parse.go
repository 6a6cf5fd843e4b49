package tienda

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// unknown is displayed in place of a name or an amount that cannot be resolved.
const unknown = "—"

// ParseDecimal parses a decimal typed by a person. Surrounding spaces are
// ignored and the first ',' is read as the decimal point, so "2,5" and "2.5"
// are the same number. It reports false for blank or malformed input and never
// fails otherwise: callers decide whether that is a validation error or a zero.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// toDecimal is ParseDecimal where anything unreadable is 0.
func toDecimal(s string) decimal.Decimal {
	d, _ := ParseDecimal(s)
	return d
}

// decodeLenient reads a JSON number or numeric string. Everything else,
// including null, is 0.
func decodeLenient(data []byte) decimal.Decimal {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return decimal.Zero
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return decimal.Zero
		}
		return toDecimal(str)
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return decimal.Zero
	}
	return d
}

// Figure is a number as it was typed, kept verbatim. Recipe quantities are
// figures: the shop keeps "2,5" as typed and reads it as 2.5.
type Figure string

// Value parses the figure. See ParseDecimal.
func (f Figure) Value() (decimal.Decimal, bool) { return ParseDecimal(string(f)) }

// IsBlank reports whether nothing was typed.
func (f Figure) IsBlank() bool { return strings.TrimSpace(string(f)) == "" }

// Quantity returns the figure as a Quantity, 0 when it does not parse.
func (f Figure) Quantity() Quantity { return Quantity{value: toDecimal(string(f))} }

// UnmarshalJSON accepts a string or a number.
func (f *Figure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = Figure(str)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = Figure(n.String())
	}
	return nil
}
