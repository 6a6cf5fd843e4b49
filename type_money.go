package tienda

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money. An empty currency is weak: it adopts the currency of the
// other operand in every operation.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, using the
// currency symbol and fraction digits. Weak money is written with 2 decimals.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.StringFixed(2)
	}
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Fixed2 returns the bare amount with exactly 2 decimals, as exported files
// want it.
func (m Money) Fixed2() string { return m.value.StringFixed(2) }

func (m Money) Currency() string             { return m.cur }
func (m Money) Decimal() decimal.Decimal     { return m.value }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool        { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool     { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money         { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Round2() Money                { return Money{value: m.value.Round(2), cur: m.cur} }
func (m Money) Add(n Money) Money            { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money            { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) MarshalJSON() ([]byte, error) { return m.object().MarshalJSON() }

// Equal compares amounts. Currencies must match unless one of them is weak.
func (m Money) Equal(n Money) bool {
	if m.cur != "" && n.cur != "" && m.cur != n.cur {
		return false
	}
	return m.value.Equal(n.value)
}

// In returns m in the given currency when m's currency is weak.
func (m Money) In(currency string) Money {
	if m.cur == "" {
		m.cur = currency
	}
	return m
}

// Percent returns m as a percentage of total, 0 when total is not positive.
func (m Money) Percent(total Money) Percent {
	if !total.IsPositive() {
		return 0
	}
	p := m.value.Mul(decimal.NewFromInt(100)).Div(total.value)
	return Percent(p.InexactFloat64())
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

func (m Money) object() *jsonObjectWriter {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value)
	return &w
}

// UnmarshalJSON reads either the {"currency","amount"} object written by
// MarshalJSON or a bare amount, which leaves the currency weak.
func (m *Money) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Currency string          `json:"currency"`
			Amount   decimal.Decimal `json:"amount"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid money %s: %w", data, err)
		}
		*m = M(obj.Amount, obj.Currency)
		return nil
	}
	*m = Money{value: decodeLenient(data)}
	return nil
}
