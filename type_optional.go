package tienda

import (
	"bytes"
	"encoding/json"
)

// OptionalMoney is an amount that may be absent. Absent is not zero: a product
// without a margin and a product with a zero margin are priced differently.
type OptionalMoney struct {
	m  Money
	ok bool
}

// Some returns a set OptionalMoney.
func Some(m Money) OptionalMoney { return OptionalMoney{m: m, ok: true} }

// None returns the unset OptionalMoney.
func None() OptionalMoney { return OptionalMoney{} }

// Get returns the amount and whether it is set.
func (o OptionalMoney) Get() (Money, bool) { return o.m, o.ok }

// IsSet reports whether the amount is set.
func (o OptionalMoney) IsSet() bool { return o.ok }

// Or returns the amount if set, def otherwise.
func (o OptionalMoney) Or(def Money) Money {
	if o.ok {
		return o.m
	}
	return def
}

// In returns o with its weak currency replaced by currency.
func (o OptionalMoney) In(currency string) OptionalMoney {
	o.m = o.m.In(currency)
	return o
}

// String returns the formatted amount or "—" when unset.
func (o OptionalMoney) String() string {
	if !o.ok {
		return unknown
	}
	return o.m.String()
}

// MarshalJSON writes the bare amount or "" when unset.
func (o OptionalMoney) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte(`""`), nil
	}
	return o.m.value.MarshalJSON()
}

// UnmarshalJSON reads a number, a numeric string with either decimal separator,
// "" or null. Strings that are not numbers leave the amount unset.
func (o *OptionalMoney) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = None()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if v, ok := ParseDecimal(str); ok {
			*o = Some(M(v, ""))
		} else {
			*o = None()
		}
		return nil
	}
	var m Money
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	*o = Some(m)
	return nil
}
