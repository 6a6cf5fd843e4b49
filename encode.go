package tienda

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tienda/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the codecs of the three persisted collections. Each one
// is a JSON array. Decoding normalizes what older versions wrote:
//   - missing ids get a fresh one;
//   - ids and references written as numbers become strings;
//   - missing numbers are 0, but missing snapshots stay unset;
//   - a sale without a date happened today.

// flexID is an identifier that may have been written as a number.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = flexID(strings.TrimSpace(str))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		*id = flexID(n.String())
	}
	return nil
}

// orNew returns id, or a fresh one when it is empty.
func (id flexID) orNew(kind string) string {
	if id != "" {
		return string(id)
	}
	fresh := uuid.NewString()
	log.Warn().Str("kind", kind).Str("id", fresh).Msg("assigned an id to a record without one")
	return fresh
}

// encodeArray writes items as a JSON array, never null.
func encodeArray[T any](w io.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// EncodeIngredients writes the ingredient collection.
func EncodeIngredients(w io.Writer, items []Ingredient) error { return encodeArray(w, items) }

// EncodeProducts writes the product collection.
func EncodeProducts(w io.Writer, items []Product) error { return encodeArray(w, items) }

// EncodeSales writes the sale collection.
func EncodeSales(w io.Writer, items []Sale) error { return encodeArray(w, items) }

// decodeArray reads a JSON array, an empty stream reads as an empty array.
func decodeArray[T any](r io.Reader, what string) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", what, err)
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", what, err)
	}
	return items, nil
}

// DecodeIngredients reads the ingredient collection.
func DecodeIngredients(r io.Reader, currency string) ([]Ingredient, error) {
	type jingredient struct {
		ID       flexID   `json:"id"`
		Name     string   `json:"nombre"`
		Quantity Quantity `json:"cantidad"`
		Price    Quantity `json:"precio"`
	}
	raw, err := decodeArray[jingredient](r, "ingredients")
	if err != nil {
		return nil, err
	}
	items := make([]Ingredient, 0, len(raw))
	for _, j := range raw {
		items = append(items, Ingredient{
			ID:        j.ID.orNew("ingredient"),
			Name:      j.Name,
			Quantity:  j.Quantity,
			UnitPrice: M(j.Price.value, currency),
		})
	}
	return items, nil
}

// DecodeProducts reads the product collection.
func DecodeProducts(r io.Reader, currency string) ([]Product, error) {
	type jline struct {
		IngredientID flexID `json:"insumoId"`
		Quantity     Figure `json:"cantidad"`
	}
	type jproduct struct {
		ID        flexID        `json:"id"`
		Name      string        `json:"nombre"`
		Margin    OptionalMoney `json:"ganancia"`
		SalePrice OptionalMoney `json:"precioVenta"`
		Recipe    []jline       `json:"receta"`
	}
	raw, err := decodeArray[jproduct](r, "products")
	if err != nil {
		return nil, err
	}
	items := make([]Product, 0, len(raw))
	for _, j := range raw {
		p := Product{
			ID:        j.ID.orNew("product"),
			Name:      j.Name,
			Margin:    j.Margin.In(currency),
			SalePrice: j.SalePrice.In(currency),
		}
		for _, l := range j.Recipe {
			p.Recipe = append(p.Recipe, RecipeLine{IngredientID: string(l.IngredientID), Quantity: l.Quantity})
		}
		items = append(items, p)
	}
	return items, nil
}

// DecodeSales reads the sale collection. Sales without a readable date are
// dated today, a time that does not read is kept as is.
func DecodeSales(r io.Reader, currency string, today date.Date) ([]Sale, error) {
	type jsale struct {
		ID        flexID        `json:"id"`
		ProductID flexID        `json:"productId"`
		Quantity  Quantity      `json:"qty"`
		Place     string        `json:"place"`
		Date      string        `json:"dateISO"`
		Buyer     string        `json:"name"`
		Time      string        `json:"hora"`
		Color     string        `json:"color"`
		Notes     string        `json:"obs"`
		UnitCost  OptionalMoney `json:"unitCost"`
		UnitGain  OptionalMoney `json:"unitGain"`
		UnitPrice OptionalMoney `json:"unitPrice"`
		Name      string        `json:"productNameSnapshot"`
	}
	raw, err := decodeArray[jsale](r, "sales")
	if err != nil {
		return nil, err
	}
	items := make([]Sale, 0, len(raw))
	for _, j := range raw {
		s := Sale{
			ID:           j.ID.orNew("sale"),
			ProductID:    string(j.ProductID),
			ProductName:  j.Name,
			Quantity:     j.Quantity,
			Place:        j.Place,
			Buyer:        j.Buyer,
			Date:         today,
			Color:        Color(strings.TrimSpace(j.Color)),
			Observations: j.Notes,
			UnitCost:     j.UnitCost.In(currency),
			UnitGain:     j.UnitGain.In(currency),
			UnitPrice:    j.UnitPrice.In(currency),
		}
		if on, err := date.Parse(strings.TrimSpace(j.Date)); err == nil {
			s.Date = on
		} else {
			log.Warn().Str("sale", s.ID).Str("dateISO", j.Date).Stringer("date", today).Msg("sale without a readable date, dated today")
		}
		if s.Time, err = date.ParseClock(j.Time); err != nil {
			log.Warn().Str("sale", s.ID).Str("hora", j.Time).Msg("kept an unreadable time")
			s.Time = date.UnreadClock(j.Time)
		}
		items = append(items, s)
	}
	return items, nil
}
