package tienda

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/tienda/date"
	"github.com/etnz/tienda/store"
	"github.com/rs/zerolog/log"
)

// Keys of the persisted collections.
const (
	IngredientsKey = "inventario_insumos_v2"
	ProductsKey    = "inventario_productos_v2"
	SalesKey       = "inventario_ventas_v1"
)

// Keys lists every collection key.
var Keys = []string{IngredientsKey, ProductsKey, SalesKey}

// Shop is the whole state of the shop. Operations receive it explicitly.
type Shop struct {
	Currency  string
	Inventory *Inventory
	Catalog   *Catalog
	Sales     *Sales
}

// NewShop returns an empty shop.
func NewShop(currency string) *Shop {
	return &Shop{
		Currency:  currency,
		Inventory: NewInventory(currency),
		Catalog:   NewCatalog(currency),
		Sales:     NewSales(currency),
	}
}

// LoadShop reads the three collections from st. A collection that was never
// saved is empty.
func LoadShop(ctx context.Context, st store.Store, currency string) (*Shop, error) {
	return loadShop(ctx, st, currency, date.Today())
}

func loadShop(ctx context.Context, st store.Store, currency string, today date.Date) (*Shop, error) {
	blobs := make(map[string][]byte, len(Keys))
	var errs []error
	for _, key := range Keys {
		blob, err := st.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			log.Debug().Str("key", key).Msg("no collection yet")
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("could not load %s: %w", key, err))
			continue
		}
		blobs[key] = blob
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	ingredients, err := DecodeIngredients(bytes.NewReader(blobs[IngredientsKey]), currency)
	if err != nil {
		errs = append(errs, err)
	}
	products, err := DecodeProducts(bytes.NewReader(blobs[ProductsKey]), currency)
	if err != nil {
		errs = append(errs, err)
	}
	sales, err := DecodeSales(bytes.NewReader(blobs[SalesKey]), currency, today)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Shop{
		Currency:  currency,
		Inventory: NewInventory(currency, ingredients...),
		Catalog:   NewCatalog(currency, products...),
		Sales:     NewSales(currency, sales...),
	}, nil
}

// Save writes the collections named by keys, or all of them when no key is
// given. Each collection is written as a whole.
func (s *Shop) Save(ctx context.Context, st store.Store, keys ...string) error {
	if len(keys) == 0 {
		keys = Keys
	}
	var errs []error
	for _, key := range keys {
		var buf bytes.Buffer
		var err error
		switch key {
		case IngredientsKey:
			err = EncodeIngredients(&buf, s.Inventory.All())
		case ProductsKey:
			err = EncodeProducts(&buf, s.Catalog.All())
		case SalesKey:
			err = EncodeSales(&buf, s.Sales.All())
		default:
			err = fmt.Errorf("unknown collection %q", key)
		}
		if err == nil {
			err = st.Put(ctx, key, buf.Bytes())
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("could not save %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Checkpoint remembers the content of the collections. Calling the returned
// function puts them back as they were.
func (s *Shop) Checkpoint() (restore func()) {
	ingredients := slices.Clone(s.Inventory.items)
	products := slices.Clone(s.Catalog.items)
	sales := slices.Clone(s.Sales.items)
	return func() {
		s.Inventory.items = ingredients
		s.Catalog.items = products
		s.Sales.items = sales
	}
}

// Report returns the report of a month.
func (s *Shop) Report(month date.Month) MonthlyReport {
	return Aggregate(s.Sales.All(), month, s.Catalog, s.Inventory)
}

// SaveProduct creates or edits a product, see Catalog.Save.
func (s *Shop) SaveProduct(id string, draft ProductDraft) (Product, error) {
	return s.Catalog.Save(id, draft, s.Inventory)
}

// RecordSale records a sale, see Sales.Record.
func (s *Shop) RecordSale(draft SaleDraft, today date.Date) (Sale, error) {
	return s.Sales.Record(draft, s.Catalog, s.Inventory, today)
}

// Detail returns the detail of the sale id.
func (s *Shop) Detail(id string) (SaleDetail, error) {
	sale, ok := s.Sales.Sale(id)
	if !ok {
		return SaleDetail{}, fmt.Errorf("sale %q: %w", id, ErrNotFound)
	}
	return NewSaleDetail(sale, s.Catalog, s.Inventory), nil
}

// Sheet returns the print sheet of the selected sales of a month, or of the
// whole month when all is set.
func (s *Shop) Sheet(month date.Month, all bool, ids ...string) Sheet {
	return NewSheet(SelectSales(s.Report(month), all, ids...), s.Catalog, s.Inventory)
}
