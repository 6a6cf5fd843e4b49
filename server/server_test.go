package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/tienda"
	"github.com/etnz/tienda/date"
	"github.com/etnz/tienda/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMem()
	s := New(st, tienda.NewShop("USD"))
	s.today = func() date.Date { return date.New(2024, 5, 10) }
	return s, st
}

// do sends a request with an optional JSON body and decodes the JSON answer
// into out when it is not nil.
func do(t *testing.T, s *Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

// seed adds Rose (0.50) and a Bouquet of 5 roses with a margin of 3, and
// returns their ids.
func seed(t *testing.T, s *Server) (rose, bouquet string) {
	t.Helper()
	var ing map[string]any
	rec := do(t, s, http.MethodPost, "/api/insumos", map[string]string{"nombre": "Rose", "cantidad": "100", "precio": "0,50"}, &ing)
	require.Equal(t, http.StatusCreated, rec.Code)
	rose = ing["id"].(string)

	var view struct {
		Product struct {
			ID string `json:"id"`
		} `json:"producto"`
		Price float64 `json:"precio"`
	}
	rec = do(t, s, http.MethodPut, "/api/productos", map[string]any{
		"nombre":   "Bouquet",
		"receta":   []map[string]string{{"insumoId": rose, "cantidad": "5"}},
		"ganancia": "3",
	}, &view)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.InDelta(t, 5.5, view.Price, 1e-9)
	return rose, view.Product.ID
}

func TestIngredients(t *testing.T) {
	s, st := newTestServer(t)
	rose, _ := seed(t, s)

	blob, err := st.Get(context.Background(), tienda.IngredientsKey)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"Rose"`)

	var list struct {
		Ingredients []map[string]any `json:"insumos"`
		Value       struct {
			Amount float64 `json:"amount"`
		} `json:"valor"`
	}
	rec := do(t, s, http.MethodGet, "/api/insumos", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list.Ingredients, 1)
	assert.InDelta(t, 50, list.Value.Amount, 1e-9)

	rec = do(t, s, http.MethodPatch, "/api/insumos/"+rose, map[string]string{"precio": "0.60"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/insumos/"+rose, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodDelete, "/api/insumos/"+rose, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/insumos", map[string]string{"nombre": " ", "cantidad": "1", "precio": "1"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/ventas", map[string]string{"productId": "x", "qty": "0"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/insumos", strings.NewReader("{"))
	res := httptest.NewRecorder()
	s.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSaleAndMonthlyReport(t *testing.T) {
	s, st := newTestServer(t)
	rose, bouquet := seed(t, s)

	var sale map[string]any
	rec := do(t, s, http.MethodPost, "/api/ventas", map[string]string{"productId": bouquet, "qty": "2", "hora": "9:30"}, &sale)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2024-05-10", sale["dateISO"])
	assert.Equal(t, "09:30", sale["hora"])

	// a later price change does not touch the recorded sale.
	rec = do(t, s, http.MethodPatch, "/api/insumos/"+rose, map[string]string{"precio": "10"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Month   string `json:"Month"`
		Revenue struct {
			Amount float64 `json:"amount"`
		}
		Gain struct {
			Amount float64 `json:"amount"`
		}
		Margin float64
	}
	rec = do(t, s, http.MethodGet, "/api/meses/2024-05", nil, &report)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-05", report.Month)
	assert.InDelta(t, 11, report.Revenue.Amount, 1e-9)
	assert.InDelta(t, 6, report.Gain.Amount, 1e-9)
	assert.InDelta(t, 54.545, report.Margin, 1e-2)

	_, err := st.Get(context.Background(), tienda.SalesKey)
	assert.NoError(t, err)

	id := sale["id"].(string)
	rec = do(t, s, http.MethodPatch, "/api/ventas/"+id, map[string]string{"color": "rosa"}, &sale)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#FFCDD2", sale["color"])

	rec = do(t, s, http.MethodGet, "/api/ventas/"+id+"/detalle", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/ventas/nope/detalle", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/ventas/"+id, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteProductNeedsConfirmation(t *testing.T) {
	s, _ := newTestServer(t)
	_, bouquet := seed(t, s)

	rec := do(t, s, http.MethodDelete, "/api/productos/"+bouquet, nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/productos/"+bouquet+"?confirm=true", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var products []any
	do(t, s, http.MethodGet, "/api/productos", nil, &products)
	assert.Empty(t, products)
}

func TestDownloads(t *testing.T) {
	s, _ := newTestServer(t)
	_, bouquet := seed(t, s)
	rec := do(t, s, http.MethodPost, "/api/ventas", map[string]string{"productId": bouquet, "qty": "1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/meses/2024-05/csv", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ventas_2024-05.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Fecha,Hora,"))
	assert.Contains(t, rec.Body.String(), "Bouquet")

	rec = do(t, s, http.MethodGet, "/api/meses/2024-05/hoja.pdf?all=true", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = do(t, s, http.MethodGet, "/api/meses/2024-05/hoja.pdf", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/meses/mayo/csv", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// failingStore refuses every write once broken is set.
type failingStore struct {
	*store.Mem
	broken bool
}

func (f *failingStore) Put(ctx context.Context, key string, blob []byte) error {
	if f.broken {
		return errors.New("disk full")
	}
	return f.Mem.Put(ctx, key, blob)
}

func TestFailedSaveRollsBack(t *testing.T) {
	st := &failingStore{Mem: store.NewMem()}
	s := New(st, tienda.NewShop("USD"))
	s.today = func() date.Date { return date.New(2024, 5, 10) }
	rose, bouquet := seed(t, s)
	st.broken = true

	rec := do(t, s, http.MethodPost, "/api/insumos", map[string]string{"nombre": "Fern", "cantidad": "1", "precio": "1"}, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	rec = do(t, s, http.MethodPatch, "/api/insumos/"+rose, map[string]string{"nombre": "Tulip"}, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	rec = do(t, s, http.MethodDelete, "/api/productos/"+bouquet+"?confirm=true", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/ventas", map[string]string{"productId": bouquet, "qty": "1"}, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var list struct {
		Ingredients []struct {
			Name string `json:"nombre"`
		} `json:"insumos"`
	}
	do(t, s, http.MethodGet, "/api/insumos", nil, &list)
	require.Len(t, list.Ingredients, 1)
	assert.Equal(t, "Rose", list.Ingredients[0].Name)

	var products []any
	do(t, s, http.MethodGet, "/api/productos", nil, &products)
	assert.Len(t, products, 1)
	var sales []any
	do(t, s, http.MethodGet, "/api/ventas", nil, &sales)
	assert.Empty(t, sales)

	// once the store works again, only accepted changes are written.
	st.broken = false
	rec = do(t, s, http.MethodPost, "/api/insumos", map[string]string{"nombre": "Moss", "cantidad": "1", "precio": "1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	blob, err := st.Get(context.Background(), tienda.IngredientsKey)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "Fern")
	assert.NotContains(t, string(blob), "Tulip")
}

func TestSaveProductAcceptsNumbers(t *testing.T) {
	s, _ := newTestServer(t)
	rose, _ := seed(t, s)

	var view struct {
		Price float64 `json:"precio"`
	}
	rec := do(t, s, http.MethodPut, "/api/productos", map[string]any{
		"nombre":   "Big bouquet",
		"receta":   []map[string]any{{"insumoId": rose, "cantidad": 10}},
		"ganancia": 4,
	}, &view)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.InDelta(t, 9, view.Price, 1e-9)
}
