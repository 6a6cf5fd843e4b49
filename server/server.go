// Package server exposes the shop operations as a JSON API.
//
// Requests are served one at a time: a single lock guards the shop, and
// every change is saved to the store before the response is written.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/tienda"
	"github.com/etnz/tienda/date"
	"github.com/etnz/tienda/renderer"
	"github.com/etnz/tienda/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Server serves the API of one shop.
type Server struct {
	mu     sync.Mutex
	store  store.Store
	shop   *tienda.Shop
	today  func() date.Date
	router chi.Router
}

// New returns a Server for shop, saving changes to st.
func New(st store.Store, shop *tienda.Shop) *Server {
	s := &Server{store: st, shop: shop, today: date.Today}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/insumos", s.listIngredients)
		r.Post("/insumos", s.addIngredient)
		r.Patch("/insumos/{id}", s.updateIngredient)
		r.Delete("/insumos/{id}", s.deleteIngredient)

		r.Get("/productos", s.listProducts)
		r.Put("/productos", s.saveProduct)
		r.Put("/productos/{id}", s.saveProduct)
		r.Delete("/productos/{id}", s.deleteProduct)

		r.Get("/ventas", s.listSales)
		r.Post("/ventas", s.recordSale)
		r.Patch("/ventas/{id}", s.updateSale)
		r.Delete("/ventas/{id}", s.deleteSale)
		r.Get("/ventas/{id}/detalle", s.saleDetail)

		r.Get("/meses/{month}", s.monthlyReport)
		r.Get("/meses/{month}/csv", s.exportCSV)
		r.Get("/meses/{month}/hoja.pdf", s.sheetPDF)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// apply runs change and saves the collection key. When saving fails the shop
// is rolled back. It must be called with the lock held.
func (s *Server) apply(r *http.Request, key string, change func() error) error {
	restore := s.shop.Checkpoint()
	if err := change(); err != nil {
		return err
	}
	if err := s.shop.Save(r.Context(), s.store, key); err != nil {
		restore()
		return fmt.Errorf("could not persist: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("could not write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case tienda.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, tienda.ErrNotFound):
		status = http.StatusNotFound
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf(format, args...)})
}

// decode reads the JSON body into v and answers 400 when it cannot.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid body: %v", err)
		return false
	}
	return true
}

func (s *Server) listIngredients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"insumos": s.shop.Inventory.All(),
		"valor":   s.shop.Inventory.Value(),
	})
}

func (s *Server) addIngredient(w http.ResponseWriter, r *http.Request) {
	var draft tienda.IngredientDraft
	if !decode(w, r, &draft) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ing tienda.Ingredient
	err := s.apply(r, tienda.IngredientsKey, func() (err error) {
		ing, err = s.shop.Inventory.Add(draft)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ing)
}

func (s *Server) updateIngredient(w http.ResponseWriter, r *http.Request) {
	var edit tienda.IngredientEdit
	if !decode(w, r, &edit) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ing tienda.Ingredient
	err := s.apply(r, tienda.IngredientsKey, func() (err error) {
		ing, err = s.shop.Inventory.Update(chi.URLParam(r, "id"), edit)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

func (s *Server) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.apply(r, tienda.IngredientsKey, func() error {
		return s.shop.Inventory.Delete(chi.URLParam(r, "id"))
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// productView is a product with its live cost and price.
type productView struct {
	Product tienda.Product       `json:"producto"`
	Cost    tienda.Money         `json:"costo"`
	Price   tienda.OptionalMoney `json:"precio"`
}

func (s *Server) view(p tienda.Product) productView {
	v := productView{Product: p, Cost: s.shop.Catalog.Cost(p, s.shop.Inventory)}
	if price, ok := s.shop.Catalog.DisplayPrice(p, s.shop.Inventory); ok {
		v.Price = tienda.Some(price)
	}
	return v
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := []productView{}
	for _, p := range s.shop.Catalog.All() {
		views = append(views, s.view(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) saveProduct(w http.ResponseWriter, r *http.Request) {
	var draft tienda.ProductDraft
	if !decode(w, r, &draft) {
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	var p tienda.Product
	err := s.apply(r, tienda.ProductsKey, func() (err error) {
		p, err = s.shop.SaveProduct(id, draft)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, s.view(p))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "deleting a product needs ?confirm=true"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.apply(r, tienda.ProductsKey, func() error {
		return s.shop.Catalog.Delete(chi.URLParam(r, "id"))
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sales := s.shop.Sales.All()
	if sales == nil {
		sales = []tienda.Sale{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (s *Server) recordSale(w http.ResponseWriter, r *http.Request) {
	var draft tienda.SaleDraft
	if !decode(w, r, &draft) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var sale tienda.Sale
	err := s.apply(r, tienda.SalesKey, func() (err error) {
		sale, err = s.shop.RecordSale(draft, s.today())
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (s *Server) updateSale(w http.ResponseWriter, r *http.Request) {
	var edit tienda.SaleEdit
	if !decode(w, r, &edit) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var sale tienda.Sale
	err := s.apply(r, tienda.SalesKey, func() (err error) {
		sale, err = s.shop.Sales.Update(chi.URLParam(r, "id"), edit)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (s *Server) deleteSale(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.apply(r, tienda.SalesKey, func() error {
		return s.shop.Sales.Delete(chi.URLParam(r, "id"))
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) saleDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, err := s.shop.Detail(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// month reads the {month} parameter and answers 400 when it is invalid.
func month(w http.ResponseWriter, r *http.Request) (date.Month, bool) {
	m, err := date.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		badRequest(w, "%v", err)
		return date.Month{}, false
	}
	return m, true
}

func (s *Server) monthlyReport(w http.ResponseWriter, r *http.Request) {
	m, ok := month(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.shop.Report(m))
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	m, ok := month(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	if err := tienda.EncodeCSV(&buf, s.shop.Report(m)); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tienda.ExportFileName(m)))
	w.Write(buf.Bytes())
}

func (s *Server) sheetPDF(w http.ResponseWriter, r *http.Request) {
	m, ok := month(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	all := q.Get("all") == "true"
	if !all && len(q["id"]) == 0 {
		badRequest(w, "select sales with id=... or all=true")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	sheet := s.shop.Sheet(m, all, q["id"]...)
	if err := renderer.SheetPDF(&buf, sheet, fmt.Sprintf("Hoja de armado %s", m)); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(buf.Bytes())
}
