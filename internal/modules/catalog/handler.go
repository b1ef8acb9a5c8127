package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Evaluator reports the orderability of a product at request time.
type Evaluator interface {
	Status(p Product) string
}

// Handler exposes the presentation-facing catalog endpoints.
type Handler struct {
	store     *Store
	evaluator Evaluator
}

func NewHandler(store *Store, evaluator Evaluator) *Handler {
	return &Handler{store: store, evaluator: evaluator}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/config", h.getConfig)
		r.Get("/shipping-zones", h.listZones)
	})
}

// ProductView is a product annotated with its current order-window status.
type ProductView struct {
	Product
	Status string `json:"status"`
}

type configView struct {
	CloseDate      time.Time `json:"close_date"`
	DeliveryNotice string    `json:"delivery_notice"`
}

type zoneView struct {
	Index int `json:"index"`
	ShippingZone
}

func (h *Handler) view(p Product) ProductView {
	return ProductView{Product: p, Status: h.evaluator.Status(p)}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.store.Filter(r.URL.Query().Get("q"), r.URL.Query().Get("category"))
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, h.view(p))
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"code": "bad_request", "message": "product id must be an integer"})
		return
	}
	p, ok := h.store.Product(id)
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"code": "unknown_product", "message": "product not found"})
		return
	}
	respond(w, http.StatusOK, h.view(p))
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.store.Config()
	respond(w, http.StatusOK, configView{CloseDate: cfg.CloseDate, DeliveryNotice: cfg.DeliveryNotice})
}

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	zones := h.store.Zones()
	out := make([]zoneView, 0, len(zones))
	for i, z := range zones {
		out = append(out, zoneView{Index: i, ShippingZone: z})
	}
	respond(w, http.StatusOK, out)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
