package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/po-storefront/internal/modules/auth"
)

// Handler exposes the checkout endpoint. Routes must sit behind auth.RequireSession.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/checkout", h.checkout) // POST /api/v1/checkout
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := auth.SessionID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"code": "unauthorized", "message": "session required"})
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"code": "bad_request", "message": err.Error()})
		return
	}
	handoff, err := h.service.Checkout(r.Context(), sid, req)
	if err != nil {
		status, code := http.StatusBadGateway, "handoff_failed"
		switch {
		case errors.Is(err, ErrEmptyCart):
			status, code = http.StatusConflict, "empty_cart"
		case errors.Is(err, ErrMissingCustomerField):
			status, code = http.StatusUnprocessableEntity, "missing_customer_field"
		case errors.Is(err, ErrNoShippingSelected):
			status, code = http.StatusUnprocessableEntity, "no_shipping_selected"
		}
		respond(w, status, map[string]string{"code": code, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, handoff)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
