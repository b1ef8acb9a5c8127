package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/po-storefront/internal/modules/auth"
)

// Handler exposes the session cart. Routes must sit behind auth.RequireSession.
type Handler struct{ engine *Engine }

func NewHandler(engine *Engine) *Handler { return &Handler{engine: engine} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.getCart)                    // GET    /api/v1/cart?zone=1
		r.Post("/items", h.addItem)              // POST   /api/v1/cart/items
		r.Delete("/items/{index}", h.removeLine) // DELETE /api/v1/cart/items/{index}
	})
}

type addItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type cartResponse struct {
	Lines  []LineView `json:"lines"`
	Totals Totals     `json:"totals"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := auth.SessionID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, errorBody("unauthorized", "session required"))
		return
	}
	zone := 0
	if v := r.URL.Query().Get("zone"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respond(w, http.StatusBadRequest, errorBody("bad_request", "zone must be an integer"))
			return
		}
		zone = n
	}
	h.writeCart(w, r, sid, zone, http.StatusOK)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := auth.SessionID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, errorBody("unauthorized", "session required"))
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
		return
	}
	line, err := h.engine.AddToCart(r.Context(), sid, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, line)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	sid, ok := auth.SessionID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, errorBody("unauthorized", "session required"))
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond(w, http.StatusBadRequest, errorBody("bad_request", "index must be an integer"))
		return
	}
	h.engine.RemoveLine(r.Context(), sid, index)
	h.writeCart(w, r, sid, 0, http.StatusOK)
}

func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, sid string, zone, status int) {
	lines, totals := h.engine.View(r.Context(), sid, zone)
	respond(w, status, cartResponse{Lines: lines, Totals: totals})
}

func writeError(w http.ResponseWriter, err error) {
	var stock *InsufficientStockError
	switch {
	case errors.As(err, &stock):
		respond(w, http.StatusConflict, map[string]interface{}{
			"code":    "insufficient_stock",
			"message": err.Error(),
			"stock":   stock.Stock,
			"in_cart": stock.InCart,
		})
	case errors.Is(err, ErrInvalidQuantity):
		respond(w, http.StatusUnprocessableEntity, errorBody("invalid_quantity", err.Error()))
	case errors.Is(err, ErrUnknownProduct):
		respond(w, http.StatusNotFound, errorBody("unknown_product", err.Error()))
	case errors.Is(err, ErrOrderClosed):
		respond(w, http.StatusConflict, errorBody("order_closed", err.Error()))
	default:
		respond(w, http.StatusInternalServerError, errorBody("internal_error", err.Error()))
	}
}

func errorBody(code, message string) map[string]string {
	return map[string]string{"code": code, "message": message}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
