package window

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	evaluator *Evaluator
	source    ConfigSource
}

func NewHandler(evaluator *Evaluator, source ConfigSource) *Handler {
	return &Handler{evaluator: evaluator, source: source}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/window", h.getWindow)
}

type windowResponse struct {
	State     State     `json:"state"`
	CloseDate time.Time `json:"close_date"`
	Remaining Remaining `json:"remaining"`
}

func (h *Handler) getWindow(w http.ResponseWriter, r *http.Request) {
	now := h.evaluator.Now()
	closeDate := h.source.Config().CloseDate
	state := StateOpen
	if !IsOpen(now, closeDate) {
		state = StateClosed
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(windowResponse{
		State:     state,
		CloseDate: closeDate,
		Remaining: RemainingUntil(now, closeDate),
	})
}
