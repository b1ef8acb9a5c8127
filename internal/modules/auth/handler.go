package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ctxKey struct{}

// WithSessionID stores a verified session id on ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// SessionID returns the verified session id placed by RequireSession.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Handler exposes session issuance.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/session", h.issue)
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.IssueSession(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"code": "internal_error", "message": err.Error()})
		return
	}
	respond(w, http.StatusCreated, s)
}

// RequireSession rejects requests without a valid bearer session token.
func RequireSession(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if header == "" || token == "" || token == header {
				respond(w, http.StatusUnauthorized, map[string]string{"code": "unauthorized", "message": "session token required"})
				return
			}
			id, err := service.Verify(token)
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"code": "unauthorized", "message": err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
