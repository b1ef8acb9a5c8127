package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/po-storefront/internal/modules/auth"
)

func TestCheckoutHandler(t *testing.T) {
	engine, _, svc := newCheckout(t)
	_, err := engine.AddToCart(context.Background(), "s1", 1, 1)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSessionID(r.Context(), "s1")))
		})
	})
	NewHandler(svc).RegisterRoutes(r)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"name":"Budi","address":"Jl. Mawar 1","zone_index":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_shipping_selected")

	rec = post(`{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(`{"name":"Budi","address":"Jl. Mawar 1","zone_index":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var h Handoff
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&h))
	assert.True(t, strings.HasPrefix(h.Link, "https://wa.me/62818895488?text="))

	rec = post(`{"name":"Budi","address":"Jl. Mawar 1","zone_index":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_cart")
}
