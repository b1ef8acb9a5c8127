package cart

import (
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

func newCartRouter(t *testing.T, open bool) *chi.Mux {
	t.Helper()
	e, err := NewEngine(Options{Products: newTestCatalog(), Window: fixedWindow(open)})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSessionID(r.Context(), "session-1")))
		})
	})
	NewHandler(e).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCartHandlerFlow(t *testing.T) {
	r := newCartRouter(t, true)

	rec := do(r, http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodPost, "/api/v1/cart/items", `{"product_id":5,"quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodGet, "/api/v1/cart/?zone=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got cartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 60000, got.Lines[0].LineTotal)
	assert.Equal(t, 78000, got.Totals.Subtotal)
	assert.Equal(t, "Ambil Sendiri (Pickup)", got.Totals.ZoneName)

	rec = do(r, http.MethodDelete, "/api/v1/cart/items/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = cartResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 5, got.Lines[0].ProductID)
}

func TestCartHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		open   bool
		body   string
		status int
		code   string
	}{
		{"bad json", true, `{`, http.StatusBadRequest, "bad_request"},
		{"invalid quantity", true, `{"product_id":1,"quantity":0}`, http.StatusUnprocessableEntity, "invalid_quantity"},
		{"unknown product", true, `{"product_id":99,"quantity":1}`, http.StatusNotFound, "unknown_product"},
		{"insufficient stock", true, `{"product_id":2,"quantity":21}`, http.StatusConflict, "insufficient_stock"},
		{"order closed", false, `{"product_id":1,"quantity":1}`, http.StatusConflict, "order_closed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newCartRouter(t, tc.open), http.MethodPost, "/api/v1/cart/items", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestCartHandlerBadParams(t *testing.T) {
	r := newCartRouter(t, true)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/cart/?zone=x", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/api/v1/cart/items/x", "").Code)
}

func TestCartHandlerRequiresSession(t *testing.T) {
	e, err := NewEngine(Options{Products: newTestCatalog(), Window: fixedWindow(true)})
	require.NoError(t, err)
	r := chi.NewRouter()
	NewHandler(e).RegisterRoutes(r)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/cart/", "").Code)
}
