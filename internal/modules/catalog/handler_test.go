package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockEvaluator struct{}

func (stockEvaluator) Status(p Product) string {
	if p.Stock <= 0 {
		return "SOLD_OUT"
	}
	return "OPEN"
}

func newTestRouter() *chi.Mux {
	s := newTestStore()
	s.ReplaceCatalog(append(DefaultProducts(), Product{ID: 7, Name: "Es Teh", Price: 5000, Stock: 0, Category: "minum"}))
	r := chi.NewRouter()
	NewHandler(s, stockEvaluator{}).RegisterRoutes(r)
	return r
}

func TestListProductsWithStatus(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?category=minum", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []ProductView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ID)
	assert.Equal(t, "SOLD_OUT", got[0].Status)
}

func TestGetProduct(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got ProductView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Onigiri", got.Name)
	assert.Equal(t, "OPEN", got.Status)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigHidesAdminContact(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Menunggu Update Admin")
	assert.NotContains(t, rec.Body.String(), "62818895488")
}

func TestListZones(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/shipping-zones", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		Index          int    `json:"index"`
		Name           string `json:"name"`
		CashOnDelivery bool   `json:"cash_on_delivery"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 4)
	assert.Equal(t, 2, got[2].Index)
	assert.True(t, got[2].CashOnDelivery)
}
