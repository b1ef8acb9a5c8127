package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(DefaultProducts(), DefaultZones(), DefaultConfig(time.UTC))
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig(time.UTC)
	assert.Equal(t, time.Date(2025, 12, 30, 23, 59, 0, 0, time.UTC), cfg.CloseDate)
	assert.Equal(t, "62818895488", cfg.AdminContact)

	zones := DefaultZones()
	require.Len(t, zones, 4)
	assert.False(t, zones[0].CashOnDelivery)
	assert.True(t, zones[2].CashOnDelivery)
}

func TestReplaceCatalogIsWholesale(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, uint64(0), s.Generation())

	s.ReplaceCatalog([]Product{{ID: 9, Name: "Bakso", Price: 25000, Stock: 3}})

	assert.Equal(t, uint64(1), s.Generation())
	require.Len(t, s.Catalog(), 1)
	_, ok := s.Product(1)
	assert.False(t, ok, "products from the previous generation must be gone")
	p, ok := s.Product(9)
	require.True(t, ok)
	assert.Equal(t, "Bakso", p.Name)
}

func TestReplaceCatalogNotifiesListeners(t *testing.T) {
	s := newTestStore()
	var seen []uint64
	s.OnReplace(func(gen uint64) {
		// Listeners run after the lock is released.
		_, ok := s.Product(9)
		assert.True(t, ok)
		seen = append(seen, gen)
	})

	s.ReplaceCatalog([]Product{{ID: 9, Name: "Bakso", Price: 25000, Stock: 3}})
	s.ReplaceCatalog([]Product{{ID: 9, Name: "Bakso", Price: 26000, Stock: 3}})

	assert.Equal(t, []uint64{1, 2}, seen)
}

func TestCatalogReturnsCopy(t *testing.T) {
	s := newTestStore()
	got := s.Catalog()
	got[0].Stock = 0

	p, _ := s.Product(got[0].ID)
	assert.Equal(t, 50, p.Stock)
}

func TestMergeConfigPartial(t *testing.T) {
	s := newTestStore()
	before := s.Config()

	s.MergeConfig(ConfigPatch{AdminContact: "6281200000000"})

	after := s.Config()
	assert.Equal(t, "6281200000000", after.AdminContact)
	assert.Equal(t, before.CloseDate, after.CloseDate)
	assert.Equal(t, before.DeliveryNotice, after.DeliveryNotice)
}

func TestMergeConfigAllFields(t *testing.T) {
	s := newTestStore()
	closeAt := time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)

	s.MergeConfig(ConfigPatch{CloseDate: closeAt, DeliveryNotice: "Kirim Sabtu", AdminContact: "628"})

	cfg := s.Config()
	assert.Equal(t, closeAt, cfg.CloseDate)
	assert.Equal(t, "Kirim Sabtu", cfg.DeliveryNotice)
	assert.Equal(t, "628", cfg.AdminContact)
	assert.True(t, ConfigPatch{}.IsEmpty())
}

func TestFilter(t *testing.T) {
	s := newTestStore()

	tests := []struct {
		name     string
		keyword  string
		category string
		want     []int
	}{
		{"everything", "", "all", []int{1, 2, 5}},
		{"empty category", "", "", []int{1, 2, 5}},
		{"keyword case-insensitive", "NASI", "all", []int{1, 2}},
		{"category only", "", "snack", []int{5}},
		{"keyword and category", "soto", "snack", nil},
		{"no match", "rendang", "all", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int
			for _, p := range s.Filter(tt.keyword, tt.category) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDuplicateIDsResolveToFirstRow(t *testing.T) {
	s := NewStore([]Product{{ID: 1, Name: "first"}, {ID: 1, Name: "second"}}, DefaultZones(), Config{})
	p, ok := s.Product(1)
	require.True(t, ok)
	assert.Equal(t, "first", p.Name)
	assert.Len(t, s.Catalog(), 2)
}
