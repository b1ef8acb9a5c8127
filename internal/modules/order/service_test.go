package order

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/po-storefront/internal/modules/cart"
	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
)

type openWindow struct{}

func (openWindow) Open() bool { return true }

type recordingOpener struct {
	links  []string
	err    error
	onOpen func()
}

func (o *recordingOpener) Open(ctx context.Context, link string) error {
	if o.onOpen != nil {
		o.onOpen()
	}
	if o.err != nil {
		return o.err
	}
	o.links = append(o.links, link)
	return nil
}

func newCheckout(t *testing.T) (*cart.Engine, *recordingOpener, Service) {
	t.Helper()
	store := catalog.NewStore(catalog.DefaultProducts(), catalog.DefaultZones(), catalog.DefaultConfig(time.UTC))
	engine, err := cart.NewEngine(cart.Options{Products: store, Window: openWindow{}})
	require.NoError(t, err)
	opener := &recordingOpener{}
	return engine, opener, NewService(engine, store, opener, nil, nil)
}

func TestCheckoutValidationOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart wins", func(t *testing.T) {
		_, opener, svc := newCheckout(t)
		_, err := svc.Checkout(ctx, "s1", Request{})
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Empty(t, opener.links)
	})

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"missing name", Request{Name: "  ", Address: "Jl. Mawar 1", ZoneIndex: 1}, ErrMissingCustomerField},
		{"name is only symbols", Request{Name: "!!!", Address: "Jl. Mawar 1", ZoneIndex: 1}, ErrMissingCustomerField},
		{"missing address", Request{Name: "Budi", Address: "\t", ZoneIndex: 1}, ErrMissingCustomerField},
		{"fields checked before zone", Request{Name: "", Address: "", ZoneIndex: 0}, ErrMissingCustomerField},
		{"sentinel zone", Request{Name: "Budi", Address: "Jl. Mawar 1", ZoneIndex: 0}, ErrNoShippingSelected},
		{"zone out of range", Request{Name: "Budi", Address: "Jl. Mawar 1", ZoneIndex: 9}, ErrNoShippingSelected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine, opener, svc := newCheckout(t)
			_, err := engine.AddToCart(ctx, "s1", 1, 1)
			require.NoError(t, err)

			h, err := svc.Checkout(ctx, "s1", tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, h)
			assert.Empty(t, opener.links)
			assert.Len(t, engine.Lines(ctx, "s1"), 1)
		})
	}
}

func TestCheckoutHandsOffAndClears(t *testing.T) {
	ctx := context.Background()
	engine, opener, svc := newCheckout(t)
	_, err := engine.AddToCart(ctx, "s1", 1, 2)
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, "s1", 5, 1)
	require.NoError(t, err)

	h, err := svc.Checkout(ctx, "s1", Request{Name: "Budi <Santoso>", Address: "Jl. Mawar 1, Bandung", ZoneIndex: 1})
	require.NoError(t, err)
	require.Len(t, opener.links, 1)
	assert.Equal(t, h.Link, opener.links[0])
	assert.Empty(t, engine.Lines(ctx, "s1"))

	assert.Equal(t, 78000, h.Totals.GrandTotal)
	assert.Len(t, h.Lines, 2)
	assert.Contains(t, h.Message, "👤 Nama: Budi Santoso\n")
	assert.Contains(t, h.Message, "📍 Alamat: Jl. Mawar 1, Bandung\n")
	assert.Contains(t, h.Message, "🚚 Pengiriman: Ambil Sendiri (Pickup)\n")
	assert.Contains(t, h.Message, "- Nasi Soto (2x) : Rp 60.000\n")
	assert.Contains(t, h.Message, "- Onigiri (1x) : Rp 18.000\n")
	assert.Contains(t, h.Message, "Subtotal Menu: Rp 78.000\n")
	assert.Contains(t, h.Message, "Ongkir: Rp 0\n")
	assert.Contains(t, h.Message, "*TOTAL TRANSFER: Rp 78.000*\n")
	assert.True(t, strings.HasSuffix(h.Message, "Mohon info rekening ya. Terima kasih!"))

	u, err := url.Parse(h.Link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/62818895488", u.Path)
	assert.Equal(t, h.Message, u.Query().Get("text"))
	assert.Contains(t, h.Link, "%0A")
	assert.NotContains(t, h.Link, "+")
}

func TestCheckoutCashOnDelivery(t *testing.T) {
	ctx := context.Background()
	engine, _, svc := newCheckout(t)
	_, err := engine.AddToCart(ctx, "s1", 2, 1)
	require.NoError(t, err)

	h, err := svc.Checkout(ctx, "s1", Request{Name: "Sari", Address: "Jl. Melati 2", ZoneIndex: 2})
	require.NoError(t, err)
	assert.Contains(t, h.Message, "Ongkir: *Bayar ke Kurir/Driver*\n")
	assert.Contains(t, h.Message, "*TOTAL TRANSFER: Rp 30.000* (Hanya Harga Menu)\n")
}

func TestCheckoutOpenFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	engine, opener, svc := newCheckout(t)
	opener.err = errors.New("no handler")
	_, err := engine.AddToCart(ctx, "s1", 1, 1)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, "s1", Request{Name: "Budi", Address: "Jl. Mawar 1", ZoneIndex: 1})
	assert.Error(t, err)
	assert.Len(t, engine.Lines(ctx, "s1"), 1)
}

func TestAddDuringHandoffIsKept(t *testing.T) {
	ctx := context.Background()
	engine, opener, svc := newCheckout(t)
	_, err := engine.AddToCart(ctx, "s1", 1, 1)
	require.NoError(t, err)

	added := make(chan error, 1)
	opener.onOpen = func() {
		go func() {
			_, err := engine.AddToCart(ctx, "s1", 5, 3)
			added <- err
		}()
	}

	h, err := svc.Checkout(ctx, "s1", Request{Name: "Budi", Address: "Jl. Mawar 1", ZoneIndex: 1})
	require.NoError(t, err)
	require.NoError(t, <-added)

	require.Len(t, h.Lines, 1)
	assert.Equal(t, 1, h.Lines[0].ProductID)
	assert.NotContains(t, h.Message, "Onigiri")
	assert.Equal(t, []cart.Line{{ProductID: 5, Name: "Onigiri", UnitPrice: 18000, Quantity: 3}}, engine.Lines(ctx, "s1"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Budi Santoso", SanitizeName("Budi, Santoso."))
	assert.Equal(t, "ab_c 1", SanitizeName("a#b_c 1!"))
	assert.Equal(t, "", SanitizeName("%&*"))
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "Rp 18.000", FormatRupiah(18000))
	assert.Equal(t, "Rp 1.250.000", FormatRupiah(1250000))
}

func TestDeepLinkEncoding(t *testing.T) {
	link := DeepLink("62811", "a b\nc&d")
	assert.Equal(t, "https://wa.me/62811?text=a%20b%0Ac%26d", link)
}
