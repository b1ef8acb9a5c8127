package order

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/georgemunganga/po-storefront/internal/modules/cart"
)

const (
	deepLinkBase = "https://wa.me/"
	divider      = "--------------------------------"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// SanitizeName strips every character that is not a word character or
// whitespace so the name cannot break the message layout.
func SanitizeName(name string) string {
	return nonWord.ReplaceAllString(name, "")
}

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as "Rp 30.000".
func FormatRupiah(amount int) string {
	return rupiah.Sprintf("Rp %d", amount)
}

// ComposeMessage builds the order summary sent to the admin.
func ComposeMessage(name, address string, lines []cart.Line, totals cart.Totals) string {
	var b strings.Builder
	b.WriteString("Halo Admin Healthy Secret, mau order PO:\n\n")
	b.WriteString("👤 Nama: " + name + "\n")
	b.WriteString("📍 Alamat: " + address + "\n")
	b.WriteString("🚚 Pengiriman: " + totals.ZoneName + "\n\n")
	b.WriteString("*LIST PESANAN:*\n")
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("- %s (%dx) : ", l.Name, l.Quantity) + FormatRupiah(l.Total()) + "\n")
	}
	b.WriteString(divider + "\n")
	b.WriteString("Subtotal Menu: " + FormatRupiah(totals.Subtotal) + "\n")
	if totals.ShippingCollectedSeparately {
		b.WriteString("Ongkir: *Bayar ke Kurir/Driver*\n")
		b.WriteString("*TOTAL TRANSFER: " + FormatRupiah(totals.GrandTotal) + "* (Hanya Harga Menu)\n\n")
	} else {
		b.WriteString("Ongkir: " + FormatRupiah(totals.Shipping) + "\n")
		b.WriteString("*TOTAL TRANSFER: " + FormatRupiah(totals.GrandTotal) + "*\n\n")
	}
	b.WriteString("_Note: Stok akan divalidasi ulang oleh Admin._\n")
	b.WriteString("Mohon info rekening ya. Terima kasih!")
	return b.String()
}

// DeepLink addresses msg to the admin contact. Spaces encode as %20 and
// newlines as %0A.
func DeepLink(admin, msg string) string {
	return deepLinkBase + url.PathEscape(admin) + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
