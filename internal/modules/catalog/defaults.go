package catalog

import "time"

// Built-in data served until (and unless) the remote sheet load succeeds.

const defaultCloseDate = "2025-12-30T23:59:00"

// DefaultConfig returns the fallback PO configuration with the close date
// interpreted in loc.
func DefaultConfig(loc *time.Location) Config {
	closeDate, _ := time.ParseInLocation("2006-01-02T15:04:05", defaultCloseDate, loc)
	return Config{
		CloseDate:      closeDate,
		DeliveryNotice: "Menunggu Update Admin...",
		AdminContact:   "62818895488",
	}
}

func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Nasi Soto", Price: 30000, Image: "Soto.jpeg", Description: "Ayam suwir vegan, kuah kuning rempah.", Stock: 50, Category: "berat"},
		{ID: 2, Name: "Nasi Liwet", Price: 30000, Image: "Liwet.jpeg", Description: "Nasi gurih santan, tempe orek, sambal.", Stock: 20, Category: "berat"},
		{ID: 5, Name: "Onigiri", Price: 18000, Image: "Onigiri.jpeg", Description: "Nasi kepal ala Jepang isi tuna vegan.", Stock: 30, Category: "snack"},
	}
}

// DefaultZones is the static shipping table. It is never reloaded.
func DefaultZones() []ShippingZone {
	return []ShippingZone{
		{Name: "-- Pilih Metode Kirim --", Price: 0},
		{Name: "Ambil Sendiri (Pickup)", Price: 0},
		{Name: "Gojek/Grab (Ongkir Bayar di Tempat)", Price: 0, CashOnDelivery: true},
		{Name: "Luar Kota (JNE - Cek Admin)", Price: 0},
	}
}
