package catalog

import "time"

// Product is one orderable menu item. A catalog generation is replaced
// wholesale; products are never edited in place.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Image       string `json:"img"`
	Description string `json:"desc"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	// Malformed marks a row whose price or stock was not numeric at the
	// source. Such products render with zero values and are never orderable.
	Malformed bool `json:"malformed,omitempty"`
}

// ShippingZone is a delivery option. Index 0 of a zone table is the
// "not selected" placeholder.
type ShippingZone struct {
	Name           string `json:"name"`
	Price          int    `json:"price"`
	CashOnDelivery bool   `json:"cash_on_delivery"`
}

// Config is the operational PO configuration.
type Config struct {
	CloseDate      time.Time `json:"close_date"`
	DeliveryNotice string    `json:"delivery_notice"`
	AdminContact   string    `json:"-"`
}

// ConfigPatch carries the fields a remote source supplied. Zero values mean
// "not supplied" and leave the current value in place.
type ConfigPatch struct {
	CloseDate      time.Time
	DeliveryNotice string
	AdminContact   string
}

func (p ConfigPatch) IsEmpty() bool {
	return p.CloseDate.IsZero() && p.DeliveryNotice == "" && p.AdminContact == ""
}
