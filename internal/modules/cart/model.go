package cart

// Line is one cart entry. UnitPrice and Name are snapshots taken when the
// product was first added. JSON names match the storefront's stored format.
type Line struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"price"`
	Quantity  int    `json:"qty"`
}

// Total is the line's contribution to the subtotal.
func (l Line) Total() int {
	return l.UnitPrice * l.Quantity
}

// LineView is a line as presented to a consumer, with reconciliation flags
// filled in when the flag policy is active.
type LineView struct {
	Line
	LineTotal    int  `json:"line_total"`
	Orphaned     bool `json:"orphaned,omitempty"`
	PriceChanged bool `json:"price_changed,omitempty"`
	CurrentPrice int  `json:"current_price,omitempty"`
}

// Totals is the priced summary of a cart for a chosen shipping zone.
type Totals struct {
	Subtotal   int    `json:"subtotal"`
	Shipping   int    `json:"shipping"`
	GrandTotal int    `json:"grand_total"`
	ZoneIndex  int    `json:"zone_index"`
	ZoneName   string `json:"zone_name"`
	// ShippingCollectedSeparately is set for cash-on-delivery zones: the
	// courier collects the fee, so GrandTotal covers menu items only.
	ShippingCollectedSeparately bool `json:"shipping_collected_separately"`
	ItemCount                   int  `json:"item_count"`
}
