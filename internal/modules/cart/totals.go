package cart

import "github.com/georgemunganga/po-storefront/internal/modules/catalog"

// ComputeTotals prices lines against zones[zoneIndex]. An out-of-range index
// prices as the sentinel zone at index 0.
func ComputeTotals(lines []Line, zones []catalog.ShippingZone, zoneIndex int) Totals {
	t := Totals{ZoneIndex: zoneIndex}
	for _, l := range lines {
		t.Subtotal += l.Total()
		t.ItemCount += l.Quantity
	}

	var zone catalog.ShippingZone
	switch {
	case zoneIndex >= 0 && zoneIndex < len(zones):
		zone = zones[zoneIndex]
	case len(zones) > 0:
		zone = zones[0]
		t.ZoneIndex = 0
	default:
		t.ZoneIndex = 0
	}

	t.ZoneName = zone.Name
	t.Shipping = zone.Price
	if zone.CashOnDelivery {
		t.ShippingCollectedSeparately = true
		t.GrandTotal = t.Subtotal
	} else {
		t.GrandTotal = t.Subtotal + t.Shipping
	}
	return t
}
