package order

import (
	"errors"

	"github.com/georgemunganga/po-storefront/internal/modules/cart"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingCustomerField = errors.New("customer name and address are required")
	ErrNoShippingSelected   = errors.New("a shipping method must be selected")
)

// Request is the customer input collected at checkout.
type Request struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	ZoneIndex int    `json:"zone_index"`
}

// Handoff is the composed order summary and the deep link that carries it to
// the admin. The order itself is never stored.
type Handoff struct {
	Link    string      `json:"link"`
	Message string      `json:"message"`
	Lines   []cart.Line `json:"lines"`
	Totals  cart.Totals `json:"totals"`
}
