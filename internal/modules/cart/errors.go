package cart

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUnknownProduct  = errors.New("product not found")
	ErrOrderClosed     = errors.New("pre-order window is closed")
)

// InsufficientStockError rejects an add that would push the line past the
// product's stock.
type InsufficientStockError struct {
	ProductID int
	Requested int
	InCart    int
	Stock     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d with %d in cart, %d left", e.ProductID, e.Requested, e.InCart, e.Stock)
}
