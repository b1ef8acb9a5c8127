package order

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/georgemunganga/po-storefront/internal/modules/cart"
	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
	"github.com/georgemunganga/po-storefront/internal/platform/metrics"
)

// Service defines the checkout hand-off.
type Service interface {
	// Checkout validates the customer input, composes the order summary,
	// opens the deep link and clears the session's cart in one step.
	Checkout(ctx context.Context, sessionID string, req Request) (*Handoff, error)
}

// Cart is the slice of the cart engine checkout drains. Drain clears the
// cart only when the callback succeeds, and no add can interleave.
type Cart interface {
	Drain(ctx context.Context, sessionID string, fn func(lines []cart.Line) error) error
}

// Catalog supplies the shipping table and the admin contact.
type Catalog interface {
	Zones() []catalog.ShippingZone
	Config() catalog.Config
}

// Opener performs the hand-off to the external messaging app.
type Opener interface {
	Open(ctx context.Context, link string) error
}

// LogOpener records the link. The client opens it from the response.
type LogOpener struct{ Logger *zap.Logger }

func (o LogOpener) Open(ctx context.Context, link string) error {
	if o.Logger != nil {
		o.Logger.Info("Checkout hand-off", zap.Int("link_length", len(link)))
	}
	return nil
}

type service struct {
	cart    Cart
	catalog Catalog
	opener  Opener
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a new checkout service.
func NewService(c Cart, cat Catalog, opener Opener, logger *zap.Logger, m *metrics.Metrics) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opener == nil {
		opener = LogOpener{Logger: logger}
	}
	return &service{cart: c, catalog: cat, opener: opener, logger: logger, metrics: m}
}

func (s *service) Checkout(ctx context.Context, sessionID string, req Request) (*Handoff, error) {
	var (
		handoff *Handoff
		result  string
	)
	err := s.cart.Drain(ctx, sessionID, func(lines []cart.Line) error {
		var err error
		handoff, result, err = s.handoff(ctx, lines, req)
		return err
	})
	s.metrics.Checkout(result)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order handed off",
		zap.String("session_id", sessionID),
		zap.Int("lines", len(handoff.Lines)),
		zap.Int("grand_total", handoff.Totals.GrandTotal),
		zap.String("zone", handoff.Totals.ZoneName))
	return handoff, nil
}

// handoff validates and opens the link for lines. The returned result labels
// the outcome for metrics.
func (s *service) handoff(ctx context.Context, lines []cart.Line, req Request) (*Handoff, string, error) {
	if len(lines) == 0 {
		return nil, "empty_cart", ErrEmptyCart
	}

	name := strings.TrimSpace(SanitizeName(req.Name))
	address := strings.TrimSpace(req.Address)
	if name == "" || address == "" {
		return nil, "missing_field", ErrMissingCustomerField
	}

	zones := s.catalog.Zones()
	if req.ZoneIndex <= 0 || req.ZoneIndex >= len(zones) {
		return nil, "no_shipping", ErrNoShippingSelected
	}

	totals := cart.ComputeTotals(lines, zones, req.ZoneIndex)
	msg := ComposeMessage(name, address, lines, totals)
	link := DeepLink(s.catalog.Config().AdminContact, msg)

	if err := s.opener.Open(ctx, link); err != nil {
		return nil, "open_failed", fmt.Errorf("open hand-off link: %w", err)
	}
	// No confirmation channel exists, so the cart is cleared as soon as the
	// hand-off starts.
	return &Handoff{Link: link, Message: msg, Lines: lines, Totals: totals}, "ok", nil
}
