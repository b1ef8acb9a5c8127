package cart

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
	"github.com/georgemunganga/po-storefront/internal/platform/metrics"
)

// Catalog is the read side of the catalog store the engine prices against.
type Catalog interface {
	ProductLookup
	Zones() []catalog.ShippingZone
	Generation() uint64
}

// WindowState reports whether the pre-order window accepts orders.
type WindowState interface {
	Open() bool
}

// Engine owns every session's cart. Mutations are applied in memory first;
// the snapshot write that follows is best-effort.
type Engine struct {
	storage  Storage
	products Catalog
	window   WindowState
	policy   Policy
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mu    sync.Mutex
	carts *lru.Cache
	// pinned holds carts evicted from the cache while a request still uses
	// them, so a session never has two live copies.
	pinned map[string]*sessionCart
}

type Options struct {
	Storage  Storage
	Products Catalog
	Window   WindowState
	Policy   Policy
	// CacheSize bounds the number of carts held in memory. Evicted carts
	// are rehydrated from Storage on next access.
	CacheSize int
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

type sessionCart struct {
	mu         sync.Mutex
	loaded     bool
	lines      []Line
	checked    bool   // lines have been pruned at least once
	reconciled uint64 // catalog generation of the last prune

	// guarded by Engine.mu
	refs    int
	evicted bool
}

func NewEngine(opts Options) (*Engine, error) {
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Policy == "" {
		opts.Policy = PolicyNone
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 10000
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	e := &Engine{
		storage:    opts.Storage,
		products:   opts.Products,
		window:     opts.Window,
		policy:     opts.Policy,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		pinned:     make(map[string]*sessionCart),
	}
	carts, err := lru.NewWithEvict(opts.CacheSize, e.onEvict)
	if err != nil {
		return nil, err
	}
	e.carts = carts
	return e, nil
}

// onEvict runs inside carts.Add, with e.mu held.
func (e *Engine) onEvict(key, value interface{}) {
	sc := value.(*sessionCart)
	if sc.refs > 0 {
		sc.evicted = true
		e.pinned[key.(string)] = sc
	}
}

// acquire returns the session's cart locked and hydrated. Every acquire must
// be paired with release.
func (e *Engine) acquire(ctx context.Context, id string) *sessionCart {
	e.mu.Lock()
	var sc *sessionCart
	if v, ok := e.carts.Get(id); ok {
		sc = v.(*sessionCart)
	} else if p, ok := e.pinned[id]; ok {
		sc = p
		sc.evicted = false
		delete(e.pinned, id)
		e.carts.Add(id, sc)
	} else {
		sc = &sessionCart{}
		e.carts.Add(id, sc)
	}
	sc.refs++
	e.mu.Unlock()

	sc.mu.Lock()
	e.hydrate(ctx, id, sc)
	return sc
}

func (e *Engine) release(id string, sc *sessionCart) {
	sc.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	sc.refs--
	if sc.refs == 0 && sc.evicted && e.pinned[id] == sc {
		delete(e.pinned, id)
	}
}

// hydrate reads the stored snapshot once per cached cart. Missing, corrupt
// or unreadable snapshots all start an empty cart. Caller holds sc.mu.
func (e *Engine) hydrate(ctx context.Context, id string, sc *sessionCart) {
	if sc.loaded {
		return
	}
	sc.loaded = true
	payload, err := e.storage.Load(ctx, id)
	if err != nil {
		e.logger.Warn("Cart snapshot unreadable, starting empty", zap.String("session_id", id), zap.Error(err))
		e.metrics.StorageFailure("load")
		return
	}
	lines, err := decodeLines(payload)
	if err != nil {
		e.logger.Warn("Cart snapshot corrupt, starting empty", zap.String("session_id", id), zap.Error(err))
		return
	}
	sc.lines = lines
}

// persist writes the snapshot. Failures are logged and counted, never returned.
func (e *Engine) persist(ctx context.Context, id string, lines []Line) {
	payload, err := encodeLines(lines)
	if err == nil {
		err = e.storage.Save(ctx, id, payload)
	}
	if err != nil {
		e.logger.Error("Cart snapshot write failed", zap.String("session_id", id), zap.Error(err))
		e.metrics.StorageFailure("save")
	}
}

// reconcile prunes the lines against the current catalog generation when the
// prune policy is active. Caller holds sc.mu.
func (e *Engine) reconcile(ctx context.Context, id string, sc *sessionCart) {
	if e.policy != PolicyPrune {
		return
	}
	gen := e.products.Generation()
	if sc.checked && sc.reconciled == gen {
		return
	}
	sc.checked, sc.reconciled = true, gen
	lines, changed := prune(sc.lines, e.products)
	if !changed {
		return
	}
	e.logger.Info("Pruned stale cart lines",
		zap.String("session_id", id),
		zap.Uint64("generation", gen),
		zap.Int("before", len(sc.lines)),
		zap.Int("after", len(lines)))
	sc.lines = lines
	e.persist(ctx, id, sc.lines)
}

// CatalogReplaced revalidates carts after a catalog reload. Cached carts are
// pruned now; evicted ones are pruned when next loaded.
func (e *Engine) CatalogReplaced(generation uint64) {
	e.logger.Info("Catalog replaced", zap.Uint64("generation", generation), zap.String("policy", string(e.policy)))
	if e.policy != PolicyPrune {
		return
	}

	e.mu.Lock()
	keys := e.carts.Keys()
	e.mu.Unlock()

	ctx := context.Background()
	for _, k := range keys {
		id := k.(string)
		sc := e.acquire(ctx, id)
		e.reconcile(ctx, id, sc)
		e.release(id, sc)
	}
}

// AddToCart adds qty of a product, merging into an existing line.
func (e *Engine) AddToCart(ctx context.Context, sessionID string, productID, qty int) (Line, error) {
	if qty < 1 {
		e.metrics.CartMutation("add", "invalid_quantity")
		return Line{}, ErrInvalidQuantity
	}
	p, ok := e.products.Product(productID)
	if !ok {
		e.metrics.CartMutation("add", "unknown_product")
		return Line{}, ErrUnknownProduct
	}
	if e.window != nil && !e.window.Open() {
		e.metrics.CartMutation("add", "closed")
		return Line{}, ErrOrderClosed
	}

	sc := e.acquire(ctx, sessionID)
	defer e.release(sessionID, sc)
	e.reconcile(ctx, sessionID, sc)

	idx := -1
	inCart := 0
	for i, l := range sc.lines {
		if l.ProductID == productID {
			idx, inCart = i, l.Quantity
			break
		}
	}

	stock := p.Stock
	if p.Malformed {
		stock = 0
	}
	if inCart+qty > stock {
		e.metrics.CartMutation("add", "insufficient_stock")
		return Line{}, &InsufficientStockError{ProductID: productID, Requested: qty, InCart: inCart, Stock: stock}
	}

	lines := append([]Line(nil), sc.lines...)
	if idx >= 0 {
		lines[idx].Quantity += qty
	} else {
		idx = len(lines)
		lines = append(lines, Line{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Quantity: qty})
	}
	sc.lines = lines
	e.persist(ctx, sessionID, sc.lines)

	e.metrics.CartMutation("add", "ok")
	e.logger.Debug("Added to cart",
		zap.String("session_id", sessionID),
		zap.Int("product_id", productID),
		zap.Int("quantity", lines[idx].Quantity))
	return lines[idx], nil
}

// RemoveLine removes the line at index. Indexes out of range are ignored.
func (e *Engine) RemoveLine(ctx context.Context, sessionID string, index int) []Line {
	sc := e.acquire(ctx, sessionID)
	defer e.release(sessionID, sc)

	if index >= 0 && index < len(sc.lines) {
		lines := make([]Line, 0, len(sc.lines)-1)
		lines = append(lines, sc.lines[:index]...)
		lines = append(lines, sc.lines[index+1:]...)
		sc.lines = lines
		e.metrics.CartMutation("remove", "ok")
	} else {
		e.metrics.CartMutation("remove", "noop")
	}
	e.persist(ctx, sessionID, sc.lines)
	return append([]Line(nil), sc.lines...)
}

// Lines returns the session's lines after applying the prune policy.
func (e *Engine) Lines(ctx context.Context, sessionID string) []Line {
	sc := e.acquire(ctx, sessionID)
	defer e.release(sessionID, sc)
	e.reconcile(ctx, sessionID, sc)
	return append([]Line(nil), sc.lines...)
}

// Cart returns the session's lines for display.
func (e *Engine) Cart(ctx context.Context, sessionID string) []LineView {
	return views(e.Lines(ctx, sessionID), e.products, e.policy)
}

// View returns the display lines and their totals from one cart state.
func (e *Engine) View(ctx context.Context, sessionID string, zoneIndex int) ([]LineView, Totals) {
	lines := e.Lines(ctx, sessionID)
	return views(lines, e.products, e.policy), ComputeTotals(lines, e.products.Zones(), zoneIndex)
}

// Totals prices the session's cart for the given shipping zone index.
func (e *Engine) Totals(ctx context.Context, sessionID string, zoneIndex int) Totals {
	return ComputeTotals(e.Lines(ctx, sessionID), e.products.Zones(), zoneIndex)
}

// Clear empties the session's cart.
func (e *Engine) Clear(ctx context.Context, sessionID string) {
	sc := e.acquire(ctx, sessionID)
	defer e.release(sessionID, sc)
	sc.lines = nil
	e.persist(ctx, sessionID, sc.lines)
	e.metrics.CartMutation("clear", "ok")
}

// Drain hands the session's lines to fn while holding the cart, and clears
// the cart only if fn succeeds. Adds that arrive meanwhile wait and land in
// the emptied cart. fn must not call back into the engine for the session.
func (e *Engine) Drain(ctx context.Context, sessionID string, fn func(lines []Line) error) error {
	sc := e.acquire(ctx, sessionID)
	defer e.release(sessionID, sc)
	e.reconcile(ctx, sessionID, sc)

	if err := fn(append([]Line(nil), sc.lines...)); err != nil {
		return err
	}
	sc.lines = nil
	e.persist(ctx, sessionID, sc.lines)
	e.metrics.CartMutation("clear", "ok")
	return nil
}
