// Package loader runs the startup catalog/config load against the remote
// spreadsheet provider and signals readiness.
package loader

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
	"github.com/georgemunganga/po-storefront/internal/platform/metrics"
)

// Data sources reported in an Outcome.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Outcome describes how the startup load ended. Err is nil for the remote
// source and for an unconfigured endpoint.
type Outcome struct {
	Source   string
	Products int
	Err      error
}

// Coordinator performs a single load attempt per process.
type Coordinator struct {
	store   *catalog.Store
	fetcher Fetcher
	loc     *time.Location
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics

	once    sync.Once
	ready   chan struct{}
	mu      sync.Mutex
	outcome Outcome
}

// Options configures a Coordinator. A nil Fetcher means no endpoint is
// configured.
type Options struct {
	Fetcher  Fetcher
	Location *time.Location
	Timeout  time.Duration
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

func NewCoordinator(store *catalog.Store, opts Options) *Coordinator {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Coordinator{
		store:   store,
		fetcher: opts.Fetcher,
		loc:     opts.Location,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		ready:   make(chan struct{}),
	}
}

// Ready is closed exactly once, after the load attempt settles.
func (c *Coordinator) Ready() <-chan struct{} {
	return c.ready
}

// Outcome returns the result of the finished load; zero before readiness.
func (c *Coordinator) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Load runs the load attempt. Calls after the first return the first
// outcome without fetching again.
func (c *Coordinator) Load(ctx context.Context) Outcome {
	c.once.Do(func() {
		out := c.load(ctx)
		c.mu.Lock()
		c.outcome = out
		c.mu.Unlock()
		c.metrics.CatalogLoaded(out.Source)
		close(c.ready)
	})
	return c.Outcome()
}

func (c *Coordinator) load(ctx context.Context) Outcome {
	if c.fetcher == nil {
		c.logger.Info("No catalog endpoint configured, serving built-in menu")
		return Outcome{Source: SourceFallback, Products: len(c.store.Catalog())}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info("Fetching menu and config sheets")

	var (
		menu []MenuRow
		conf []ConfigRow
		g    errgroup.Group
	)
	g.Go(func() error {
		rows, err := c.fetcher.FetchMenu(ctx)
		menu = rows
		return err
	})
	g.Go(func() error {
		rows, err := c.fetcher.FetchConfig(ctx)
		conf = rows
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("Remote catalog load failed, keeping built-in data", zap.Error(err))
		return Outcome{Source: SourceFallback, Products: len(c.store.Catalog()), Err: err}
	}

	if len(menu) > 0 {
		c.store.ReplaceCatalog(TransformProducts(menu, c.logger))
	} else {
		c.logger.Warn("Menu sheet is empty, keeping built-in menu")
	}

	if len(conf) > 0 {
		patch, err := TransformConfig(conf, c.loc)
		if err != nil {
			c.logger.Warn("Ignoring remote close date", zap.Error(err))
		}
		if patch.IsEmpty() {
			c.logger.Warn("Config sheet has no usable keys, keeping built-in config", zap.Int("rows", len(conf)))
		} else {
			c.store.MergeConfig(patch)
			cfg := c.store.Config()
			c.logger.Info("Config updated",
				zap.Time("close_date", cfg.CloseDate),
				zap.String("delivery_notice", cfg.DeliveryNotice))
		}
	}

	products := len(c.store.Catalog())
	c.logger.Info("Remote catalog loaded", zap.Int("products", products))
	return Outcome{Source: SourceRemote, Products: products}
}

// WaitReady holds requests until the load has settled. A request whose
// context ends first gets 503.
func (c *Coordinator) WaitReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-c.ready:
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			respond(w, http.StatusServiceUnavailable, readiness{Status: "loading"})
		}
	})
}

// ReadyHandler reports whether the catalog load has finished and its source.
func (c *Coordinator) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case <-c.ready:
		respond(w, http.StatusOK, readiness{Status: "ready", Source: c.Outcome().Source})
	default:
		respond(w, http.StatusServiceUnavailable, readiness{Status: "loading"})
	}
}

type readiness struct {
	Status string `json:"status"`
	Source string `json:"source,omitempty"`
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
