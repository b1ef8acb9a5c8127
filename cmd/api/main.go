package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/georgemunganga/po-storefront/internal/config"
	"github.com/georgemunganga/po-storefront/internal/modules/auth"
	"github.com/georgemunganga/po-storefront/internal/modules/cart"
	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
	"github.com/georgemunganga/po-storefront/internal/modules/loader"
	"github.com/georgemunganga/po-storefront/internal/modules/order"
	"github.com/georgemunganga/po-storefront/internal/modules/window"
	"github.com/georgemunganga/po-storefront/internal/platform/logger"
	"github.com/georgemunganga/po-storefront/internal/platform/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	loc := cfg.Catalog.Location()

	// ── Catalog & Config Store ──────────────────────────────
	store := catalog.NewStore(catalog.DefaultProducts(), catalog.DefaultZones(), catalog.DefaultConfig(loc))
	evaluator := window.NewEvaluator(store, nil)

	// ── Load Coordinator ────────────────────────────────────
	var fetcher loader.Fetcher
	if cfg.Catalog.Endpoint != "" {
		fetcher = loader.NewSheetClient(cfg.Catalog.Endpoint, &http.Client{}, zl.Named("sheet"))
	}
	coord := loader.NewCoordinator(store, loader.Options{
		Fetcher:  fetcher,
		Location: loc,
		Timeout:  cfg.Catalog.FetchTimeout,
		Logger:   zl.Named("loader"),
		Metrics:  m,
	})

	// ── Cart storage ────────────────────────────────────────
	storage, closeStorage, err := openStorage(ctx, cfg.Cart, cfg.Session.TTL, zl)
	if err != nil {
		zl.Fatal("Cart storage unavailable", zap.String("store", cfg.Cart.Store), zap.Error(err))
	}
	defer closeStorage()

	policy, err := cart.ParsePolicy(cfg.Cart.Reconcile)
	if err != nil {
		zl.Fatal("Invalid CART_RECONCILE", zap.Error(err))
	}
	engine, err := cart.NewEngine(cart.Options{
		Storage:   storage,
		Products:  store,
		Window:    evaluator,
		Policy:    policy,
		CacheSize: cfg.Cart.CacheSize,
		Logger:    zl.Named("cart"),
		Metrics:   m,
	})
	if err != nil {
		zl.Fatal("Cart engine", zap.Error(err))
	}
	store.OnReplace(engine.CatalogReplaced)

	// The load starts once the engine listens for catalog replacements.
	go func() {
		out := coord.Load(ctx)
		zl.Info("Catalog ready",
			zap.String("source", out.Source),
			zap.Int("products", out.Products),
			zap.Time("close_date", store.Config().CloseDate))

		// The countdown starts from the loaded close date, not the fallback.
		m.WindowOpen(evaluator.Open())
		countdown := &window.Countdown{
			Source: store,
			Gate:   window.NewGate(),
			Log:    zl.Named("window"),
			OnClose: func(closedAt time.Time) {
				m.WindowOpen(false)
				zl.Info("Pre-order closed", zap.Time("close_date", closedAt))
			},
		}
		countdown.Run(ctx)
	}()

	sessions := auth.NewService(cfg.Session.Secret, cfg.Session.TTL)
	checkout := order.NewService(engine, store, order.LogOpener{Logger: zl.Named("checkout")}, zl.Named("checkout"), m)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.Requests(zl))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Get("/readyz", coord.ReadyHandler)
	router.Handle("/metrics", m.Handler())

	auth.NewHandler(sessions).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(coord.WaitReady)
		catalog.NewHandler(store, evaluator).RegisterRoutes(r)
		window.NewHandler(evaluator, store).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(sessions))
			cart.NewHandler(engine).RegisterRoutes(r)
			order.NewHandler(checkout).RegisterRoutes(r)
		})
	})

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("PO storefront starting", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// openStorage connects the configured cart snapshot backend. Redis snapshots
// expire with the session token that owns them.
func openStorage(ctx context.Context, cfg config.CartConfig, ttl time.Duration, zl *zap.Logger) (cart.Storage, func(), error) {
	switch cfg.Store {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := cart.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		zl.Info("Successfully connected to the database")
		return cart.NewPostgresStorage(db), func() { db.Close() }, nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		zl.Info("Connected to redis", zap.String("addr", opts.Addr))
		return cart.NewRedisStorage(client, ttl), func() { client.Close() }, nil
	default:
		return cart.NewMemoryStorage(), func() {}, nil
	}
}
