package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process-wide settings of the storefront service.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Catalog     CatalogConfig
	Cart        CartConfig
	Session     SessionConfig
}

// CatalogConfig controls where catalog and PO config rows come from.
type CatalogConfig struct {
	Endpoint     string        // CATALOG_API_ENDPOINT; empty keeps the built-in menu
	FetchTimeout time.Duration // REMOTE_FETCH_TIMEOUT; 0 means wait as long as the provider takes
	TimeZone     string        // STORE_TIMEZONE; close dates carry no zone of their own

	loc *time.Location
}

// CartConfig selects the cart snapshot backend and the stale-line policy.
type CartConfig struct {
	Store       string // memory | postgres | redis
	DatabaseURL string
	RedisURL    string
	Reconcile   string // none | flag | prune
	CacheSize   int    // carts held in memory before eviction to the store
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REMOTE_FETCH_TIMEOUT", "0s")
	v.SetDefault("STORE_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("CART_STORE", "memory")
	v.SetDefault("CART_RECONCILE", "none")
	v.SetDefault("CART_SESSION_TTL", "720h")
	v.SetDefault("CART_CACHE_SIZE", 10000)

	timeout, err := time.ParseDuration(v.GetString("REMOTE_FETCH_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMOTE_FETCH_TIMEOUT: %w", err)
	}
	ttl, err := time.ParseDuration(v.GetString("CART_SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_SESSION_TTL: %w", err)
	}
	zone := strings.TrimSpace(v.GetString("STORE_TIMEZONE"))
	loc, err := loadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEZONE %q: %w", zone, err)
	}

	cfg := &Config{
		Port:        v.GetString("APP_PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Catalog: CatalogConfig{
			Endpoint:     strings.TrimSpace(v.GetString("CATALOG_API_ENDPOINT")),
			FetchTimeout: timeout,
			TimeZone:     zone,
			loc:          loc,
		},
		Cart: CartConfig{
			Store:       strings.ToLower(strings.TrimSpace(v.GetString("CART_STORE"))),
			DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
			RedisURL:    strings.TrimSpace(v.GetString("REDIS_URL")),
			Reconcile:   strings.ToLower(strings.TrimSpace(v.GetString("CART_RECONCILE"))),
			CacheSize:   v.GetInt("CART_CACHE_SIZE"),
		},
		Session: SessionConfig{
			Secret: v.GetString("CART_SESSION_SECRET"),
			TTL:    ttl,
		},
	}

	switch cfg.Cart.Store {
	case "memory":
	case "postgres":
		if cfg.Cart.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when CART_STORE=postgres")
		}
	case "redis":
		if cfg.Cart.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when CART_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("unknown CART_STORE %q", cfg.Cart.Store)
	}

	if cfg.Session.Secret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("CART_SESSION_SECRET is required in production")
		}
		cfg.Session.Secret = "dev-cart-session-secret"
	}

	return cfg, nil
}

// Location returns the store time zone resolved by Load. An empty
// STORE_TIMEZONE means the host zone.
func (c CatalogConfig) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
