package config

import (
	"time"

	"github.com/Skotchmaster/billing/internal/fallback"
	pkgconfig "github.com/Skotchmaster/billing/pkg/config"
	pkgdb "github.com/Skotchmaster/billing/pkg/db"
)

type Config struct {
	pkgconfig.Config

	CustomerURL  string
	InventoryURL string

	RemoteTimeout      time.Duration
	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration
	LookupConcurrency  int

	DBMaxOpenConns int
	DBMaxIdleConns int

	BillEventsTopic string
	ESIndex         string
}

func Load() *Config {
	return &Config{
		Config:             pkgconfig.Load(),
		CustomerURL:        pkgconfig.Getenv("CUSTOMER_URL", ""),
		InventoryURL:       pkgconfig.Getenv("INVENTORY_URL", ""),
		RemoteTimeout:      pkgconfig.GetenvDuration("REMOTE_TIMEOUT", 2*time.Second),
		BreakerMaxFailures: pkgconfig.GetenvInt("BREAKER_MAX_FAILURES", 5),
		BreakerOpenTimeout: pkgconfig.GetenvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),
		LookupConcurrency:  pkgconfig.GetenvInt("LOOKUP_CONCURRENCY", 1),
		DBMaxOpenConns:     pkgconfig.GetenvInt("DB_MAX_OPEN_CONNS", 0),
		DBMaxIdleConns:     pkgconfig.GetenvInt("DB_MAX_IDLE_CONNS", 0),
		BillEventsTopic:    pkgconfig.Getenv("BILL_EVENTS_TOPIC", "bill_events"),
		ESIndex:            pkgconfig.Getenv("ES_INDEX", "bills"),
	}
}

// Require stops the process when a mandatory setting is missing.
func (c *Config) Require() {
	pkgconfig.MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmpty(c.CustomerURL, "CUSTOMER_URL")
	pkgconfig.MustNonEmpty(c.InventoryURL, "INVENTORY_URL")
}

func (c *Config) Breaker() fallback.Settings {
	s := fallback.DefaultSettings()
	if c.BreakerMaxFailures > 0 {
		s.MaxFailures = uint32(c.BreakerMaxFailures)
	}
	if c.BreakerOpenTimeout > 0 {
		s.OpenTimeout = c.BreakerOpenTimeout
	}
	return s
}

// Pool sizes the bill store pool. Unset values fall back to pkg/db defaults.
func (c *Config) Pool() pkgdb.Pool {
	return pkgdb.Pool{MaxOpenConns: c.DBMaxOpenConns, MaxIdleConns: c.DBMaxIdleConns}
}
