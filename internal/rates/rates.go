// Package rates provides USD exchange rates for display conversion.
//
// Rates are fetched from an external service, cached process-wide with a
// TTL, and replaced by a static fallback table when the fetch fails. The
// analytics core never fetches: it only ever reads a snapshot resolved by
// the caller at formatting time.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tradejournal/pkg/utils"
)

// ExchangeRates is a snapshot of conversion rates from USD. A zero rate
// means the currency is unknown to the snapshot and values stay in USD.
type ExchangeRates struct {
	USD       float64
	CZK       float64
	EUR       float64
	Timestamp time.Time
}

// Rate returns the multiplier from USD into the given currency code,
// or 0 when the snapshot has no rate for it.
func (r ExchangeRates) Rate(code string) float64 {
	switch code {
	case "USD":
		return r.USD
	case "CZK":
		return r.CZK
	case "EUR":
		return r.EUR
	}
	return 0
}

// Fallback is the static approximate table used when no fetch has ever
// succeeded. Stale but plausible beats blocking a render.
var Fallback = ExchangeRates{USD: 1, CZK: 24.50, EUR: 0.92}

// DefaultTTL is how long a fetched snapshot stays fresh.
const DefaultTTL = 6 * time.Hour

// DefaultEndpoint is the free, keyless Frankfurter API.
const DefaultEndpoint = "https://api.frankfurter.app"

// Provider fetches a fresh rates snapshot.
type Provider interface {
	GetRates(ctx context.Context) (ExchangeRates, error)
}

// Client fetches rates over HTTP with retry.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a rates client. An empty endpoint selects the default
// service.
func NewClient(endpoint string, logger zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GetRates fetches the current USD→CZK/EUR rates.
func (c *Client) GetRates(ctx context.Context) (ExchangeRates, error) {
	url := c.endpoint + "/latest?from=USD&to=CZK,EUR"

	return utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() (ExchangeRates, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return ExchangeRates{}, fmt.Errorf("building rates request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return ExchangeRates{}, fmt.Errorf("fetching rates: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return ExchangeRates{}, fmt.Errorf("rates service returned status %d", resp.StatusCode)
		}

		var payload struct {
			Rates map[string]float64 `json:"rates"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return ExchangeRates{}, fmt.Errorf("decoding rates response: %w", err)
		}

		rates := ExchangeRates{
			USD:       1,
			CZK:       payload.Rates["CZK"],
			EUR:       payload.Rates["EUR"],
			Timestamp: time.Now(),
		}
		c.logger.Debug().
			Float64("czk", rates.CZK).
			Float64("eur", rates.EUR).
			Msg("Exchange rates refreshed")
		return rates, nil
	})
}

// Cache is the process-wide rates cache. It populates on first use or on
// expiry and is read-only otherwise; readers always get a consistent
// snapshot.
type Cache struct {
	provider Provider
	ttl      time.Duration
	logger   zerolog.Logger

	mu       sync.RWMutex
	snapshot ExchangeRates
	expiry   time.Time
	fallback bool

	now func() time.Time
}

// NewCache creates a cache over the provider. A non-positive ttl selects
// DefaultTTL.
func NewCache(provider Provider, ttl time.Duration, logger zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider: provider,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// isExpired reports whether the cached snapshot is stale at the given
// instant. A cache that never populated is always expired.
func (c *Cache) isExpired(now time.Time) bool {
	return c.expiry.IsZero() || now.After(c.expiry)
}

// Snapshot returns the current rates, refreshing from the provider when the
// cached value has expired. A failed refresh degrades to the static
// fallback table; Snapshot never returns an error and never blocks beyond
// the provider's own timeout.
func (c *Cache) Snapshot(ctx context.Context) ExchangeRates {
	now := c.now()

	c.mu.RLock()
	if !c.isExpired(now) {
		snap := c.snapshot
		c.mu.RUnlock()
		return snap
	}
	c.mu.RUnlock()

	fresh, err := c.provider.GetRates(ctx)
	usedFallback := false
	if err != nil {
		c.logger.Warn().Err(err).Msg("Exchange rate fetch failed, using fallback table")
		fresh = Fallback
		fresh.Timestamp = now
		usedFallback = true
	}

	c.mu.Lock()
	c.snapshot = fresh
	c.expiry = now.Add(c.ttl)
	c.fallback = usedFallback
	c.mu.Unlock()

	return fresh
}

// IsFallback reports whether the current snapshot came from the static
// table rather than a live fetch.
func (c *Cache) IsFallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fallback
}
