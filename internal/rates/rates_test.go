package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	rates ExchangeRates
	err   error
	calls int
}

func (p *stubProvider) GetRates(ctx context.Context) (ExchangeRates, error) {
	p.calls++
	if p.err != nil {
		return ExchangeRates{}, p.err
	}
	return p.rates, nil
}

func TestCacheServesWithinTTL(t *testing.T) {
	provider := &stubProvider{rates: ExchangeRates{USD: 1, CZK: 23.1, EUR: 0.9, Timestamp: time.Now()}}
	cache := NewCache(provider, 6*time.Hour, zerolog.Nop())

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	first := cache.Snapshot(context.Background())
	assert.Equal(t, 23.1, first.CZK)
	assert.Equal(t, 1, provider.calls)

	// Still fresh five hours later
	now = now.Add(5 * time.Hour)
	second := cache.Snapshot(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls, "a fresh snapshot must not refetch")

	// Expired after the TTL
	now = now.Add(2 * time.Hour)
	provider.rates.CZK = 24.9
	third := cache.Snapshot(context.Background())
	assert.Equal(t, 24.9, third.CZK)
	assert.Equal(t, 2, provider.calls)
}

func TestCacheFallsBackOnError(t *testing.T) {
	provider := &stubProvider{err: errors.New("service down")}
	cache := NewCache(provider, 0, zerolog.Nop())

	snap := cache.Snapshot(context.Background())

	assert.Equal(t, Fallback.USD, snap.USD)
	assert.Equal(t, Fallback.CZK, snap.CZK)
	assert.Equal(t, Fallback.EUR, snap.EUR)
	assert.False(t, snap.Timestamp.IsZero(), "fallback snapshots are stamped at resolution time")
	assert.True(t, cache.IsFallback())

	// A later successful fetch clears the fallback flag
	cache.now = func() time.Time { return time.Now().Add(DefaultTTL + time.Hour) }
	provider.err = nil
	provider.rates = ExchangeRates{USD: 1, CZK: 22, EUR: 0.88, Timestamp: time.Now()}
	snap = cache.Snapshot(context.Background())
	assert.Equal(t, 22.0, snap.CZK)
	assert.False(t, cache.IsFallback())
}

func TestRateLookup(t *testing.T) {
	snap := ExchangeRates{USD: 1, CZK: 24.5, EUR: 0.92}
	assert.Equal(t, 1.0, snap.Rate("USD"))
	assert.Equal(t, 24.5, snap.Rate("CZK"))
	assert.Equal(t, 0.92, snap.Rate("EUR"))
	assert.Equal(t, 0.0, snap.Rate("GBP"), "unknown currencies report no rate")
}

func TestClientGetRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"amount":1.0,"base":"USD","rates":{"CZK":23.42,"EUR":0.91}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	got, err := client.GetRates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, got.USD)
	assert.Equal(t, 23.42, got.CZK)
	assert.Equal(t, 0.91, got.EUR)
	assert.False(t, got.Timestamp.IsZero())
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	_, err := client.GetRates(context.Background())
	assert.Error(t, err)
}
