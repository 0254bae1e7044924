package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesTemplateOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	require.Error(t, err, "first load reports the freshly created template")
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "usd", cfg.Display.Mode)
	assert.Equal(t, "USD", cfg.Display.Currency)
	assert.True(t, cfg.Display.ShowSign)
	assert.Equal(t, 9.99, cfg.Stats.ProfitFactorCap)
	assert.Equal(t, 10000.0, cfg.Stats.InitialBalance)
	assert.Equal(t, 6, cfg.Rates.TTLHours)
	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Storage.DBPath)
}

func TestLoadCustomConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[display]
mode = "percent"
currency = "CZK"
show_sign = false

[stats]
profit_factor_cap = 5.0
initial_balance = 25000.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "percent", cfg.Display.Mode)
	assert.Equal(t, "CZK", cfg.Display.Currency)
	assert.False(t, cfg.Display.ShowSign)
	assert.Equal(t, 5.0, cfg.Stats.ProfitFactorCap)
	assert.Equal(t, 25000.0, cfg.Stats.InitialBalance)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[display]\nmode = \"usd\"\n"), 0644))

	t.Setenv("TRADEJOURNAL_DISPLAY_MODE", "rr")
	t.Setenv("TRADEJOURNAL_INITIAL_BALANCE", "5000")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "rr", cfg.Display.Mode)
	assert.Equal(t, 5000.0, cfg.Stats.InitialBalance)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[display]\nmode = \"lightyears\"\n"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)

	cfg := &Config{
		Display: DisplayConfig{Mode: "usd", Currency: "EUR"},
		Stats:   StatsConfig{ProfitFactorCap: 9.99},
		Rates:   RatesConfig{TTLHours: 6},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Display.Currency = "JPY"
	assert.Error(t, cfg.Validate())
}
