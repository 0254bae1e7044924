package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradejournal/internal/rates"
)

func TestFormatPnLCurrency(t *testing.T) {
	assert.Equal(t, "+$100", FormatPnL(100, ModeUSD, PnLOptions{}))
	assert.Equal(t, "-$100", FormatPnL(-100, ModeUSD, PnLOptions{}))
	assert.Equal(t, "$0", FormatPnL(0, ModeUSD, PnLOptions{}))
	assert.Equal(t, "+$1,234,568", FormatPnL(1234567.89, ModeUSD, PnLOptions{}))
}

func TestSignAsymmetry(t *testing.T) {
	// HideSign drops the plus but a loss always keeps its minus
	assert.Equal(t, "$100", FormatPnL(100, ModeUSD, PnLOptions{HideSign: true}))
	assert.Equal(t, "-$100", FormatPnL(-100, ModeUSD, PnLOptions{HideSign: true}))
}

func TestFormatPnLPercent(t *testing.T) {
	assert.Equal(t, "+5.00%", FormatPnL(50, ModePercent, PnLOptions{AccountBalance: 1000}))
	assert.Equal(t, "-2.50%", FormatPnL(-25, ModePercent, PnLOptions{AccountBalance: 1000}))

	// Unusable balance falls back to the currency path
	assert.Equal(t, "+$50", FormatPnL(50, ModePercent, PnLOptions{}))
	assert.Equal(t, "+$50", FormatPnL(50, ModePercent, PnLOptions{AccountBalance: -10}))
}

func TestFormatPnLRR(t *testing.T) {
	assert.Equal(t, "-1.50R", FormatPnL(-75, ModeRR, PnLOptions{RMultiple: 1.5, HasRMultiple: true}))
	assert.Equal(t, "+2.00R", FormatPnL(100, ModeRR, PnLOptions{RMultiple: 2, HasRMultiple: true}))

	// Ratio sign follows the PnL even when the caller pre-signed it
	assert.Equal(t, "-1.50R", FormatPnL(-75, ModeRR, PnLOptions{RMultiple: -1.5, HasRMultiple: true}))

	// Unknown ratio falls back to the currency path
	assert.Equal(t, "-$75", FormatPnL(-75, ModeRR, PnLOptions{}))
}

func TestFormatCurrencyConversion(t *testing.T) {
	snap := &rates.ExchangeRates{USD: 1, CZK: 24.5, EUR: 0.92}

	assert.Equal(t, "+2,450 Kč", FormatCurrency(100, CZK, snap, false))
	assert.Equal(t, "+€92", FormatCurrency(100, EUR, snap, false))
	assert.Equal(t, "+$100", FormatCurrency(100, USD, snap, false))
	assert.Equal(t, "-2,450 Kč", FormatCurrency(-100, CZK, snap, false))
}

func TestFormatCurrencyMissingRates(t *testing.T) {
	// No snapshot, or a snapshot without the currency, stays in USD
	assert.Equal(t, "+$100", FormatCurrency(100, CZK, nil, false))
	assert.Equal(t, "+$100", FormatCurrency(100, CZK, &rates.ExchangeRates{USD: 1}, false))
}

func TestFormatNonFinite(t *testing.T) {
	assert.Equal(t, "$0", FormatPnL(math.NaN(), ModeUSD, PnLOptions{}))
	assert.Equal(t, "$0", FormatPnL(math.Inf(1), ModeUSD, PnLOptions{}))
	assert.Equal(t, "$0", FormatCurrency(math.NaN(), USD, nil, false))
}

func TestUnit(t *testing.T) {
	assert.Equal(t, "%", Unit(ModePercent, USD))
	assert.Equal(t, "R", Unit(ModeRR, CZK))
	assert.Equal(t, "Kč", Unit(ModeUSD, CZK))
	assert.Equal(t, "€", Unit(ModeUSD, EUR))
	assert.Equal(t, "$", Unit(ModeUSD, USD))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000", groupThousands(1000))
	assert.Equal(t, "12,345,678", groupThousands(12345678))
}
