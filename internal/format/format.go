// Package format renders stored PnL figures for display.
//
// A trade's PnL is stored once, as a USD amount. Every view the user sees
// (absolute currency, percent of balance, R-multiples, converted currencies)
// is derived at the presentation edge by this package. Formatting is pure:
// the rates snapshot is injected, never fetched.
package format

import (
	"fmt"
	"math"
	"strings"

	"tradejournal/internal/rates"
)

// Mode selects how a PnL value is displayed.
type Mode string

const (
	// ModeUSD shows the absolute currency value. It is also the fallback
	// for the other modes when their inputs are missing.
	ModeUSD Mode = "usd"
	// ModePercent shows the value relative to the account balance.
	ModePercent Mode = "percent"
	// ModeRR shows the value as an R-multiple of planned risk.
	ModeRR Mode = "rr"
)

// Currency is a supported display currency.
type Currency string

const (
	USD Currency = "USD"
	CZK Currency = "CZK"
	EUR Currency = "EUR"
)

// PnLOptions carry the optional inputs of FormatPnL.
type PnLOptions struct {
	// AccountBalance is the denominator for ModePercent. Zero or negative
	// silently falls back to ModeUSD.
	AccountBalance float64
	// RMultiple is the precomputed |pnl / risk| ratio for ModeRR.
	RMultiple float64
	// HasRMultiple distinguishes "ratio is zero" from "no ratio known".
	HasRMultiple bool
	// HideSign omits the leading plus on gains. Losses keep their minus
	// even with HideSign set: a pre-labelled magnitude display still needs
	// its loss marker.
	HideSign bool
	// Currency selects the display currency; empty means USD.
	Currency Currency
	// Rates is the conversion snapshot. Missing rates leave values in USD.
	Rates *rates.ExchangeRates
}

// FormatPnL renders a stored PnL value in the requested display mode. It is
// total: any combination of missing balance, ratio or rates degrades to the
// USD path rather than failing or emitting NaN.
func FormatPnL(value float64, mode Mode, opts PnLOptions) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	switch mode {
	case ModePercent:
		if opts.AccountBalance <= 0 {
			return formatCurrencyOpts(value, opts)
		}
		pct := value / opts.AccountBalance * 100
		return sign(value, opts.HideSign) + fmt.Sprintf("%.2f%%", math.Abs(pct))

	case ModeRR:
		if !opts.HasRMultiple {
			return formatCurrencyOpts(value, opts)
		}
		// The displayed ratio follows the sign of the PnL, not of the
		// supplied ratio: a caller passing an already-negative ratio for a
		// loss must not flip it back positive.
		return sign(value, opts.HideSign) + fmt.Sprintf("%.2fR", math.Abs(opts.RMultiple))

	default:
		return formatCurrencyOpts(value, opts)
	}
}

// FormatCurrency renders a USD amount in the target currency, converting
// through the rates snapshot when one is available. Without a usable rate
// the amount stays in USD, a degraded but valid result, never an error.
func FormatCurrency(usdAmount float64, to Currency, r *rates.ExchangeRates, hideSign bool) string {
	if math.IsNaN(usdAmount) || math.IsInf(usdAmount, 0) {
		usdAmount = 0
	}
	display := to
	converted := math.Abs(usdAmount)
	if display == "" {
		display = USD
	}
	if display != USD {
		rate := 0.0
		if r != nil {
			rate = r.Rate(string(display))
		}
		if rate > 0 {
			converted *= rate
		} else {
			display = USD
		}
	}

	grouped := groupThousands(int64(math.Round(converted)))
	s := sign(usdAmount, hideSign)

	switch display {
	case CZK:
		return s + grouped + " Kč"
	case EUR:
		return s + "€" + grouped
	default:
		return s + "$" + grouped
	}
}

// Unit returns the unit suffix/symbol for a display mode, for labelling
// axes and table headers.
func Unit(mode Mode, currency Currency) string {
	switch mode {
	case ModePercent:
		return "%"
	case ModeRR:
		return "R"
	}
	switch currency {
	case CZK:
		return "Kč"
	case EUR:
		return "€"
	default:
		return "$"
	}
}

func formatCurrencyOpts(value float64, opts PnLOptions) string {
	return FormatCurrency(value, opts.Currency, opts.Rates, opts.HideSign)
}

// sign produces the leading sign of a display value. With hideSign the plus
// is dropped but the minus is kept; the asymmetry is deliberate and relied
// on by magnitude-style widgets.
func sign(value float64, hideSign bool) string {
	switch {
	case value < 0:
		return "-"
	case value > 0 && !hideSign:
		return "+"
	default:
		return ""
	}
}

// groupThousands formats a non-negative integer with comma separators.
func groupThousands(n int64) string {
	if n < 0 {
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
