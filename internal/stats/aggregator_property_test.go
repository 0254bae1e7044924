package stats

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradejournal/internal/models"
)

func tradesFromPnLs(pnls []float64) []models.Trade {
	base := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	trades := make([]models.Trade, len(pnls))
	for i, p := range pnls {
		trades[i] = models.Trade{
			Instrument: "NQ",
			Direction:  models.Long,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			PnL:        p,
		}
	}
	return trades
}

// Property: aggregate invariants hold for any PnL sequence. The win rate is
// a percentage, the drawdown is never negative, and the equity curve ends at
// the total PnL.
func TestProperty_AggregateInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("win rate and drawdown stay in range", prop.ForAll(
		func(pnls []float64) bool {
			s := Compute(tradesFromPnLs(pnls), 10000, Options{})

			if s.WinRate < 0 || s.WinRate > 100 {
				return false
			}
			if s.MaxDrawdown < 0 {
				return false
			}
			if s.WinningTrades+s.LosingTrades+s.BreakEvenTrades != s.TotalTrades {
				return false
			}
			if len(s.EquityCurve) != s.TotalTrades {
				return false
			}
			if s.TotalTrades > 0 {
				last := s.EquityCurve[len(s.EquityCurve)-1]
				if math.Abs(last.CumulativePnL-s.TotalPnL) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-10000, 10000)),
	))

	properties.Property("monotonic gains never draw down", prop.ForAll(
		func(pnls []float64) bool {
			s := Compute(tradesFromPnLs(pnls), 10000, Options{})
			return s.MaxDrawdown == 0 && s.LosingTrades == 0
		},
		gen.SliceOf(gen.Float64Range(0, 10000)),
	))

	properties.Property("profit factor is non-negative and capped without losses", prop.ForAll(
		func(pnls []float64) bool {
			s := Compute(tradesFromPnLs(pnls), 10000, Options{})
			if s.ProfitFactor < 0 {
				return false
			}
			if s.GrossLoss == 0 && s.GrossProfit > 0 {
				return s.ProfitFactor == DefaultProfitFactorCap
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-10000, 10000)),
	))

	properties.TestingRun(t)
}
