package grouping

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradejournal/internal/models"
)

// Property: resolution partitions the input. With one record per account in
// each group, every input record lands in exactly one group and the summed
// group PnL equals the summed input PnL.
func TestProperty_ResolvePartitionsInput(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	r := NewResolver([]models.Account{{ID: "acc0", Name: "hlavní"}})

	properties.Property("groups partition the trades and conserve PnL", prop.ForAll(
		func(groupSizes []int, pnls []float64) bool {
			trades := buildCopyTrades(groupSizes, pnls)

			groups := r.Resolve(trades)

			var members int
			var groupSum float64
			for i := range groups {
				members += groups[i].Size()
				groupSum += groups[i].TotalPnL()
				if groups[i].Master < 0 || groups[i].Master >= groups[i].Size() {
					return false
				}
			}
			if members != len(trades) {
				return false
			}

			var inputSum float64
			for _, tr := range trades {
				inputSum += tr.PnL
			}
			return math.Abs(groupSum-inputSum) < 1e-6
		},
		gen.SliceOf(gen.IntRange(1, 5)),
		gen.SliceOf(gen.Float64Range(-5000, 5000)),
	))

	properties.Property("resolution is deterministic", prop.ForAll(
		func(groupSizes []int, pnls []float64) bool {
			trades := buildCopyTrades(groupSizes, pnls)

			first := r.Resolve(trades)
			second := r.Resolve(trades)
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].Key != second[i].Key ||
					first[i].Size() != second[i].Size() ||
					first[i].Master != second[i].Master {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 5)),
		gen.SliceOf(gen.Float64Range(-5000, 5000)),
	))

	properties.TestingRun(t)
}

// buildCopyTrades turns a slice of group sizes into trades where each group
// shares a GroupID and each member sits on its own account.
func buildCopyTrades(groupSizes []int, pnls []float64) []models.Trade {
	base := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	var trades []models.Trade
	p := 0
	for g, size := range groupSizes {
		for m := 0; m < size; m++ {
			pnl := 0.0
			if len(pnls) > 0 {
				pnl = pnls[p%len(pnls)]
				p++
			}
			trades = append(trades, models.Trade{
				ID:         fmt.Sprintf("t%d", g),
				AccountID:  fmt.Sprintf("acc%d", m),
				GroupID:    fmt.Sprintf("g%d", g),
				Instrument: "NQ",
				Direction:  models.Long,
				Timestamp:  base.Add(time.Duration(g) * time.Hour),
				PnL:        pnl,
			})
		}
	}
	return trades
}
