// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/logging"
)

// addRatesCommands adds the exchange-rate command.
func addRatesCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show USD exchange rates",
		Long: `Show the USD exchange rates used for display conversion.

Rates are cached with a TTL; when the rate service is unreachable a static
fallback table is used so display conversion keeps working.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			snap := app.Rates.Snapshot(ctx)
			fallback := app.Rates.IsFallback()
			logging.LogRatesRefreshed(app.Logger, snap.CZK, snap.EUR, fallback)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"usd":       snap.USD,
					"czk":       snap.CZK,
					"eur":       snap.EUR,
					"timestamp": snap.Timestamp,
					"fallback":  fallback,
				})
			}

			output.Bold("USD Exchange Rates")
			table := NewTable(output, "Currency", "Rate")
			table.AddRow("USD", fmt.Sprintf("%.4f", snap.USD))
			table.AddRow("CZK", fmt.Sprintf("%.4f", snap.CZK))
			table.AddRow("EUR", fmt.Sprintf("%.4f", snap.EUR))
			table.Render()
			output.Println()
			if !snap.Timestamp.IsZero() {
				output.Dim("As of %s", FormatDateTime(snap.Timestamp))
			}
			if fallback {
				output.Warning("⚠ Rate service unreachable, showing fallback table")
			}
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}
