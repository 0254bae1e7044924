// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/errors"
	"tradejournal/internal/format"
	"tradejournal/internal/grouping"
	"tradejournal/internal/logging"
	"tradejournal/internal/models"
	"tradejournal/internal/stats"
	"tradejournal/internal/store"
)

// addStatsCommands adds the statistics command.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute trade statistics",
		Long: `Compute performance statistics over recorded trades.

With --grouped, copy-trades are first resolved into logical groups and
each group contributes one combined record (PnL summed across accounts).
Without it, every per-account record counts individually.`,
		Example: `  journal stats
  journal stats --grouped --from 2026-01-01
  journal stats --account acc1 --mode percent
  journal stats --grouped --currency CZK --monthly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			grouped, _ := cmd.Flags().GetBool("grouped")
			monthly, _ := cmd.Flags().GetBool("monthly")
			calendar, _ := cmd.Flags().GetBool("calendar")

			filter, err := tradeFilterFromFlags(cmd)
			if err != nil {
				return err
			}
			if period, _ := cmd.Flags().GetString("period"); period != "" {
				if !filter.StartDate.IsZero() || !filter.EndDate.IsZero() {
					return errors.NewValidationError("period", period, "cannot combine with --from/--to")
				}
				start, err := periodStart(period, time.Now())
				if err != nil {
					return err
				}
				filter.StartDate = start
			}

			opts, err := displayOptions(cmd, app)
			if err != nil {
				return err
			}

			trades, err := app.Store.GetTrades(ctx, filter)
			if err != nil {
				return err
			}

			balance := app.Config.Stats.InitialBalance
			if b, _ := cmd.Flags().GetFloat64("balance"); b > 0 {
				balance = b
			}

			start := time.Now()
			groups := 0
			if grouped {
				accounts, err := app.Store.GetAccounts(ctx, store.AccountFilter{})
				if err != nil {
					return err
				}
				resolved := grouping.NewResolver(accounts).Resolve(trades)
				groups = len(resolved)
				combined := make([]models.Trade, 0, len(resolved))
				for i := range resolved {
					combined = append(combined, resolved[i].Combined())
				}
				trades = combined
			}

			result := stats.Compute(trades, balance, stats.Options{
				ProfitFactorCap: app.Config.Stats.ProfitFactorCap,
			})
			logging.LogStatsComputed(app.Logger, result.TotalTrades, groups, result.TotalPnL, time.Since(start))

			if output.IsJSON() {
				return output.JSON(result)
			}

			renderSummary(output, result, opts)
			renderStreaks(output, result)
			renderEdge(output, result, opts)
			if calendar {
				renderCalendar(output, result, opts)
			}
			if monthly {
				renderMonthly(output, result, opts)
			}
			return nil
		},
	}

	cmd.Flags().String("account", "", "restrict to one account")
	cmd.Flags().String("instrument", "", "restrict to one instrument")
	cmd.Flags().String("status", "", "restrict to one execution status")
	cmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().String("period", "", "shorthand range: today, week, month or year")
	cmd.Flags().Int("limit", 0, "maximum trades considered")
	cmd.Flags().Bool("grouped", false, "resolve copy-trade groups first")
	cmd.Flags().Bool("monthly", false, "include the monthly breakdown")
	cmd.Flags().Bool("calendar", false, "include the daily calendar table")
	cmd.Flags().String("mode", "", "display mode: usd, percent or rr")
	cmd.Flags().String("currency", "", "display currency: USD, CZK or EUR")
	cmd.Flags().Float64("balance", 0, "initial balance override")

	return cmd
}

// periodStart maps a shorthand period name to its range start. Week starts
// on Monday, following the journal's trading-week convention.
func periodStart(period string, now time.Time) (time.Time, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "today":
		return day, nil
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset), nil
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	}
	return time.Time{}, errors.NewValidationError("period", period, "want today, week, month or year")
}

// displayCtx bundles the resolved rendering settings for one stats run.
type displayCtx struct {
	mode format.Mode
	opts format.PnLOptions
}

// displayOptions resolves mode/currency flags against config and fetches a
// rates snapshot when the display currency needs conversion.
func displayOptions(cmd *cobra.Command, app *App) (displayCtx, error) {
	mode, _ := cmd.Flags().GetString("mode")
	if mode == "" {
		mode = app.Config.Display.Mode
	}
	currency, _ := cmd.Flags().GetString("currency")
	if currency == "" {
		currency = app.Config.Display.Currency
	}

	var m format.Mode
	switch mode {
	case "", "usd":
		m = format.ModeUSD
	case "percent":
		m = format.ModePercent
	case "rr":
		m = format.ModeRR
	default:
		return displayCtx{}, errors.NewValidationError("mode", mode, "want usd, percent or rr")
	}

	opts := format.PnLOptions{
		Currency: format.Currency(currency),
		HideSign: !app.Config.Display.ShowSign,
	}

	if opts.Currency != format.USD {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		snap := app.Rates.Snapshot(ctx)
		opts.Rates = &snap
	}

	return displayCtx{mode: m, opts: opts}, nil
}

// pnl formats a USD amount in the run's display settings, colored by sign.
func (d displayCtx) pnl(output *Output, value float64, balance float64) string {
	opts := d.opts
	opts.AccountBalance = balance
	return output.PnLText(value, format.FormatPnL(value, d.mode, opts))
}

func renderSummary(output *Output, s *stats.TradeStats, d displayCtx) {
	output.Bold("Summary")
	output.Dim("  (amounts in %s)", format.Unit(d.mode, d.opts.Currency))
	output.Printf("  Total PnL:      %s\n", d.pnl(output, s.TotalPnL, s.InitialBalance))
	output.Printf("  Trades:         %d (%d missed, %d invalid)\n", s.TotalTrades, s.MissedTrades, s.InvalidTrades)
	output.Printf("  Wins/Losses/BE: %d/%d/%d\n", s.WinningTrades, s.LosingTrades, s.BreakEvenTrades)
	output.Printf("  Win Rate:       %.1f%%\n", s.WinRate)
	output.Printf("  Profit Factor:  %.2f\n", s.ProfitFactor)
	output.Printf("  Avg Win/Loss:   %s / %s\n",
		d.pnl(output, s.AvgWin, s.InitialBalance), d.pnl(output, -s.AvgLoss, s.InitialBalance))
	output.Printf("  Max Win/Loss:   %s / %s\n",
		d.pnl(output, s.MaxWin, s.InitialBalance), d.pnl(output, s.MaxLoss, s.InitialBalance))
	output.Printf("  Total R:        %.2fR\n", s.TotalR)
	output.Printf("  Max Drawdown:   %s\n", output.PnLText(-s.MaxDrawdown,
		format.FormatPnL(s.MaxDrawdown, format.ModeUSD, format.PnLOptions{HideSign: true, Currency: d.opts.Currency, Rates: d.opts.Rates})))
	output.Printf("  Execution Rate: %.1f%%\n", s.ExecutionRate)
	output.Println()

	output.Bold("Days")
	output.Printf("  Green/Red/Flat: %d/%d/%d (%.1f%% day win rate)\n",
		s.WinningDays, s.LosingDays, s.BreakEvenDays, s.DayWinRate)
	output.Println()
}

func renderStreaks(output *Output, s *stats.TradeStats) {
	output.Bold("Streaks")
	output.Printf("  Current Trades: %s\n", formatStreak(output, s.CurrentTradeStreak))
	output.Printf("  Best Trades:    %s / %s\n",
		output.Green(fmt.Sprintf("%d wins", s.MaxWinningTradeStreak)),
		output.Red(fmt.Sprintf("%d losses", s.MaxLosingTradeStreak)))
	output.Printf("  Current Days:   %s\n", formatStreak(output, s.CurrentDayStreak))
	output.Printf("  Best Days:      %s / %s\n",
		output.Green(fmt.Sprintf("%d green", s.MaxWinningDayStreak)),
		output.Red(fmt.Sprintf("%d red", s.MaxLosingDayStreak)))
	output.Println()
}

func formatStreak(output *Output, streak int) string {
	switch {
	case streak > 0:
		return output.Green(fmt.Sprintf("%d winning", streak))
	case streak < 0:
		return output.Red(fmt.Sprintf("%d losing", -streak))
	}
	return "none"
}

func renderEdge(output *Output, s *stats.TradeStats, d displayCtx) {
	if len(s.HourStats) > 0 {
		output.Bold("By Hour")
		table := NewTable(output, "Hour", "Trades", "Win%", "PnL")
		for _, b := range s.HourStats {
			table.AddRow(
				b.Label,
				fmt.Sprintf("%d", b.Trades),
				fmt.Sprintf("%.0f%%", b.WinRate),
				d.pnl(output, b.PnL, s.InitialBalance),
			)
		}
		table.Render()
		output.Println()
	}

	output.Bold("By Weekday")
	table := NewTable(output, "Day", "Trades", "Win%", "PnL")
	for _, b := range s.DayStats {
		// Weekends are off-session for the instruments traded here
		if b.Label == "Sat" || b.Label == "Sun" {
			continue
		}
		table.AddRow(
			b.Label,
			fmt.Sprintf("%d", b.Trades),
			fmt.Sprintf("%.0f%%", b.WinRate),
			d.pnl(output, b.PnL, s.InitialBalance),
		)
	}
	table.Render()
	output.Println()
}

func renderCalendar(output *Output, s *stats.TradeStats, d displayCtx) {
	if len(s.Calendar) == 0 {
		return
	}
	output.Bold("Calendar")
	table := NewTable(output, "Date", "Trades", "PnL")
	for _, day := range s.Calendar {
		table.AddRow(
			day.Date,
			fmt.Sprintf("%d", day.Trades),
			d.pnl(output, day.PnL, s.InitialBalance),
		)
	}
	table.Render()
	output.Println()
}

func renderMonthly(output *Output, s *stats.TradeStats, d displayCtx) {
	if len(s.Monthly) == 0 {
		return
	}
	output.Bold("Monthly Breakdown")
	for _, year := range s.Monthly {
		output.Printf("  %d  (%s, %s)\n", year.Year,
			d.pnl(output, year.PnL, s.InitialBalance),
			output.FormatPercent(year.GainPct))
		table := NewTable(output, "Month", "PnL", "Gain")
		for m := 0; m < 12; m++ {
			cell := year.Months[m]
			if cell.PnL == 0 && cell.GainPct == 0 {
				continue
			}
			table.AddRow(
				time.Month(m+1).String()[:3],
				d.pnl(output, cell.PnL, s.InitialBalance),
				output.FormatPercent(cell.GainPct),
			)
		}
		table.Render()
		output.Println()
	}
}
