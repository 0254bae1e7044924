// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradejournal/internal/errors"
	"tradejournal/internal/format"
	"tradejournal/internal/logging"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// addTradeCommands adds trade recording commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade record management",
		Long:  "Record, list, and delete trade records.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trade",
		Long: `Record a realized trade on an account.

PnL accepts plain numbers or display strings like "$1,250.50" and "(300)".
Copy-trades on other accounts should reuse the same --id and --group so
the grouping resolver can fold them into one logical trade.`,
		Example: `  journal trade add --account acc1 --instrument EURUSD --direction long --pnl 125.50
  journal trade add --account acc2 --id 42 --group g42 --instrument NQ --direction short --pnl "(300)" --status missed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			accountID, _ := cmd.Flags().GetString("account")
			id, _ := cmd.Flags().GetString("id")
			groupID, _ := cmd.Flags().GetString("group")
			instrument, _ := cmd.Flags().GetString("instrument")
			direction, _ := cmd.Flags().GetString("direction")
			pnlStr, _ := cmd.Flags().GetString("pnl")
			risk, _ := cmd.Flags().GetFloat64("risk")
			status, _ := cmd.Flags().GetString("status")
			master, _ := cmd.Flags().GetBool("master")
			when, _ := cmd.Flags().GetString("time")

			if accountID == "" {
				return errors.NewValidationError("account", accountID, "account is required")
			}
			if instrument == "" {
				return errors.NewValidationError("instrument", instrument, "instrument is required")
			}
			if _, err := app.Store.GetAccount(ctx, accountID); err != nil {
				return errors.Wrap(errors.ErrAccountNotFound, accountID)
			}

			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			execStatus, err := parseStatus(status)
			if err != nil {
				return err
			}

			timestamp := time.Now()
			if when != "" {
				timestamp, err = time.ParseInLocation("2006-01-02 15:04", when, time.Local)
				if err != nil {
					return errors.NewValidationError("time", when, "want YYYY-MM-DD HH:MM")
				}
			}

			if id == "" {
				id = uuid.New().String()
			}

			trade := &models.Trade{
				ID:              id,
				AccountID:       accountID,
				GroupID:         groupID,
				Instrument:      strings.ToUpper(instrument),
				Direction:       dir,
				Timestamp:       timestamp,
				Date:            timestamp.Truncate(24 * time.Hour),
				PnL:             models.ParseAmount(pnlStr),
				RiskAmount:      risk,
				ExecutionStatus: execStatus,
				IsMaster:        master,
			}

			if err := app.Store.SaveTrade(ctx, trade); err != nil {
				return err
			}
			logging.LogTradeRecorded(app.Logger, trade.ID, trade.Instrument, string(trade.Direction), trade.PnL)

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("✓ Trade %s recorded on %s", trade.ID, accountID)
			output.Printf("  %s %s  PnL: %s\n", trade.Instrument, trade.Direction,
				output.PnLText(trade.PnL, format.FormatPnL(trade.PnL, format.ModeUSD, format.PnLOptions{})))
			return nil
		},
	}

	cmd.Flags().String("account", "", "account ID (required)")
	cmd.Flags().String("id", "", "trade ID, reused across copies (default: generated)")
	cmd.Flags().String("group", "", "explicit copy-trade group ID")
	cmd.Flags().String("instrument", "", "instrument symbol (required)")
	cmd.Flags().String("direction", "long", "trade direction: long or short")
	cmd.Flags().String("pnl", "0", "realized PnL in USD")
	cmd.Flags().Float64("risk", 0, "planned risk in USD")
	cmd.Flags().String("status", "valid", "execution status: valid, invalid or missed")
	cmd.Flags().Bool("master", false, "mark as the group's master record")
	cmd.Flags().String("time", "", "entry time as YYYY-MM-DD HH:MM (default: now)")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			filter, err := tradeFilterFromFlags(cmd)
			if err != nil {
				return err
			}

			trades, err := app.Store.GetTrades(ctx, filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades found.")
				return nil
			}

			table := NewTable(output, "Time", "Account", "ID", "Instrument", "Dir", "PnL", "Status", "Role")
			for _, t := range trades {
				role := ""
				if t.IsMaster {
					role = "MASTER"
				} else if t.GroupID != "" {
					role = "COPY"
				}
				table.AddRow(
					FormatDateTime(t.Timestamp),
					t.AccountID,
					TruncateString(t.ID, 12),
					t.Instrument,
					string(t.Direction),
					output.PnLText(t.PnL, format.FormatPnL(t.PnL, format.ModeUSD, format.PnLOptions{})),
					string(t.Status()),
					role,
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d trade(s)", len(trades))
			return nil
		},
	}

	cmd.Flags().String("account", "", "filter by account ID")
	cmd.Flags().String("instrument", "", "filter by instrument")
	cmd.Flags().String("status", "", "filter by execution status")
	cmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Int("limit", 0, "maximum rows")

	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id> <trade-id>",
		Short: "Delete a trade record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Store.DeleteTrade(ctx, args[0], args[1]); err != nil {
				return err
			}
			output.Success("✓ Trade %s deleted from %s", args[1], args[0])
			return nil
		},
	}
}

// tradeFilterFromFlags builds a store filter from the shared list flags.
func tradeFilterFromFlags(cmd *cobra.Command) (store.TradeFilter, error) {
	accountID, _ := cmd.Flags().GetString("account")
	instrument, _ := cmd.Flags().GetString("instrument")
	status, _ := cmd.Flags().GetString("status")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	limit, _ := cmd.Flags().GetInt("limit")

	from, err := parseDateFlag(fromStr)
	if err != nil {
		return store.TradeFilter{}, err
	}
	to, err := parseDateFlag(toStr)
	if err != nil {
		return store.TradeFilter{}, err
	}
	if !to.IsZero() {
		// Inclusive end date
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	var statusFilter string
	if status != "" {
		s, err := parseStatus(status)
		if err != nil {
			return store.TradeFilter{}, err
		}
		statusFilter = string(s)
	}

	return store.TradeFilter{
		AccountID:  accountID,
		Instrument: strings.ToUpper(instrument),
		Status:     statusFilter,
		StartDate:  from,
		EndDate:    to,
		Limit:      limit,
	}, nil
}

func parseDirection(v string) (models.Direction, error) {
	switch strings.ToLower(v) {
	case "long", "l", "buy":
		return models.Long, nil
	case "short", "s", "sell":
		return models.Short, nil
	}
	return "", errors.NewValidationError("direction", v, "want long or short")
}

func parseStatus(v string) (models.ExecutionStatus, error) {
	switch strings.ToLower(v) {
	case "", "valid":
		return models.StatusValid, nil
	case "invalid":
		return models.StatusInvalid, nil
	case "missed":
		return models.StatusMissed, nil
	}
	return "", errors.NewValidationError("status", v, "want valid, invalid or missed")
}
