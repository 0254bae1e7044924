// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/errors"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// addAccountCommands adds account management commands.
func addAccountCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
		Long:  "Create and list brokerage accounts owning trade records.",
	}

	cmd.AddCommand(newAccountAddCmd(app))
	cmd.AddCommand(newAccountListCmd(app))

	rootCmd.AddCommand(cmd)
}

func newAccountAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add an account",
		Long: `Add a brokerage account.

An account whose name contains "hlavní" (case-insensitive) is treated as
the main account and its records win master selection in copy-trade groups.`,
		Example: `  journal account add acc1 "FTMO hlavní" --balance 10000 --type Funded
  journal account add acc2 "Apex copy" --balance 50000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			balance, _ := cmd.Flags().GetFloat64("balance")
			accType, _ := cmd.Flags().GetString("type")
			phase, _ := cmd.Flags().GetString("phase")

			parsedType, err := parseAccountType(accType)
			if err != nil {
				return err
			}

			account := &models.Account{
				ID:             args[0],
				Name:           args[1],
				InitialBalance: balance,
				Status:         models.AccountActive,
				Type:           parsedType,
				Phase:          phase,
			}

			if err := app.Store.SaveAccount(ctx, account); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(account)
			}
			output.Success("✓ Account %s (%s) created", account.ID, account.Name)
			if account.IsMain() {
				output.Info("  Marked as main account for master selection")
			}
			return nil
		},
	}

	cmd.Flags().Float64("balance", 0, "initial balance in USD")
	cmd.Flags().String("type", "Live", "account type: Live, Funded or Demo")
	cmd.Flags().String("phase", "", "evaluation phase label")

	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			status, _ := cmd.Flags().GetString("status")
			accounts, err := app.Store.GetAccounts(ctx, store.AccountFilter{Status: status})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(accounts)
			}
			if len(accounts) == 0 {
				output.Info("No accounts found.")
				return nil
			}

			table := NewTable(output, "ID", "Name", "Type", "Status", "Balance", "Main")
			for _, a := range accounts {
				main := ""
				if a.IsMain() {
					main = output.Cyan("★")
				}
				table.AddRow(
					a.ID,
					TruncateString(a.Name, 30),
					string(a.Type),
					string(a.Status),
					fmt.Sprintf("%.2f", a.InitialBalance),
					main,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("status", "", "filter by status: Active or Inactive")

	return cmd
}

func parseAccountType(v string) (models.AccountType, error) {
	switch strings.ToLower(v) {
	case "", "live":
		return models.AccountLive, nil
	case "funded":
		return models.AccountFunded, nil
	case "demo":
		return models.AccountDemo, nil
	}
	return "", errors.NewValidationError("type", v, "want Live, Funded or Demo")
}
