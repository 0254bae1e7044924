// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradejournal/internal/errors"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// addNoteCommands adds journal note commands.
func addNoteCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Journal notes",
		Long:  "Attach free-form notes to trades or trading days.",
	}

	cmd.AddCommand(newNoteAddCmd(app))
	cmd.AddCommand(newNoteListCmd(app))

	rootCmd.AddCommand(cmd)
}

func newNoteAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a note",
		Example: `  journal note add "Chased entries after lunch, stop that."
  journal note add "Good patience on the NQ short" --trade 42 --tags discipline,entries`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			tradeID, _ := cmd.Flags().GetString("trade")
			tagsStr, _ := cmd.Flags().GetString("tags")

			var tags []string
			for _, t := range strings.Split(tagsStr, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}

			now := time.Now()
			note := &models.Note{
				ID:        uuid.New().String(),
				TradeID:   tradeID,
				Date:      now,
				Content:   args[0],
				Tags:      tags,
				CreatedAt: now,
				UpdatedAt: now,
			}

			if err := app.Store.SaveNote(ctx, note); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(note)
			}
			output.Success("✓ Note saved")
			return nil
		},
	}

	cmd.Flags().String("trade", "", "trade ID this note refers to")
	cmd.Flags().String("tags", "", "comma-separated tags")

	return cmd
}

func newNoteListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			tradeID, _ := cmd.Flags().GetString("trade")
			limit, _ := cmd.Flags().GetInt("limit")

			notes, err := app.Store.GetNotes(ctx, store.NoteFilter{
				TradeID: tradeID,
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(notes)
			}
			if len(notes) == 0 {
				output.Info("No notes found.")
				return nil
			}

			for _, n := range notes {
				header := FormatDate(n.Date)
				if n.TradeID != "" {
					header += "  trade " + n.TradeID
				}
				if len(n.Tags) > 0 {
					header += "  [" + strings.Join(n.Tags, ", ") + "]"
				}
				output.Bold("%s", header)
				output.Printf("  %s\n", n.Content)
				output.Println()
			}
			return nil
		},
	}

	cmd.Flags().String("trade", "", "filter by trade ID")
	cmd.Flags().Int("limit", 20, "maximum notes")

	return cmd
}
