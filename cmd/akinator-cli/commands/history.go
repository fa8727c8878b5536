package commands

import (
	"fmt"
	"time"

	"akinator-client/internal/components/chrono"
	"akinator-client/lib/gamestore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit *int

func init() {
	historyLimit = historyCmd.Flags().IntP("limit", "n", 20, "How many games to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history --db <path/to/games.db>",
	Short: "Shows the most recently recorded games.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.DB == "" {
			return fmt.Errorf("no database configured, pass --db or set db in the config")
		}

		store, err := gamestore.Open(config.DB, chrono.NewStandardImpl())
		if err != nil {
			return err
		}
		defer store.Close()

		games, err := store.Recent(cmd.Context(), *historyLimit)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Region", "Steps", "Progress", "Won", "Top guess", "Finished"})
		for _, g := range games {
			top := ""
			if len(g.Guesses) > 0 {
				top = g.Guesses[0].Name
			}
			t.AppendRow(table.Row{
				g.ID,
				g.Region,
				g.Steps,
				fmt.Sprintf("%.1f", g.Progress),
				g.Won,
				top,
				g.FinishedAt.Local().Format(time.DateTime),
			})
		}
		t.Render()
		return nil
	},
}
