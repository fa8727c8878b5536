package commands

import (
	"akinator-client/internal/akinator/region"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(regionsCmd)
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Lists the supported regions.",
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Region", "Language", "Theme", "Game mode", "Endpoint"})
		for _, r := range region.All() {
			t.AppendRow(table.Row{r, r.Language(), r.Theme(), r.GameMode(), r.BaseURL()})
		}
		t.Render()
	},
}
