package commands

import (
	"io"

	"akinator-client/internal/akinator/session"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderGuesses(out io.Writer, guesses []session.Guess) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Name", "Description", "Probability"})
	for i, g := range guesses {
		t.AppendRow(table.Row{i + 1, g.Name, g.Description, g.Probability})
	}
	t.Render()
}
