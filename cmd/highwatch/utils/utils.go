package utils

import (
	"io"

	"highwatch/internal/table"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(out io.Writer) prettytable.Writer {
	t := prettytable.NewWriter()
	t.SetStyle(prettytable.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// RenderTable prints at most `limit` rows of tbl, limit <= 0 prints every row.
func RenderTable(out io.Writer, tbl *table.Table, limit int) {
	t := NewTable(out)

	header := make(prettytable.Row, len(tbl.Columns))
	for i, c := range tbl.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	count := len(tbl.Rows)
	if limit > 0 && limit < count {
		count = limit
	}
	for i := 0; i < count; i++ {
		record := tbl.Record(i)
		row := make(prettytable.Row, len(record))
		for j, cell := range record {
			row[j] = cell
		}
		t.AppendRow(row)
	}
	if count < len(tbl.Rows) {
		t.AppendFooter(prettytable.Row{"…", len(tbl.Rows) - count, "more rows"})
	}
	t.Render()
}
