package commands

import (
	"os"
	"probate-records/lib/records"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func resultTable(result records.ResultSet) table.Writer {
	t := newTable()

	header := table.Row{}
	for _, column := range result.Columns() {
		header = append(header, column)
	}
	t.AppendHeader(header)

	for _, row := range result.Rows() {
		tr := make(table.Row, len(row))
		for i, value := range row {
			tr[i] = value
		}
		t.AppendRow(tr)
	}
	return t
}

// fieldsTable lists the fields of a single record vertically, a record
// usually has too many columns to read side by side.
func fieldsTable(record records.CaseRecord) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, key := range record.Keys() {
		value, _ := record.Get(key)
		t.AppendRow(table.Row{key, value})
	}
	return t
}
