package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable lays rows out under headers. Columns whose cells are all
// integers (scene ordinals, counts) are right-aligned; everything else,
// headers included, stays left-aligned. Short rows are padded with blanks.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		cells := make(table.Row, len(headers))
		for i := range headers {
			cells[i] = ""
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		tw.AppendRow(cells)
	}

	var configs []table.ColumnConfig
	for i := range headers {
		if !numericColumn(rows, i) {
			continue
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// numericColumn reports whether the column holds at least one value and
// nothing but integers. Blank cells are ignored.
func numericColumn(rows [][]string, column int) bool {
	numeric := false
	for _, row := range rows {
		if column >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[column])
		if cell == "" {
			continue
		}
		if _, err := strconv.Atoi(cell); err != nil {
			return false
		}
		numeric = true
	}
	return numeric
}
