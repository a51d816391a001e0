package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// sheet is one printable grid, either a class of standings or the rule list.
type sheet struct {
	title  string
	header table.Row
	rows   []table.Row
	right  map[int]bool // 1-based column numbers
}

func newSheet(title string, header ...any) *sheet {
	return &sheet{title: title, header: header, right: map[int]bool{}}
}

func (s *sheet) alignRight(cols ...int) {
	for _, c := range cols {
		s.right[c] = true
	}
}

func (s *sheet) add(cells ...any) {
	s.rows = append(s.rows, cells)
}

// render draws the sheet as a rounded table under its title. CSV output is
// the bare header and rows so it can be piped into a spreadsheet.
func (s *sheet) render(csv bool) string {
	tw := table.NewWriter()
	tw.AppendHeader(s.header)
	tw.AppendRows(s.rows)
	if csv {
		return tw.RenderCSV()
	}

	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(s.title)
	configs := make([]table.ColumnConfig, 0, len(s.right))
	for col := range s.right {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
