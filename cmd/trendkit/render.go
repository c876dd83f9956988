package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/newthinker/trendkit/internal/series"
	"github.com/newthinker/trendkit/internal/study"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

// render writes out in format. tail limits table output to the last rows;
// zero shows everything.
func render(w io.Writer, out *study.Output, format string, tail int) error {
	switch strings.ToLower(format) {
	case formatTable, "":
		renderTable(w, out, tail)
		return nil
	case formatCSV:
		return series.WriteCSV(w, out)
	case formatJSON:
		return series.WriteJSON(w, out)
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func renderTable(w io.Writer, out *study.Output, tail int) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s %s %s", out.Symbol, out.Study, formatParams(out.Params)))

	withTime := len(out.Time) == out.Len()
	header := table.Row{"#"}
	if withTime {
		header = append(header, "time")
	}
	for _, c := range out.Columns {
		header = append(header, c.Name)
	}
	t.AppendHeader(header)

	start := 0
	if tail > 0 && out.Len() > tail {
		start = out.Len() - tail
	}
	for i := start; i < out.Len(); i++ {
		row := table.Row{i}
		if withTime {
			row = append(row, out.Time[i].Format("2006-01-02 15:04"))
		}
		for _, c := range out.Columns {
			row = append(row, series.FormatValue(c.Values[i]))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func formatParams(p study.Params) string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p))
	for _, k := range p.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
