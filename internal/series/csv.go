// Package series reads price series from CSV and writes study outputs as
// CSV or JSON.
package series

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/trendkit/internal/core"
	"github.com/newthinker/trendkit/internal/study"
)

// timeLayouts are tried in order for the time column
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// ReadCSV decodes a header-led CSV into a series. Recognised headers are
// time/date/timestamp, open, high, low, close and volume in any order and
// case; other columns are ignored. Empty cells read as NaN.
func ReadCSV(r io.Reader, symbol string) (core.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return core.Series{}, core.Errorf(core.ErrEmptyInput, "no header row")
	}
	if err != nil {
		return core.Series{}, core.WrapError(core.ErrDecodeFailed, err)
	}

	fields := make([]core.Field, len(header))
	present := make(map[core.Field]bool)
	for i, name := range header {
		f, ok := core.ParseField(strings.TrimPrefix(name, "\ufeff"))
		if !ok || present[f] {
			continue
		}
		fields[i] = f
		present[f] = true
	}
	if len(present) == 0 {
		return core.Series{}, core.Errorf(core.ErrDecodeFailed, "no recognised columns in header %v", header)
	}

	s := core.Series{Symbol: symbol}
	cols := map[core.Field]*[]float64{
		core.FieldOpen:   &s.Open,
		core.FieldHigh:   &s.High,
		core.FieldLow:    &s.Low,
		core.FieldClose:  &s.Close,
		core.FieldVolume: &s.Volume,
	}
	for f, col := range cols {
		if present[f] {
			*col = []float64{}
		}
	}
	if present[core.FieldTime] {
		s.Time = []time.Time{}
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.Series{}, core.WrapError(core.ErrDecodeFailed, err)
		}
		line, _ := cr.FieldPos(0)

		for i, cell := range record {
			if i >= len(fields) || fields[i] == "" {
				continue
			}
			if fields[i] == core.FieldTime {
				ts, err := parseTime(cell)
				if err != nil {
					return core.Series{}, core.Errorf(core.ErrDecodeFailed, "line %d: %v", line, err)
				}
				s.Time = append(s.Time, ts)
				continue
			}
			v, err := parseFloat(cell)
			if err != nil {
				return core.Series{}, core.Errorf(core.ErrDecodeFailed, "line %d column %s: %v", line, fields[i], err)
			}
			col := cols[fields[i]]
			*col = append(*col, v)
		}
	}

	if s.Len() == 0 {
		return core.Series{}, core.Errorf(core.ErrEmptyInput, "no rows")
	}
	return s, nil
}

func parseFloat(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") || strings.EqualFold(cell, "null") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func parseTime(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(cell, 10, 64); err == nil {
		// millisecond timestamps are common in exchange exports
		if secs > 1e11 {
			return time.UnixMilli(secs).UTC(), nil
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", cell)
}

// WriteCSV writes out as CSV with a leading time column when times are known.
// NaN cells are left empty.
func WriteCSV(w io.Writer, out *study.Output) error {
	cw := csv.NewWriter(w)

	withTime := len(out.Time) == out.Len() && out.Len() > 0
	header := make([]string, 0, len(out.Columns)+1)
	if withTime {
		header = append(header, string(core.FieldTime))
	}
	for _, c := range out.Columns {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := 0; i < out.Len(); i++ {
		row = row[:0]
		if withTime {
			row = append(row, out.Time[i].Format(time.RFC3339))
		}
		for _, c := range out.Columns {
			row = append(row, FormatValue(c.Values[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes out as indented JSON
func WriteJSON(w io.Writer, out *study.Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FormatValue renders a value for text output, NaN as empty
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
