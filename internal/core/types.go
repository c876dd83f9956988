package core

import (
	"math"
	"strings"
	"time"
)

// OHLCV represents a candlestick/bar
type OHLCV struct {
	Symbol   string
	Interval string // "1m", "5m", "1d"
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Time     time.Time
}

// Field names one column of a price series
type Field string

const (
	FieldTime   Field = "time"
	FieldOpen   Field = "open"
	FieldHigh   Field = "high"
	FieldLow    Field = "low"
	FieldClose  Field = "close"
	FieldVolume Field = "volume"
)

// ParseField maps a column header to a Field. Common aliases for the time
// column are accepted.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "time", "date", "datetime", "timestamp":
		return FieldTime, true
	case "open", "o":
		return FieldOpen, true
	case "high", "h":
		return FieldHigh, true
	case "low", "l":
		return FieldLow, true
	case "close", "c", "adj_close":
		return FieldClose, true
	case "volume", "vol", "v":
		return FieldVolume, true
	}
	return "", false
}

// Series is a column-oriented, index-aligned price history. Columns that
// were not supplied are nil.
type Series struct {
	Symbol   string
	Interval string
	Time     []time.Time
	Open     []float64
	High     []float64
	Low      []float64
	Close    []float64
	Volume   []float64
}

// SeriesFromBars converts bars into a column-oriented series
func SeriesFromBars(bars []OHLCV) Series {
	s := Series{
		Time:   make([]time.Time, len(bars)),
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
		Volume: make([]float64, len(bars)),
	}
	if len(bars) > 0 {
		s.Symbol = bars[0].Symbol
		s.Interval = bars[0].Interval
	}
	for i, b := range bars {
		s.Time[i] = b.Time
		s.Open[i] = b.Open
		s.High[i] = b.High
		s.Low[i] = b.Low
		s.Close[i] = b.Close
		s.Volume[i] = b.Volume
	}
	return s
}

// Len returns the number of bars, taken from the longest column.
func (s Series) Len() int {
	n := len(s.Time)
	for _, col := range [][]float64{s.Open, s.High, s.Low, s.Close, s.Volume} {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

// Column returns the values for a numeric field
func (s Series) Column(f Field) []float64 {
	switch f {
	case FieldOpen:
		return s.Open
	case FieldHigh:
		return s.High
	case FieldLow:
		return s.Low
	case FieldClose:
		return s.Close
	case FieldVolume:
		return s.Volume
	}
	return nil
}

// Has reports whether a field was supplied
func (s Series) Has(f Field) bool {
	if f == FieldTime {
		return s.Time != nil
	}
	return s.Column(f) != nil
}

// Bar returns the i-th bar. Missing numeric columns read as NaN.
func (s Series) Bar(i int) OHLCV {
	at := func(col []float64) float64 {
		if i < len(col) {
			return col[i]
		}
		return math.NaN()
	}
	bar := OHLCV{
		Symbol:   s.Symbol,
		Interval: s.Interval,
		Open:     at(s.Open),
		High:     at(s.High),
		Low:      at(s.Low),
		Close:    at(s.Close),
		Volume:   at(s.Volume),
	}
	if i < len(s.Time) {
		bar.Time = s.Time[i]
	}
	return bar
}
