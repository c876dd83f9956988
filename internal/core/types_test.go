package core

import (
	"math"
	"testing"
	"time"
)

func TestSeriesFromBars(t *testing.T) {
	now := time.Now()
	bars := []OHLCV{
		{Symbol: "AAPL", Interval: "1d", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100, Time: now},
		{Symbol: "AAPL", Interval: "1d", Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 200, Time: now.Add(24 * time.Hour)},
	}

	s := SeriesFromBars(bars)

	if s.Symbol != "AAPL" || s.Interval != "1d" {
		t.Errorf("labels not copied: %q %q", s.Symbol, s.Interval)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 bars, got %d", s.Len())
	}
	if s.High[1] != 3 || s.Close[0] != 1.5 || s.Volume[1] != 200 {
		t.Errorf("columns not aligned: %+v", s)
	}
	if got := s.Bar(1); got.Low != 1 || !got.Time.Equal(bars[1].Time) {
		t.Errorf("Bar(1) = %+v", got)
	}
}

func TestSeries_HasAndColumn(t *testing.T) {
	s := Series{High: []float64{1}, Low: []float64{0}}

	if !s.Has(FieldHigh) || !s.Has(FieldLow) {
		t.Error("expected high and low present")
	}
	if s.Has(FieldClose) || s.Has(FieldTime) {
		t.Error("expected close and time absent")
	}
	if s.Column(FieldTime) != nil {
		t.Error("time is not a numeric column")
	}
	if !math.IsNaN(s.Bar(0).Close) {
		t.Error("missing close should read as NaN")
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want Field
		ok   bool
	}{
		{"High", FieldHigh, true},
		{" close ", FieldClose, true},
		{"Date", FieldTime, true},
		{"timestamp", FieldTime, true},
		{"vol", FieldVolume, true},
		{"symbol", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseField(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseField(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
