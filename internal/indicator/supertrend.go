package indicator

import (
	"math"

	"github.com/newthinker/trendkit/internal/core"
)

// SupertrendParams configures the Supertrend
type SupertrendParams struct {
	Length     int     // ATR period
	Multiplier float64 // ATR multiple added to / subtracted from hl2
}

// DefaultSupertrendParams returns the common 10 / 3.0 setting
func DefaultSupertrendParams() SupertrendParams {
	return SupertrendParams{Length: 10, Multiplier: 3.0}
}

// Validate checks the parameters
func (p SupertrendParams) Validate() error {
	if p.Length <= 0 {
		return core.Errorf(core.ErrInvalidParameter, "length must be > 0, got %d", p.Length)
	}
	return positive("multiplier", p.Multiplier)
}

// Supertrend calculates the ATR band trend follower.
//
// Basic bands are hl2 +/- multiplier*ATR. The final lower band may only
// drop while the previous close is at or below it, and the final upper band
// may only rise while the previous close is at or above it. The direction
// flips when the close breaks the previous bar's final band on the other
// side. The value is the final lower band in a bull trend and the final
// upper band in a bear trend.
//
// Bars before the first defined ATR are NaN with a Neutral direction; the
// trend starts Bull there.
func Supertrend(high, low, close []float64, p SupertrendParams) (*Trend, error) {
	if err := sameLength([]string{"high", "low", "close"}, high, low, close); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	atr, err := ATR(high, low, close, p.Length)
	if err != nil {
		return nil, err
	}

	n := len(close)
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := 0; i < n; i++ {
		hl2 := (high[i] + low[i]) / 2
		upper[i] = hl2 + p.Multiplier*atr[i]
		lower[i] = hl2 - p.Multiplier*atr[i]
	}

	out := newTrend(n)

	start := 0
	for start < n && math.IsNaN(atr[start]) {
		start++
	}
	if start == n {
		return out, nil
	}

	finalUpper, finalLower := upper[start], lower[start]
	dir := Bull
	out.Value[start] = finalLower
	out.Direction[start] = dir

	for i := start + 1; i < n; i++ {
		nextLower := lower[i]
		if lower[i] < finalLower && close[i-1] > finalLower {
			nextLower = finalLower
		}
		nextUpper := upper[i]
		if upper[i] > finalUpper && close[i-1] < finalUpper {
			nextUpper = finalUpper
		}

		// breakouts are judged against the bands committed on the previous bar
		if close[i] > finalUpper {
			dir = Bull
		} else if close[i] < finalLower {
			dir = Bear
		}

		finalUpper, finalLower = nextUpper, nextLower

		if dir == Bull {
			out.Value[i] = finalLower
		} else {
			out.Value[i] = finalUpper
		}
		out.Direction[i] = dir
	}

	return out, nil
}
