package indicator

import (
	"math"

	"github.com/newthinker/trendkit/internal/core"
)

// PSARParams configures the Parabolic SAR
type PSARParams struct {
	Acceleration float64 // step added to the acceleration factor on each new extreme
	Maximum      float64 // cap for the acceleration factor
}

// DefaultPSARParams returns Wilder's 0.02 / 0.2
func DefaultPSARParams() PSARParams {
	return PSARParams{Acceleration: 0.02, Maximum: 0.2}
}

// Validate checks the parameters
func (p PSARParams) Validate() error {
	if err := positive("acceleration", p.Acceleration); err != nil {
		return err
	}
	if err := positive("maximum", p.Maximum); err != nil {
		return err
	}
	if p.Acceleration > p.Maximum {
		return core.Errorf(core.ErrInvalidParameter,
			"acceleration %v exceeds maximum %v", p.Acceleration, p.Maximum)
	}
	return nil
}

// sarState is the trend state carried from one bar to the next
type sarState struct {
	bull bool
	ep   float64 // extreme point since the last reversal
	af   float64 // acceleration factor
}

// PSAR calculates the Parabolic Stop and Reverse.
//
// Index 0 never has a value. The trend starts at index 1: bullish when the
// second bar made a higher high or a higher low, bearish otherwise. With
// fewer than two bars every value is NaN and every direction Neutral.
func PSAR(high, low []float64, p PSARParams) (*Trend, error) {
	if err := sameLength([]string{"high", "low"}, high, low); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(high)
	out := newTrend(n)
	if n < 2 {
		return out, nil
	}

	var st sarState
	if high[1] > high[0] || low[1] > low[0] {
		st = sarState{bull: true, ep: high[1], af: p.Acceleration}
		out.Value[1] = low[0]
	} else {
		st = sarState{bull: false, ep: low[1], af: p.Acceleration}
		out.Value[1] = high[0]
	}
	out.Direction[1] = st.direction()

	for i := 2; i < n; i++ {
		prev := out.Value[i-1]
		sar := prev + st.af*(st.ep-prev)

		if st.bull {
			if sar > low[i] || sar > low[i-1] {
				st.bull = false
				sar = st.ep
				st.ep = low[i]
				st.af = p.Acceleration
			} else {
				if high[i] > st.ep {
					st.ep = high[i]
					st.af = math.Min(st.af+p.Acceleration, p.Maximum)
				}
				// the stop may not sit inside the prior two bars
				sar = lowest(sar, low[i-1], low[i-2])
			}
		} else {
			if sar < high[i] || sar < high[i-1] {
				st.bull = true
				sar = st.ep
				st.ep = high[i]
				st.af = p.Acceleration
			} else {
				if low[i] < st.ep {
					st.ep = low[i]
					st.af = math.Min(st.af+p.Acceleration, p.Maximum)
				}
				sar = highest(sar, high[i-1], high[i-2])
			}
		}

		out.Value[i] = sar
		out.Direction[i] = st.direction()
	}

	return out, nil
}

func (s sarState) direction() Direction {
	if s.bull {
		return Bull
	}
	return Bear
}
