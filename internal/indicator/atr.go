package indicator

import "github.com/newthinker/trendkit/internal/core"

// DefaultATRLength is Wilder's original period
const DefaultATRLength = 14

// ATR calculates the Average True Range: the true range smoothed with RMA.
func ATR(high, low, close []float64, length int) ([]float64, error) {
	if length <= 0 {
		return nil, core.Errorf(core.ErrInvalidParameter, "length must be > 0, got %d", length)
	}

	tr, err := TrueRange(high, low, close)
	if err != nil {
		return nil, err
	}

	return RMA(tr, length)
}
