package indicator

import (
	"github.com/newthinker/trendkit/internal/core"
)

// RMA calculates Wilder's running moving average, an exponential average
// with alpha = 1/length seeded by the first raw value.
// Returns slice of length: len(values)
//
// A NaN input turns every later output into NaN.
func RMA(values []float64, length int) ([]float64, error) {
	if length <= 0 {
		return nil, core.Errorf(core.ErrInvalidParameter, "length must be > 0, got %d", length)
	}
	if len(values) == 0 {
		return nil, core.Errorf(core.ErrEmptyInput, "values is empty")
	}

	result := make([]float64, len(values))
	divisor := float64(length)

	result[0] = values[0]
	for i := 1; i < len(values); i++ {
		result[i] = result[i-1] + (values[i]-result[i-1])/divisor
	}

	return result, nil
}
