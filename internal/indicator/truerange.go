package indicator

import "math"

// TrueRange calculates the per-bar true range: the largest of the bar's own
// range and its distance from the previous close. The first bar has no
// previous close and uses high-low.
func TrueRange(high, low, close []float64) ([]float64, error) {
	if err := sameLength([]string{"high", "low", "close"}, high, low, close); err != nil {
		return nil, err
	}

	result := make([]float64, len(high))
	result[0] = high[0] - low[0]

	for i := 1; i < len(high); i++ {
		prevClose := close[i-1]
		result[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-prevClose), math.Abs(low[i]-prevClose)))
	}

	return result, nil
}
