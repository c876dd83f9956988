package indicator

import (
	"math"
	"math/rand"
)

// randomWalk builds a synthetic OHLC path: close follows a multiplicative
// random walk and high/low sit a random distance outside it.
func randomWalk(seed int64, n int) (high, low, close []float64) {
	r := rand.New(rand.NewSource(seed))
	high = make([]float64, n)
	low = make([]float64, n)
	close = make([]float64, n)

	price := 100.0
	for i := 0; i < n; i++ {
		price *= 1 + r.NormFloat64()*0.01
		close[i] = price
		high[i] = price * (1 + math.Abs(r.NormFloat64()*0.005))
		low[i] = price * (1 - math.Abs(r.NormFloat64()*0.005))
	}
	return high, low, close
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
