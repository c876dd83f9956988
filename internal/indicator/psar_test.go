package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/trendkit/internal/core"
)

func TestPSAR_RisingSeriesNeverFlips(t *testing.T) {
	high := []float64{10, 11, 12, 13, 14}
	low := []float64{8, 9, 10, 11, 12}

	out, err := PSAR(high, low, DefaultPSARParams())
	require.NoError(t, err)
	require.Equal(t, 5, out.Len())

	assert.True(t, math.IsNaN(out.Value[0]), "index 0 has no value")
	assert.Equal(t, Neutral, out.Direction[0])
	for i := 1; i < out.Len(); i++ {
		assert.Equal(t, Bull, out.Direction[i], "direction[%d]", i)
		assert.LessOrEqual(t, out.Value[i], low[i], "sar below the bar at %d", i)
	}
}

func TestPSAR_ReversalDetected(t *testing.T) {
	high := []float64{10, 11, 12, 13, 14, 13, 12, 11, 10}
	low := []float64{8, 9, 10, 11, 12, 11, 10, 9, 8}

	out, err := PSAR(high, low, DefaultPSARParams())
	require.NoError(t, err)

	assert.Equal(t, []Direction{Neutral, Bull, Bull, Bull, Bull, Bull, Bull, Bear, Bear}, out.Direction)

	// [1] = low[0]
	// [2] = 8.06 clamped to low[0] = 8
	// [3] = 8 + 0.04*(12-8) = 8.16
	// [4] = 8.16 + 0.06*(13-8.16) = 8.4504
	// [7] flips: the old extreme 14 becomes the stop
	// [8] = 14 + 0.02*(9-14) = 13.9
	assert.Equal(t, 8.0, out.Value[1])
	assert.Equal(t, 8.0, out.Value[2])
	assert.InDelta(t, 8.16, out.Value[3], 1e-12)
	assert.InDelta(t, 8.4504, out.Value[4], 1e-12)
	assert.Equal(t, 14.0, out.Value[7])
	assert.InDelta(t, 13.9, out.Value[8], 1e-12)
}

func TestPSAR_BearStartClampsToPriorHighs(t *testing.T) {
	high := []float64{10, 9, 8}
	low := []float64{8, 7, 6}

	out, err := PSAR(high, low, DefaultPSARParams())
	require.NoError(t, err)

	assert.Equal(t, []Direction{Neutral, Bear, Bear}, out.Direction)
	assert.Equal(t, 10.0, out.Value[1])
	// projected 9.94 sits inside the bar two back, so it is pushed up to high[0]
	assert.Equal(t, 10.0, out.Value[2])
}

func TestPSAR_AccelerationCapped(t *testing.T) {
	high := []float64{10, 20, 30, 40, 50, 60, 70}
	low := []float64{9, 19, 29, 39, 49, 59, 69}

	p := PSARParams{Acceleration: 0.1, Maximum: 0.3}
	out, err := PSAR(high, low, p)
	require.NoError(t, err)

	// [2] = 10.1 clamped to low[0]
	// [3] = 9 + 0.2*(30-9)
	// [4..] factor capped at 0.3
	want := []float64{9, 9, 13.2, 21.24, 29.868, 38.9076}
	for i, w := range want {
		assert.Equal(t, Bull, out.Direction[i+1], "direction[%d]", i+1)
		assert.InDelta(t, w, out.Value[i+1], 1e-9, "value[%d]", i+1)
	}

	// every bar makes a new high, so the prior extreme is high[i-1]
	factors := map[int]float64{3: 0.2, 4: 0.3, 5: 0.3, 6: 0.3}
	for i, af := range factors {
		gap := high[i-1] - out.Value[i-1]
		step := out.Value[i] - out.Value[i-1]
		assert.InDelta(t, af*gap, step, 1e-9, "step at %d", i)
	}
}

func TestPSAR_TooShort(t *testing.T) {
	out, err := PSAR([]float64{10}, []float64{8}, DefaultPSARParams())
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	assert.True(t, math.IsNaN(out.Value[0]))
	assert.Equal(t, Neutral, out.Direction[0])
}

func TestPSAR_NaNBarCarriesState(t *testing.T) {
	nan := math.NaN()
	high := []float64{10, 11, nan, 13, 14}
	low := []float64{8, 9, nan, 11, 12}

	out, err := PSAR(high, low, DefaultPSARParams())
	require.NoError(t, err)

	for i := 1; i < out.Len(); i++ {
		assert.Equal(t, Bull, out.Direction[i], "direction[%d]", i)
		assert.False(t, math.IsNaN(out.Value[i]), "value[%d] should carry forward", i)
	}
	assert.Equal(t, 8.0, out.Value[2])
	assert.InDelta(t, 8.06, out.Value[3], 1e-12)
}

func TestPSAR_InvalidInput(t *testing.T) {
	ok := []float64{1, 2, 3}

	tests := []struct {
		name      string
		high, low []float64
		params    PSARParams
		want      error
	}{
		{"length mismatch", ok, []float64{1, 2}, DefaultPSARParams(), core.ErrShapeMismatch},
		{"empty", []float64{}, []float64{}, DefaultPSARParams(), core.ErrEmptyInput},
		{"zero acceleration", ok, ok, PSARParams{Acceleration: 0, Maximum: 0.2}, core.ErrInvalidParameter},
		{"negative maximum", ok, ok, PSARParams{Acceleration: 0.02, Maximum: -1}, core.ErrInvalidParameter},
		{"acceleration above maximum", ok, ok, PSARParams{Acceleration: 0.3, Maximum: 0.2}, core.ErrInvalidParameter},
		{"NaN acceleration", ok, ok, PSARParams{Acceleration: math.NaN(), Maximum: 0.2}, core.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := PSAR(tt.high, tt.low, tt.params)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestPSAR_RandomWalkShape(t *testing.T) {
	high, low, _ := randomWalk(42, 200)

	out, err := PSAR(high, low, DefaultPSARParams())
	require.NoError(t, err)
	require.Len(t, out.Value, 200)
	require.Len(t, out.Direction, 200)

	for i := 1; i < 200; i++ {
		d := out.Direction[i]
		assert.True(t, d == Bull || d == Bear, "direction[%d] = %d", i, d)
	}
}
