package indicator

import (
	"math"

	"github.com/newthinker/trendkit/internal/core"
)

// Direction is the trend state reported for each bar
type Direction int8

const (
	Bear    Direction = -1
	Neutral Direction = 0 // leading bars with no resolved trend
	Bull    Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Bull:
		return "bull"
	case Bear:
		return "bear"
	}
	return "neutral"
}

// Trend is the output of a stop-and-reverse style indicator: one value and
// one direction per input bar.
type Trend struct {
	Value     []float64
	Direction []Direction
}

func newTrend(n int) *Trend {
	t := &Trend{
		Value:     make([]float64, n),
		Direction: make([]Direction, n),
	}
	for i := range t.Value {
		t.Value[i] = math.NaN()
	}
	return t
}

// Len returns the number of bars
func (t *Trend) Len() int {
	return len(t.Value)
}

// DirectionValues returns the directions as float64 for tabular output
func (t *Trend) DirectionValues() []float64 {
	out := make([]float64, len(t.Direction))
	for i, d := range t.Direction {
		out[i] = float64(d)
	}
	return out
}

// sameLength checks that every named series has the length of the first one
// and that they are not empty.
func sameLength(names []string, series ...[]float64) error {
	n := len(series[0])
	for i, s := range series[1:] {
		if len(s) != n {
			return core.Errorf(core.ErrShapeMismatch, "%s has %d values, %s has %d",
				names[0], n, names[i+1], len(s))
		}
	}
	if n == 0 {
		return core.Errorf(core.ErrEmptyInput, "%s is empty", names[0])
	}
	return nil
}

// positive rejects zero, negative and NaN parameters
func positive(name string, v float64) error {
	if !(v > 0) {
		return core.Errorf(core.ErrInvalidParameter, "%s must be > 0, got %v", name, v)
	}
	return nil
}

// lowest returns the smallest of vals, walking left to right and replacing
// the candidate only when a later value is strictly smaller. A NaN operand
// never replaces a number and a NaN candidate is never replaced.
func lowest(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// highest is the mirror of lowest
func highest(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
