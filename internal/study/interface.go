package study

import (
	"github.com/newthinker/trendkit/internal/core"
)

// Study is a named, parameterised indicator over a price series
type Study interface {
	Name() string
	Description() string
	// Inputs lists the series columns Compute reads
	Inputs() []core.Field
	// Defaults returns the parameters used when a request omits them
	Defaults() Params
	Compute(series core.Series, params Params) (*Output, error)
}
