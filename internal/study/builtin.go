package study

import (
	"fmt"

	"github.com/newthinker/trendkit/internal/core"
	"github.com/newthinker/trendkit/internal/indicator"
)

// Parameter keys
const (
	ParamLength       = "length"
	ParamMultiplier   = "multiplier"
	ParamAcceleration = "acceleration"
	ParamMaximum      = "maximum"
)

// TrueRange exposes indicator.TrueRange
type TrueRange struct{}

func (TrueRange) Name() string { return "tr" }

func (TrueRange) Description() string { return "True Range" }

func (TrueRange) Inputs() []core.Field {
	return []core.Field{core.FieldHigh, core.FieldLow, core.FieldClose}
}

func (TrueRange) Defaults() Params { return Params{} }

func (TrueRange) Compute(s core.Series, _ Params) (*Output, error) {
	tr, err := indicator.TrueRange(s.High, s.Low, s.Close)
	if err != nil {
		return nil, err
	}
	return &Output{Columns: []Column{{Name: "TR", Values: tr}}}, nil
}

// RMA smooths the close with Wilder's running average
type RMA struct {
	Length int
}

func (r *RMA) Name() string { return "rma" }

func (r *RMA) Description() string {
	return fmt.Sprintf("Wilder's running moving average of close (length %d)", r.Length)
}

func (r *RMA) Inputs() []core.Field { return []core.Field{core.FieldClose} }

func (r *RMA) Defaults() Params { return Params{ParamLength: r.Length} }

func (r *RMA) Compute(s core.Series, params Params) (*Output, error) {
	length, err := params.Int(ParamLength)
	if err != nil {
		return nil, err
	}
	rma, err := indicator.RMA(s.Close, length)
	if err != nil {
		return nil, err
	}
	return &Output{Columns: []Column{{Name: fmt.Sprintf("RMA_%d", length), Values: rma}}}, nil
}

// ATR is the Average True Range
type ATR struct {
	Length int
}

func (a *ATR) Name() string { return "atr" }

func (a *ATR) Description() string {
	return fmt.Sprintf("Average True Range, Wilder smoothing (length %d)", a.Length)
}

func (a *ATR) Inputs() []core.Field {
	return []core.Field{core.FieldHigh, core.FieldLow, core.FieldClose}
}

func (a *ATR) Defaults() Params { return Params{ParamLength: a.Length} }

func (a *ATR) Compute(s core.Series, params Params) (*Output, error) {
	length, err := params.Int(ParamLength)
	if err != nil {
		return nil, err
	}
	atr, err := indicator.ATR(s.High, s.Low, s.Close, length)
	if err != nil {
		return nil, err
	}
	return &Output{Columns: []Column{{Name: fmt.Sprintf("ATR_%d", length), Values: atr}}}, nil
}

// PSAR is the Parabolic Stop and Reverse
type PSAR struct {
	Params indicator.PSARParams
}

func (p *PSAR) Name() string { return "psar" }

func (p *PSAR) Description() string {
	return fmt.Sprintf("Parabolic SAR (step %g, max %g)", p.Params.Acceleration, p.Params.Maximum)
}

func (p *PSAR) Inputs() []core.Field { return []core.Field{core.FieldHigh, core.FieldLow} }

func (p *PSAR) Defaults() Params {
	return Params{ParamAcceleration: p.Params.Acceleration, ParamMaximum: p.Params.Maximum}
}

func (p *PSAR) Compute(s core.Series, params Params) (*Output, error) {
	var cfg indicator.PSARParams
	var err error
	if cfg.Acceleration, err = params.Float(ParamAcceleration); err != nil {
		return nil, err
	}
	if cfg.Maximum, err = params.Float(ParamMaximum); err != nil {
		return nil, err
	}

	trend, err := indicator.PSAR(s.High, s.Low, cfg)
	if err != nil {
		return nil, err
	}
	return &Output{Columns: []Column{
		{Name: "PSAR", Values: trend.Value},
		{Name: "PSAR_DIR", Values: trend.DirectionValues()},
	}}, nil
}

// Supertrend is the ATR band trend follower
type Supertrend struct {
	Params indicator.SupertrendParams
}

func (st *Supertrend) Name() string { return "supertrend" }

func (st *Supertrend) Description() string {
	return fmt.Sprintf("Supertrend (ATR length %d, multiplier %g)", st.Params.Length, st.Params.Multiplier)
}

func (st *Supertrend) Inputs() []core.Field {
	return []core.Field{core.FieldHigh, core.FieldLow, core.FieldClose}
}

func (st *Supertrend) Defaults() Params {
	return Params{ParamLength: st.Params.Length, ParamMultiplier: st.Params.Multiplier}
}

func (st *Supertrend) Compute(s core.Series, params Params) (*Output, error) {
	var cfg indicator.SupertrendParams
	var err error
	if cfg.Length, err = params.Int(ParamLength); err != nil {
		return nil, err
	}
	if cfg.Multiplier, err = params.Float(ParamMultiplier); err != nil {
		return nil, err
	}

	trend, err := indicator.Supertrend(s.High, s.Low, s.Close, cfg)
	if err != nil {
		return nil, err
	}
	return &Output{Columns: []Column{
		{Name: "SUPERTREND", Values: trend.Value},
		{Name: "SUPERTREND_DIR", Values: trend.DirectionValues()},
	}}, nil
}
