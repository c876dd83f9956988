package study

import (
	"go.uber.org/zap"

	"github.com/newthinker/trendkit/internal/config"
	"github.com/newthinker/trendkit/internal/indicator"
)

// Builtins returns the built-in studies with defaults taken from cfg
func Builtins(cfg config.IndicatorsConfig) []Study {
	return []Study{
		TrueRange{},
		&RMA{Length: cfg.RMA.Length},
		&ATR{Length: cfg.ATR.Length},
		&PSAR{Params: indicator.PSARParams{
			Acceleration: cfg.PSAR.Acceleration,
			Maximum:      cfg.PSAR.Maximum,
		}},
		&Supertrend{Params: indicator.SupertrendParams{
			Length:     cfg.Supertrend.Length,
			Multiplier: cfg.Supertrend.Multiplier,
		}},
	}
}

// NewDefaultEngine creates an engine with every built-in study registered
func NewDefaultEngine(cfg config.IndicatorsConfig, logger *zap.Logger, recorder Recorder) *Engine {
	e := NewEngine(logger, recorder)
	for _, s := range Builtins(cfg) {
		e.Register(s)
	}
	return e
}
