package study

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/newthinker/trendkit/internal/core"
)

// Recorder receives one observation per computation
type Recorder interface {
	RecordComputation(study, status string, bars int, seconds float64)
}

// Engine manages and runs studies
type Engine struct {
	mu       sync.RWMutex
	studies  map[string]Study
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// NewEngine creates a new study engine. Both arguments may be nil.
func NewEngine(logger *zap.Logger, recorder Recorder) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		studies:  make(map[string]Study),
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Register adds a study to the engine
func (e *Engine) Register(s Study) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.studies[s.Name()] = s
}

// Get retrieves a study by name
func (e *Engine) Get(name string) (Study, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.studies[name]
	return s, ok
}

// Names returns the registered study names in sorted order
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.studies))
	for name := range e.studies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered studies sorted by name
func (e *Engine) All() []Study {
	names := e.Names()
	result := make([]Study, 0, len(names))
	for _, name := range names {
		if s, ok := e.Get(name); ok {
			result = append(result, s)
		}
	}
	return result
}

// Compute runs one study over series. params override the study defaults.
func (e *Engine) Compute(ctx context.Context, name string, series core.Series, params Params) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, ok := e.Get(name)
	if !ok {
		return nil, core.Errorf(core.ErrUnknownStudy, "%q", name)
	}

	merged := s.Defaults().Merge(params)
	bars := series.Len()
	start := time.Now()

	out, err := e.compute(s, series, merged)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		e.record(name, "error", bars, elapsed)
		e.logger.Warn("study computation failed",
			zap.String("study", name),
			zap.String("symbol", series.Symbol),
			zap.Int("bars", bars),
			zap.Error(err),
		)
		return nil, err
	}

	out.Study = name
	out.Symbol = series.Symbol
	out.Params = merged
	out.Time = series.Time
	out.ComputedAt = e.now().UTC()

	e.record(name, "ok", bars, elapsed)
	e.logger.Debug("study computed",
		zap.String("study", name),
		zap.String("symbol", series.Symbol),
		zap.Int("bars", bars),
		zap.Float64("seconds", elapsed),
	)

	return out, nil
}

func (e *Engine) compute(s Study, series core.Series, params Params) (*Output, error) {
	for _, f := range s.Inputs() {
		if !series.Has(f) {
			return nil, core.Errorf(core.ErrNoData, "study %s needs column %q", s.Name(), f)
		}
	}
	if series.Time != nil {
		for _, f := range s.Inputs() {
			if n := len(series.Column(f)); n != len(series.Time) {
				return nil, core.Errorf(core.ErrShapeMismatch, "%s has %d values, time has %d",
					f, n, len(series.Time))
			}
		}
	}
	return s.Compute(series, params)
}

func (e *Engine) record(name, status string, bars int, seconds float64) {
	if e.recorder != nil {
		e.recorder.RecordComputation(name, status, bars, seconds)
	}
}

// Request is one unit of a batch run
type Request struct {
	Study  string
	Series core.Series
	Params Params
}

// Result pairs a batch request with its outcome
type Result struct {
	Request *Request
	Output  *Output
	Err     error
}

// ComputeBatch runs independent requests on at most workers goroutines.
// Results keep the order of reqs. A failing request does not stop the
// others; all failures are combined into the returned error.
func (e *Engine) ComputeBatch(ctx context.Context, reqs []Request, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range reqs {
		results[i].Request = &reqs[i]
		g.Go(func() error {
			req := &reqs[i]
			out, err := e.Compute(gctx, req.Study, req.Series, req.Params)
			results[i].Output = out
			results[i].Err = err
			return nil
		})
	}

	// workers only report through results
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	var errs error
	for _, r := range results {
		if r.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s %s: %w", r.Request.Study, r.Request.Series.Symbol, r.Err))
		}
	}

	e.logger.Info("batch finished",
		zap.Int("requests", len(reqs)),
		zap.Int("failed", len(multierr.Errors(errs))),
		zap.Int("workers", workers),
	)

	return results, errs
}
