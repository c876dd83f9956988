// Package api holds the JSON handlers mounted under /api/v1.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/trendkit/internal/api/response"
	"github.com/newthinker/trendkit/internal/core"
	"github.com/newthinker/trendkit/internal/study"
)

// StudyEngine is the part of study.Engine the handlers use.
type StudyEngine interface {
	All() []study.Study
	Compute(ctx context.Context, name string, series core.Series, params study.Params) (*study.Output, error)
}

// ResultStore is the part of archive.ResultStore the handlers use.
type ResultStore interface {
	Save(ctx context.Context, out *study.Output) (string, error)
	Load(ctx context.Context, key string) (*study.Output, error)
	List(ctx context.Context, studyName, symbol string) ([]string, error)
}

// StudyInfo describes one registered study.
type StudyInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Inputs      []core.Field `json:"inputs"`
	Defaults    study.Params `json:"defaults"`
}

// ComputeRequest is the body of a study computation. Price columns accept
// null for missing bars.
type ComputeRequest struct {
	Symbol   string       `json:"symbol"`
	Interval string       `json:"interval,omitempty"`
	Time     []time.Time  `json:"time,omitempty"`
	Open     []*float64   `json:"open,omitempty"`
	High     []*float64   `json:"high,omitempty"`
	Low      []*float64   `json:"low,omitempty"`
	Close    []*float64   `json:"close,omitempty"`
	Volume   []*float64   `json:"volume,omitempty"`
	Params   study.Params `json:"params,omitempty"`
	Save     bool         `json:"save,omitempty"`
}

// Series converts the request columns into a core.Series.
func (req *ComputeRequest) Series() core.Series {
	return core.Series{
		Symbol:   req.Symbol,
		Interval: req.Interval,
		Time:     req.Time,
		Open:     floats(req.Open),
		High:     floats(req.High),
		Low:      floats(req.Low),
		Close:    floats(req.Close),
		Volume:   floats(req.Volume),
	}
}

func floats(in []*float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	return out
}

// ComputeResponse wraps a result with its archive key when it was saved.
type ComputeResponse struct {
	Key    string        `json:"key,omitempty"`
	Result *study.Output `json:"result"`
}

// StudiesHandler serves the study catalogue and computations.
type StudiesHandler struct {
	engine  StudyEngine
	results ResultStore
	logger  *zap.Logger
}

// NewStudiesHandler creates a new studies handler. results may be nil when
// no archive is configured.
func NewStudiesHandler(engine StudyEngine, results ResultStore, logger *zap.Logger) *StudiesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudiesHandler{engine: engine, results: results, logger: logger}
}

// List returns every registered study with its defaults.
func (h *StudiesHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.engine.All()
	infos := make([]StudyInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, StudyInfo{
			Name:        s.Name(),
			Description: s.Description(),
			Inputs:      s.Inputs(),
			Defaults:    s.Defaults(),
		})
	}
	response.List(w, infos)
}

// Compute runs the study named in the path over the posted series.
func (h *StudiesHandler) Compute(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty request body")
		}
		response.Fail(w, core.WrapError(core.ErrDecodeFailed, err))
		return
	}

	if req.Save && h.results == nil {
		response.Fail(w, core.Errorf(core.ErrConfigMissing, "no result archive configured"))
		return
	}

	out, err := h.engine.Compute(r.Context(), name, req.Series(), req.Params)
	if err != nil {
		response.Fail(w, err)
		return
	}

	resp := ComputeResponse{Result: out}
	if req.Save {
		key, err := h.results.Save(r.Context(), out)
		if err != nil {
			h.logger.Error("saving result failed", zap.String("study", name), zap.Error(err))
			response.Fail(w, err)
			return
		}
		resp.Key = key
	}

	response.JSON(w, http.StatusOK, resp)
}
