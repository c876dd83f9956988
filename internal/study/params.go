package study

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/newthinker/trendkit/internal/core"
)

// Params holds study parameters as decoded from JSON, YAML or the command
// line, so values may arrive as numbers or strings.
type Params map[string]any

// Merge returns a copy of p with overrides applied on top
func (p Params) Merge(overrides Params) Params {
	out := make(Params, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Float reads a float parameter
func (p Params) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, core.Errorf(core.ErrInvalidParameter, "missing parameter %q", key)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, core.Errorf(core.ErrInvalidParameter, "parameter %q: %v", key, err)
	}
	return f, nil
}

// Int reads an integer parameter. Fractional values are rejected.
func (p Params) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, core.Errorf(core.ErrInvalidParameter, "parameter %q must be an integer, got %v", key, f)
	}
	return int(f), nil
}

// Keys returns the parameter names in sorted order
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
