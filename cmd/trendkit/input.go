package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/newthinker/trendkit/internal/core"
	"github.com/newthinker/trendkit/internal/series"
	"github.com/newthinker/trendkit/internal/study"
)

const archiveScheme = "archive:"

// readSeries loads a CSV from a file, from stdin ("-") or from the archive
// ("archive:<key>"). The symbol defaults to the file name.
func readSeries(ctx context.Context, rt *runtime, source, symbol string) (core.Series, error) {
	if key, ok := strings.CutPrefix(source, archiveScheme); ok {
		store, err := rt.openArchive()
		if err != nil {
			return core.Series{}, err
		}
		return store.LoadSeries(ctx, key, symbol)
	}

	var r io.Reader
	if source == "-" {
		r = os.Stdin
		if symbol == "" {
			symbol = "stdin"
		}
	} else {
		f, err := os.Open(source)
		if err != nil {
			return core.Series{}, err
		}
		defer f.Close()
		r = f
		if symbol == "" {
			symbol = symbolFromPath(source)
		}
	}

	s, err := series.ReadCSV(r, symbol)
	if err != nil {
		return core.Series{}, fmt.Errorf("%s: %w", source, err)
	}
	return s, nil
}

func symbolFromPath(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseParams turns repeated k=v flags into study params. Values stay
// strings and are coerced by the study.
func parseParams(pairs []string) (study.Params, error) {
	params := study.Params{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, core.Errorf(core.ErrInvalidParameter, "param %q is not key=value", pair)
		}
		params[k] = strings.TrimSpace(v)
	}
	return params, nil
}
