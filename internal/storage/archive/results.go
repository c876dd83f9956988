package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newthinker/trendkit/internal/core"
	"github.com/newthinker/trendkit/internal/series"
	"github.com/newthinker/trendkit/internal/study"
)

const resultsPrefix = "results"

// SaveRecorder receives a count of archived results
type SaveRecorder interface {
	RecordResultSaved(backend string)
}

// ResultStore archives study outputs as JSON documents on a Storage
type ResultStore struct {
	storage  Storage
	logger   *zap.Logger
	recorder SaveRecorder
	newID    func() string
}

// NewResultStore wraps storage. logger and recorder may be nil.
func NewResultStore(storage Storage, logger *zap.Logger, recorder SaveRecorder) *ResultStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultStore{
		storage:  storage,
		logger:   logger,
		recorder: recorder,
		newID:    uuid.NewString,
	}
}

// Storage returns the underlying backend
func (r *ResultStore) Storage() Storage {
	return r.storage
}

// Key builds the archive key for a new result of study on symbol
func (r *ResultStore) Key(studyName, symbol string) string {
	return path.Join(resultsPrefix, segment(studyName), segment(symbol), r.newID()+".json")
}

// segment makes a name safe for use as a single key component
func segment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "_"
	}
	return strings.NewReplacer("/", "-", "\\", "-", "..", "-").Replace(name)
}

// Save writes out and returns its key
func (r *ResultStore) Save(ctx context.Context, out *study.Output) (string, error) {
	if out == nil {
		return "", core.Errorf(core.ErrInvalidParameter, "nil output")
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	key := r.Key(out.Study, out.Symbol)
	if err := r.storage.Write(ctx, key, data); err != nil {
		return "", core.WrapError(core.ErrStorageFailed, err)
	}

	if r.recorder != nil {
		r.recorder.RecordResultSaved(r.storage.Backend())
	}
	r.logger.Debug("result saved",
		zap.String("key", key),
		zap.String("backend", r.storage.Backend()),
		zap.Int("bytes", len(data)),
	)
	return key, nil
}

// Load reads the result stored under key
func (r *ResultStore) Load(ctx context.Context, key string) (*study.Output, error) {
	data, err := r.storage.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	var out study.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, core.WrapError(core.ErrDecodeFailed, fmt.Errorf("%s: %w", key, err))
	}
	return &out, nil
}

// List returns the keys of stored results, narrowed by study and then symbol
// when they are non-empty.
func (r *ResultStore) List(ctx context.Context, studyName, symbol string) ([]string, error) {
	prefix := resultsPrefix
	if studyName != "" {
		prefix = path.Join(prefix, segment(studyName))
		if symbol != "" {
			prefix = path.Join(prefix, segment(symbol))
		}
	}

	keys, err := r.storage.List(ctx, prefix+"/")
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}

	filtered := keys[:0]
	for _, k := range keys {
		if !strings.HasSuffix(k, ".json") {
			continue
		}
		// studyName empty but symbol given: match on the symbol component
		if studyName == "" && symbol != "" {
			parts := strings.Split(k, "/")
			if len(parts) < 3 || parts[2] != segment(symbol) {
				continue
			}
		}
		filtered = append(filtered, k)
	}
	return filtered, nil
}

// LoadSeries reads a CSV price series stored under key. The symbol defaults
// to the file name without extension.
func (r *ResultStore) LoadSeries(ctx context.Context, key, symbol string) (core.Series, error) {
	data, err := r.storage.Read(ctx, key)
	if err != nil {
		return core.Series{}, err
	}
	if symbol == "" {
		symbol = strings.TrimSuffix(path.Base(key), path.Ext(key))
	}
	return series.ReadCSV(bytes.NewReader(data), symbol)
}
