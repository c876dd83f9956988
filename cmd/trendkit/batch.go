package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/newthinker/trendkit/internal/series"
	"github.com/newthinker/trendkit/internal/storage/archive"
	"github.com/newthinker/trendkit/internal/study"
)

var (
	batchParams  []string
	batchWorkers int
	batchSave    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [study] [csv...]",
	Short: "Compute a study over many price series concurrently",
	Long: `Compute one study over several CSV inputs using a bounded worker pool and
print the last value of every output column per symbol. Inputs accept the
same forms as compute --input.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringArrayVarP(&batchParams, "param", "p", nil, "study parameter as key=value (repeatable)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "concurrent workers (default: batch.workers from config)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "save every successful result to the archive")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	params, err := parseParams(batchParams)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	name, inputs := args[0], args[1:]

	reqs := make([]study.Request, 0, len(inputs))
	for _, in := range inputs {
		s, err := readSeries(ctx, rt, in, "")
		if err != nil {
			return err
		}
		reqs = append(reqs, study.Request{Study: name, Series: s, Params: params})
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = rt.cfg.Batch.Workers
	}

	var store *archive.ResultStore
	if batchSave {
		if store, err = rt.openArchive(); err != nil {
			return err
		}
	}

	results, batchErr := rt.engine.ComputeBatch(ctx, reqs, workers)
	if ctx.Err() != nil {
		return batchErr
	}

	keys, saveErr := saveResults(ctx, store, results)
	if rt.metrics != nil {
		rt.metrics.RecordBatch(batchStatus(results))
	}

	renderBatch(results, keys)

	return multierr.Append(batchErr, saveErr)
}

// saveResults archives successful outputs and returns their keys by index
func saveResults(ctx context.Context, store *archive.ResultStore, results []study.Result) ([]string, error) {
	keys := make([]string, len(results))
	if store == nil {
		return keys, nil
	}

	var errs error
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		key, err := store.Save(ctx, r.Output)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("saving %s: %w", r.Request.Series.Symbol, err))
			continue
		}
		keys[i] = key
	}
	return keys, errs
}

func batchStatus(results []study.Result) string {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	switch {
	case failed == 0:
		return "ok"
	case failed == len(results):
		return "failed"
	default:
		return "partial"
	}
}

func renderBatch(results []study.Result, keys []string) {
	t := newTable(os.Stdout)
	t.SetTitle("batch results")
	t.AppendHeader(table.Row{"symbol", "bars", "last", "saved", "error"})

	for i, r := range results {
		bars := r.Request.Series.Len()
		if r.Err != nil {
			t.AppendRow(table.Row{r.Request.Series.Symbol, bars, "", "", r.Err.Error()})
			continue
		}
		last := r.Output.Last()
		cells := make([]string, 0, len(r.Output.Columns))
		for _, c := range r.Output.Columns {
			cells = append(cells, fmt.Sprintf("%s=%s", c.Name, series.FormatValue(last[c.Name])))
		}
		t.AppendRow(table.Row{r.Request.Series.Symbol, bars, strings.Join(cells, " "), keys[i], ""})
	}

	t.Render()
}
