package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	computeInput  string
	computeSymbol string
	computeParams []string
	computeFormat string
	computeTail   int
	computeSave   bool
)

var computeCmd = &cobra.Command{
	Use:   "compute [study]",
	Short: "Compute a study over one price series",
	Long: `Compute a study over a CSV price series and print the result.

The input is a file path, "-" for stdin, or "archive:<key>" for a CSV stored
in the configured archive. Parameters override the configured defaults:

  trendkit compute supertrend --input aapl.csv --param length=7 --param multiplier=2`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringVarP(&computeInput, "input", "i", "", "CSV input (required)")
	computeCmd.Flags().StringVar(&computeSymbol, "symbol", "", "symbol name (default: input file name)")
	computeCmd.Flags().StringArrayVarP(&computeParams, "param", "p", nil, "study parameter as key=value (repeatable)")
	computeCmd.Flags().StringVarP(&computeFormat, "format", "f", formatTable, "output format: table, csv or json")
	computeCmd.Flags().IntVar(&computeTail, "tail", 20, "rows to show in table output, 0 for all")
	computeCmd.Flags().BoolVar(&computeSave, "save", false, "save the result to the archive")

	computeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	params, err := parseParams(computeParams)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := readSeries(ctx, rt, computeInput, computeSymbol)
	if err != nil {
		return err
	}

	out, err := rt.engine.Compute(ctx, args[0], s, params)
	if err != nil {
		return err
	}

	if err := render(os.Stdout, out, computeFormat, computeTail); err != nil {
		return err
	}

	if computeSave {
		store, err := rt.openArchive()
		if err != nil {
			return err
		}
		key, err := store.Save(ctx, out)
		if err != nil {
			return fmt.Errorf("saving result: %w", err)
		}
		rt.log.Info("result saved", zap.String("key", key))
		fmt.Fprintf(os.Stderr, "saved %s\n", key)
	}

	return nil
}
