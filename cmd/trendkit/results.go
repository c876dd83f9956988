package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var resultsFormat string

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse archived study results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list [study] [symbol]",
	Short: "List archived result keys",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runResultsList,
}

var resultsShowCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Print one archived result",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsShow,
}

func init() {
	resultsShowCmd.Flags().StringVarP(&resultsFormat, "format", "f", formatTable, "output format: table, csv or json")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	rootCmd.AddCommand(resultsCmd)
}

func runResultsList(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	store, err := rt.openArchive()
	if err != nil {
		return err
	}

	var studyName, symbol string
	if len(args) > 0 {
		studyName = args[0]
	}
	if len(args) > 1 {
		symbol = args[1]
	}

	keys, err := store.List(cmd.Context(), studyName, symbol)
	if err != nil {
		return err
	}

	t := newTable(os.Stdout)
	t.AppendHeader(table.Row{"key"})
	for _, k := range keys {
		t.AppendRow(table.Row{k})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d results", len(keys))})
	t.Render()
	return nil
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	store, err := rt.openArchive()
	if err != nil {
		return err
	}

	out, err := store.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return render(os.Stdout, out, resultsFormat, 0)
}
