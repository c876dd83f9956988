package main

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var studiesCmd = &cobra.Command{
	Use:   "studies",
	Short: "List available studies and their default parameters",
	RunE:  runStudies,
}

func init() {
	rootCmd.AddCommand(studiesCmd)
}

func runStudies(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	t := newTable(os.Stdout)
	t.AppendHeader(table.Row{"study", "description", "inputs", "defaults"})
	for _, s := range rt.engine.All() {
		inputs := make([]string, 0, len(s.Inputs()))
		for _, f := range s.Inputs() {
			inputs = append(inputs, string(f))
		}
		t.AppendRow(table.Row{s.Name(), s.Description(), strings.Join(inputs, ","), formatParams(s.Defaults())})
	}
	t.Render()
	return nil
}
