package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mscorebench/internal/dataset"
	"mscorebench/internal/format"
)

var datasetFile string

var datasetSummaryFlags struct {
	maas    int
	analyze bool
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect the MSCoRe dataset",
}

var datasetValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset for missing fields and duplicate IDs",
	RunE:  runDatasetValidate,
}

var datasetSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print example counts per domain and difficulty",
	RunE:  runDatasetSummary,
}

func init() {
	datasetCmd.PersistentFlags().StringVar(&datasetFile, "file", "", "Dataset JSON (default: config dataset path)")
	f := datasetSummaryCmd.Flags()
	f.IntVar(&datasetSummaryFlags.maas, "maas", 0, "Also print the MaAS input conversion for the first N examples")
	f.BoolVar(&datasetSummaryFlags.analyze, "analyze", false, "Also print capability hints per previewed question")
	datasetCmd.AddCommand(datasetValidateCmd)
	datasetCmd.AddCommand(datasetSummaryCmd)
}

func loadDataset() (*dataset.Dataset, string, error) {
	path := datasetFile
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, "", err
		}
		path = cfg.Dataset
	}
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, path, err
	}
	return ds, path, nil
}

func runDatasetValidate(cmd *cobra.Command, _ []string) error {
	ds, path, err := loadDataset()
	if err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d examples, ok\n", path, len(ds.Examples))
	return nil
}

func runDatasetSummary(cmd *cobra.Command, _ []string) error {
	ds, path, err := loadDataset()
	if err != nil {
		return err
	}
	s := ds.Summarize()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d examples\n\n", path, s.Total)
	fmt.Fprintln(out, countTable("DOMAIN", s.PerDomain))
	fmt.Fprintln(out, countTable("DIFFICULTY", s.PerDifficulty))

	if n := datasetSummaryFlags.maas; n > 0 {
		if n > len(ds.Examples) {
			n = len(ds.Examples)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		for _, ex := range ds.Examples[:n] {
			if err := enc.Encode(dataset.ToMaaSInput(ex)); err != nil {
				return err
			}
			if datasetSummaryFlags.analyze {
				if err := enc.Encode(dataset.AnalyzeQuestion(ex.Question)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func countTable(label string, counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tb := format.NewTable(format.ASCII)
	tb.Header(label, "EXAMPLES")
	for _, k := range keys {
		tb.Row(k, format.FmtCount(counts[k]))
	}
	return tb.String()
}
