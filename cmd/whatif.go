package cmd

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seomesh/seomesh/core/analysis"
	"github.com/seomesh/seomesh/core/linkgraph"
	"github.com/seomesh/seomesh/core/whatif"
)

var (
	whatifAdd    []string
	whatifRemove []string
)

var whatifCmd = &cobra.Command{
	Use:   "whatif <graph.yaml>",
	Short: "Recompute scores for a speculative link edit",
	Long: `Whatif overlays link additions and removals on the baseline graph and
reports every page whose score would change, without touching the baseline.

Edits name pages by URL, whitespace-separated:
  --add "https://site/a https://site/b content"
  --remove "https://site/a https://site/b"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(args[0])
		if err != nil {
			return err
		}

		added, err := parseAdds(whatifAdd)
		if err != nil {
			return err
		}
		removed, err := parseRemoves(whatifRemove)
		if err != nil {
			return err
		}

		cfg := manager.Get()
		params := cfg.Params()
		analyzer, err := analysis.New(params, slog.Default())
		if err != nil {
			return err
		}
		baseline, err := analyzer.ComputeBaseline(g)
		if err != nil {
			return err
		}

		opts := whatif.Options{
			DeltaThreshold: cfg.WhatIf.DeltaThreshold,
			CacheSize:      cfg.WhatIf.CacheSize,
		}
		recalc, err := whatif.New(baseline.Graph, baseline.Public, params, opts, slog.Default())
		if err != nil {
			return err
		}
		outcome, err := recalc.Recalculate(added, removed)
		if err != nil {
			return err
		}

		printDeltas(outcome)
		return nil
	},
}

func init() {
	whatifCmd.Flags().StringArrayVar(&whatifAdd, "add", nil, `edge to add: "source target class"`)
	whatifCmd.Flags().StringArrayVar(&whatifRemove, "remove", nil, `edge pair to remove: "source target"`)
	rootCmd.AddCommand(whatifCmd)
}

func parseAdds(specs []string) ([]linkgraph.EdgeRecord, error) {
	var records []linkgraph.EdgeRecord
	for _, spec := range specs {
		fields := strings.Fields(spec)
		if len(fields) != 3 {
			return nil, fmt.Errorf("bad --add %q: want \"source target class\"", spec)
		}
		records = append(records, linkgraph.EdgeRecord{
			Source: fields[0],
			Target: fields[1],
			Class:  fields[2],
		})
	}
	return records, nil
}

func parseRemoves(specs []string) ([]linkgraph.EdgePair, error) {
	var pairs []linkgraph.EdgePair
	for _, spec := range specs {
		fields := strings.Fields(spec)
		if len(fields) != 2 {
			return nil, fmt.Errorf("bad --remove %q: want \"source target\"", spec)
		}
		pairs = append(pairs, linkgraph.EdgePair{Source: fields[0], Target: fields[1]})
	}
	return pairs, nil
}

func printDeltas(outcome *whatif.Outcome) {
	if len(outcome.Deltas) == 0 {
		fmt.Println("No page moves more than the reporting threshold.")
		return
	}

	deltas := make([]whatif.Delta, 0, len(outcome.Deltas))
	for _, d := range outcome.Deltas {
		deltas = append(deltas, d)
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Delta < deltas[j].Delta
	})

	fmt.Printf("%d pages change (%s after %d iterations):\n",
		len(deltas), outcome.State, outcome.Iterations)
	for _, d := range deltas {
		fmt.Printf("  %+7.2f  %s  (%.2f -> %.2f)\n", d.Delta, d.URL, d.OldScore, d.NewScore)
	}
}
