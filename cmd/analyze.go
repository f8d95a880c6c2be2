package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/seomesh/seomesh/core/analysis"
	"github.com/seomesh/seomesh/core/report"
)

var (
	analyzeDamping    float64
	analyzeIterations int
	analyzeTop        int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <graph.yaml>",
	Short: "Run a full link-equity analysis over a site graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(args[0])
		if err != nil {
			return err
		}

		params := manager.Get().Params()
		if cmd.Flags().Changed("damping") {
			params.Damping = analyzeDamping
		}
		if cmd.Flags().Changed("iterations") {
			params.MaxIterations = analyzeIterations
		}

		analyzer, err := analysis.New(params, slog.Default())
		if err != nil {
			return err
		}
		baseline, err := analyzer.ComputeBaseline(g)
		if err != nil {
			return err
		}

		printBaseline(baseline, analyzeTop)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeDamping, "damping", 0.85, "damping factor for the propagation")
	analyzeCmd.Flags().IntVar(&analyzeIterations, "iterations", 100, "iteration cap")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 10, "number of top pages to print")
	rootCmd.AddCommand(analyzeCmd)
}

func printBaseline(b *analysis.Baseline, top int) {
	r := b.Report

	fmt.Printf("Run %s: %d pages, %d internal links, %d backlinks (%s after %d iterations)\n\n",
		b.RunID, r.TotalPages, r.TotalLinks, r.TotalBacklinks, b.State, b.Iterations)

	fmt.Printf("Top %d pages by equity score:\n", top)
	for i, row := range r.Rows {
		if i >= top {
			break
		}
		fmt.Printf("  %2d. %6.2f  %s  (backlinks %d, inbound links %d)\n",
			i+1, row.Score, row.URL, row.Backlinks, row.InboundLinks)
	}

	fmt.Println("\nAverage score by category:")
	for _, cat := range sortedCategories(r.Categories) {
		stats := r.Categories[cat]
		fmt.Printf("  %-20s %6.2f  (%d pages)\n", cat, stats.AvgScore, stats.Count)
	}

	if len(r.ErrorPages) > 0 {
		fmt.Println("\nError pages still receiving internal links:")
		for _, row := range r.ErrorPages {
			fmt.Printf("  %s  (%s, %d inbound links)\n", row.URL, row.Status, row.InboundLinks)
		}
		fmt.Printf("Equity sent to error pages: %.2f%% of internal links\n", r.ErrorJuiceRate)
	}
}

func sortedCategories(categories map[string]report.CategoryStats) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return categories[names[i]].AvgScore > categories[names[j]].AvgScore
	})
	return names
}
