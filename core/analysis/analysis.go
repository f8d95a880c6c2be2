// Package analysis ties the graph model, seeder, propagation engine,
// normalizer and report together behind the facade the UI layer calls.
package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/seomesh/seomesh/core/equity"
	"github.com/seomesh/seomesh/core/linkgraph"
	"github.com/seomesh/seomesh/core/report"
)

// Baseline is the committed result of one full computation. Delta runs
// never write into it; speculative edits produce their own transient
// outcome.
type Baseline struct {
	RunID      string
	Graph      *linkgraph.Graph
	Raw        map[string]float64
	Public     map[string]float64
	State      equity.TerminalState
	Iterations int
	Report     *report.Report
	Duration   time.Duration
}

// Analyzer runs full link-equity computations. It is stateless between
// calls and safe for concurrent use; each run owns its own vectors.
type Analyzer struct {
	params equity.Params
	logger *slog.Logger
}

// New validates the parameters and returns an Analyzer. A nil logger falls
// back to slog.Default().
func New(params equity.Params, logger *slog.Logger) (*Analyzer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{params: params, logger: logger}, nil
}

// Params returns the analyzer's propagation parameters.
func (a *Analyzer) Params() equity.Params { return a.params }

// ComputeBaseline seeds, propagates, normalizes and reports over one graph.
// Fatal errors (empty page set, non-finite values) abort the whole run;
// there is no partial result.
func (a *Analyzer) ComputeBaseline(g *linkgraph.Graph) (*Baseline, error) {
	start := time.Now()

	seed, err := equity.Seed(g, a.params)
	if err != nil {
		return nil, err
	}

	engine := equity.NewEngine(a.params, a.logger)
	result, err := engine.Run(g, seed)
	if err != nil {
		return nil, err
	}

	public, err := equity.Normalize(result.Scores, a.params.NormalizeMax)
	if err != nil {
		return nil, err
	}

	b := &Baseline{
		RunID:      uuid.NewString(),
		Graph:      g,
		Raw:        result.Scores,
		Public:     public,
		State:      result.State,
		Iterations: result.Iterations,
		Report:     report.Build(g, public),
		Duration:   time.Since(start),
	}

	a.logger.Info("baseline computed",
		"run_id", b.RunID,
		"pages", g.Len(),
		"edges", g.EdgeCount(),
		"state", b.State.String(),
		"iterations", b.Iterations,
		"duration", b.Duration,
	)
	return b, nil
}

// RunBatch computes baselines for several independent graphs concurrently.
// Each graph gets its own goroutine and shares nothing with the others.
// The first fatal error cancels the remaining runs.
func (a *Analyzer) RunBatch(ctx context.Context, graphs map[string]*linkgraph.Graph) (map[string]*Baseline, error) {
	eg, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[string]*Baseline, len(graphs))

	for name, g := range graphs {
		name, g := name, g
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := a.ComputeBaseline(g)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = b
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
