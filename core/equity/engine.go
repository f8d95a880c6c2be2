package equity

import (
	"log/slog"
	"math"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/floats"

	"github.com/seomesh/seomesh/core/linkgraph"
)

// TerminalState reports how a propagation run ended. Both states carry
// valid scores; IterationLimitReached just means the best available scores
// had not tightened below tolerance when the cap fired.
type TerminalState int

const (
	Converged TerminalState = iota
	IterationLimitReached
)

func (s TerminalState) String() string {
	if s == IterationLimitReached {
		return "iteration_limit_reached"
	}
	return "converged"
}

// Result holds the raw converged scores of one propagation run.
type Result struct {
	// Raw is indexed by page insertion position and sums to 1.
	Raw []float64

	// Scores maps page URL to its raw score.
	Scores map[string]float64

	State      TerminalState
	Iterations int

	// MaxDelta is the max-abs score change of the final iteration.
	MaxDelta float64
}

// outLink is a precomputed outbound channel: target page position plus the
// share of the source's transmittable equity flowing through it.
type outLink struct {
	target int
	share  float64
}

// Engine runs damped power iteration over an immutable graph snapshot.
// It holds no per-run state, so one Engine can serve back-to-back runs
// over different overlays.
type Engine struct {
	params Params
	logger *slog.Logger

	// onIteration, when set, observes the completed score vector of each
	// iteration. Used by tests to check mass conservation mid-run.
	onIteration func(iteration int, scores []float64)
}

// NewEngine creates an engine with the given parameters. A nil logger
// falls back to slog.Default().
func NewEngine(params Params, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{params: params, logger: logger}
}

// Run propagates the seed distribution through the graph until the scores
// move less than the tolerance or the iteration cap fires. Iteration k+1
// reads only iteration k's completed scores; the two vectors are
// double-buffered and swapped whole.
func (e *Engine) Run(g *linkgraph.Graph, seed []float64) (*Result, error) {
	pages := g.Pages()
	n := len(pages)
	if n == 0 {
		return nil, &DegenerateInputError{Op: "propagate"}
	}
	if len(seed) != n {
		return nil, ErrSeedMismatch
	}

	out, dangling := e.compile(g)
	d := e.params.Damping

	// The teleportation term never changes between iterations.
	base := vek.MulNumber(seed, 1-d)

	cur := append([]float64(nil), seed...)
	next := make([]float64, n)
	diff := make([]float64, n)

	state := IterationLimitReached
	iterations := e.params.MaxIterations
	var maxDelta float64

	for iter := 1; iter <= e.params.MaxIterations; iter++ {
		copy(next, base)

		// Equity sitting on sinks is spread over the whole site so total
		// mass stays constant.
		if spread := uniformShare(danglingMass(cur, dangling), n); spread > 0 {
			floats.AddConst(d*spread, next)
		}

		for i, links := range out {
			if len(links) == 0 {
				continue
			}
			flow := d * cur[i]
			for _, l := range links {
				next[l.target] += flow * l.share
			}
		}

		vek.Sub_Into(diff, next, cur)
		vek.Abs_Inplace(diff)
		maxDelta = vek.Max(diff)

		cur, next = next, cur
		if e.onIteration != nil {
			e.onIteration(iter, cur)
		}

		if math.IsNaN(maxDelta) || math.IsInf(maxDelta, 0) {
			return nil, &NumericOverflowError{Op: "propagate"}
		}
		if maxDelta < e.params.Tolerance {
			state = Converged
			iterations = iter
			break
		}
	}

	for i, v := range cur {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &NumericOverflowError{Op: "propagate", Page: pages[i].URL}
		}
	}

	e.logger.Debug("propagation finished",
		"state", state.String(),
		"iterations", iterations,
		"max_delta", maxDelta,
		"pages", n,
	)

	scores := make(map[string]float64, n)
	for i, p := range pages {
		scores[p.URL] = cur[i]
	}
	return &Result{
		Raw:        cur,
		Scores:     scores,
		State:      state,
		Iterations: iterations,
		MaxDelta:   maxDelta,
	}, nil
}

// compile flattens the graph into per-page outbound share lists and the
// dangling-page mask, resolving the content/navigation split once up
// front instead of per iteration.
func (e *Engine) compile(g *linkgraph.Graph) ([][]outLink, []bool) {
	pages := g.Pages()
	out := make([][]outLink, len(pages))
	dangling := make([]bool, len(pages))

	for i, p := range pages {
		content, navigation := p.OutboundByClass()
		if len(content) == 0 && len(navigation) == 0 {
			dangling[i] = true
			continue
		}
		perContent, perNavigation := classShares(
			len(content), len(navigation),
			e.params.ContentRate, e.params.NavigationRate,
		)
		links := make([]outLink, 0, len(content)+len(navigation))
		for _, edge := range content {
			t, _ := g.Index(edge.Target)
			links = append(links, outLink{target: t, share: perContent})
		}
		for _, edge := range navigation {
			t, _ := g.Index(edge.Target)
			links = append(links, outLink{target: t, share: perNavigation})
		}
		out[i] = links
	}
	return out, dangling
}
