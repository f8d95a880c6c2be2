// Package whatif implements speculative link-edit recomputation for the
// interactive graph editor. Every recalculation overlays the edit set on
// the committed baseline graph and reruns the full propagation from a cold
// start, so correctness does not depend on the size of the edit.
package whatif

import (
	"log/slog"
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/seomesh/seomesh/core/equity"
	"github.com/seomesh/seomesh/core/linkgraph"
)

// DefaultDeltaThreshold is the public-score change below which a page is
// left out of the delta report, one rounding quantum of the two-decimal
// presentation.
const DefaultDeltaThreshold = 0.01

// DefaultCacheSize bounds the what-if result cache. Debounced editor
// triggers tend to replay the same small edit sets.
const DefaultCacheSize = 128

// Options tunes the recalculator. Zero values fall back to the defaults.
type Options struct {
	// DeltaThreshold is the negligible-change cutoff for the delta report.
	DeltaThreshold float64

	// CacheSize is the maximum number of cached overlay outcomes.
	CacheSize int
}

// DefaultOptions returns the default tunables.
func DefaultOptions() Options {
	return Options{
		DeltaThreshold: DefaultDeltaThreshold,
		CacheSize:      DefaultCacheSize,
	}
}

// Delta is one page's before/after movement.
type Delta struct {
	URL      string
	OldScore float64
	NewScore float64
	Delta    float64
}

// Outcome is the transient result of one speculative recomputation. It is
// never merged back into the baseline. The maps are owned by the caller;
// mutating them does not affect later recalculations.
type Outcome struct {
	PublicScores map[string]float64
	Deltas       map[string]Delta
	State        equity.TerminalState
	Iterations   int
}

// clone copies the outcome so cached entries never share maps with what
// callers received.
func (o *Outcome) clone() *Outcome {
	scores := make(map[string]float64, len(o.PublicScores))
	for url, v := range o.PublicScores {
		scores[url] = v
	}
	deltas := make(map[string]Delta, len(o.Deltas))
	for url, d := range o.Deltas {
		deltas[url] = d
	}
	return &Outcome{
		PublicScores: scores,
		Deltas:       deltas,
		State:        o.State,
		Iterations:   o.Iterations,
	}
}

// Recalculator runs what-if computations against a fixed baseline. It is
// read-only over the baseline, holds no state between calls beyond the
// result cache, and may be invoked back-to-back with different overlays.
type Recalculator struct {
	baseline  *linkgraph.Graph
	public    map[string]float64
	params    equity.Params
	threshold float64
	logger    *slog.Logger
	cache     *lru.Cache[string, *Outcome]

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Recalculator over a baseline graph and its committed
// public scores. The cache keeps recently computed overlay outcomes keyed
// by edit-set fingerprint.
func New(baseline *linkgraph.Graph, public map[string]float64, params equity.Params, opts Options, logger *slog.Logger) (*Recalculator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if opts.DeltaThreshold <= 0 {
		opts.DeltaThreshold = DefaultDeltaThreshold
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, *Outcome](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Recalculator{
		baseline:  baseline,
		public:    public,
		params:    params,
		threshold: opts.DeltaThreshold,
		logger:    logger,
		cache:     cache,
	}, nil
}

// CacheStats returns how many recalculations were served from the cache
// and how many required a full recompute.
func (r *Recalculator) CacheStats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

// Recalculate overlays the edit set on the baseline and recomputes public
// scores, reporting a delta entry for every page that moved more than the
// negligible threshold. Removals are endpoint-pair based and idempotent.
// Errors are scoped to this one overlay attempt; the baseline is untouched
// either way.
func (r *Recalculator) Recalculate(added []linkgraph.EdgeRecord, removed []linkgraph.EdgePair) (*Outcome, error) {
	key := fingerprint(added, removed)
	if cached, ok := r.cache.Get(key); ok {
		r.hits.Add(1)
		r.logger.Debug("what-if cache hit", "key", key)
		return cached.clone(), nil
	}
	r.misses.Add(1)

	overlay, err := r.baseline.WithOverlay(added, removed)
	if err != nil {
		return nil, err
	}

	seed, err := equity.Seed(overlay, r.params)
	if err != nil {
		return nil, err
	}
	result, err := equity.NewEngine(r.params, r.logger).Run(overlay, seed)
	if err != nil {
		return nil, err
	}
	public, err := equity.Normalize(result.Scores, r.params.NormalizeMax)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		PublicScores: public,
		Deltas:       r.diff(public),
		State:        result.State,
		Iterations:   result.Iterations,
	}
	r.cache.Add(key, outcome)

	r.logger.Debug("what-if recomputed",
		"added", len(added),
		"removed", len(removed),
		"changed_pages", len(outcome.Deltas),
		"iterations", outcome.Iterations,
	)
	return outcome.clone(), nil
}

// diff reports every page whose public score moved by more than the
// threshold, in either graph's page set. A page added by the overlay
// compares against an old score of zero; a page only in the baseline
// compares against a new score of zero.
func (r *Recalculator) diff(public map[string]float64) map[string]Delta {
	deltas := make(map[string]Delta)
	seen := make(map[string]bool, len(public))

	for url, newScore := range public {
		seen[url] = true
		oldScore := r.public[url]
		if change := newScore - oldScore; math.Abs(change) > r.threshold {
			deltas[url] = Delta{URL: url, OldScore: oldScore, NewScore: newScore, Delta: change}
		}
	}
	for url, oldScore := range r.public {
		if seen[url] {
			continue
		}
		if math.Abs(oldScore) > r.threshold {
			deltas[url] = Delta{URL: url, OldScore: oldScore, NewScore: 0, Delta: -oldScore}
		}
	}
	return deltas
}
