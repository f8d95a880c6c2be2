package whatif

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seomesh/seomesh/core/equity"
	"github.com/seomesh/seomesh/core/linkgraph"
)

func threePageBaseline(t *testing.T) (*linkgraph.Graph, map[string]float64) {
	t.Helper()
	g, err := linkgraph.Build(
		[]linkgraph.PageRecord{
			{URL: "https://site/", Backlinks: 10},
			{URL: "https://site/a"},
			{URL: "https://site/b"},
		},
		[]linkgraph.EdgeRecord{
			{Source: "https://site/", Target: "https://site/a", Class: "content"},
			{Source: "https://site/", Target: "https://site/b", Class: "navigation"},
			{Source: "https://site/a", Target: "https://site/b", Class: "content"},
			{Source: "https://site/b", Target: "https://site/", Class: "content"},
		},
	)
	require.NoError(t, err)

	params := equity.DefaultParams()
	seed, err := equity.Seed(g, params)
	require.NoError(t, err)
	result, err := equity.NewEngine(params, nil).Run(g, seed)
	require.NoError(t, err)
	public, err := equity.Normalize(result.Scores, params.NormalizeMax)
	require.NoError(t, err)
	return g, public
}

func newRecalculator(t *testing.T) (*Recalculator, map[string]float64) {
	t.Helper()
	g, public := threePageBaseline(t)
	r, err := New(g, public, equity.DefaultParams(), DefaultOptions(), nil)
	require.NoError(t, err)
	return r, public
}

// An empty edit set reproduces the baseline exactly: no deltas, same
// public scores.
func TestRecalculate_EmptyEditsIsIdempotent(t *testing.T) {
	r, baselinePublic := newRecalculator(t)

	outcome, err := r.Recalculate(nil, nil)
	require.NoError(t, err)

	assert.Empty(t, outcome.Deltas)
	require.Len(t, outcome.PublicScores, len(baselinePublic))
	for url, score := range baselinePublic {
		assert.InDelta(t, score, outcome.PublicScores[url], 1e-9, "page %s", url)
	}
}

// Removing Home->A must report A's drop, and every reported entry must
// exceed the negligible-change threshold.
func TestRecalculate_RemoveEdgeReportsDrop(t *testing.T) {
	r, baselinePublic := newRecalculator(t)

	outcome, err := r.Recalculate(nil, []linkgraph.EdgePair{
		{Source: "https://site/", Target: "https://site/a"},
	})
	require.NoError(t, err)

	a, ok := outcome.Deltas["https://site/a"]
	require.True(t, ok, "page A must appear in the delta report")
	assert.Negative(t, a.Delta)
	assert.Less(t, a.NewScore, a.OldScore)
	assert.InDelta(t, baselinePublic["https://site/a"], a.OldScore, 1e-9)

	for url, d := range outcome.Deltas {
		assert.Greater(t, math.Abs(d.Delta), DefaultDeltaThreshold, "page %s", url)
		assert.InDelta(t, d.NewScore-d.OldScore, d.Delta, 1e-9)
	}
}

// Adding a content edge into a page with no inbound links strictly raises
// its score.
func TestRecalculate_AddedContentEdgeRaisesTarget(t *testing.T) {
	g, err := linkgraph.Build(
		[]linkgraph.PageRecord{
			{URL: "https://site/", Backlinks: 10},
			{URL: "https://site/a"},
			{URL: "https://site/lonely"},
		},
		[]linkgraph.EdgeRecord{
			{Source: "https://site/", Target: "https://site/a", Class: "content"},
			{Source: "https://site/a", Target: "https://site/", Class: "content"},
		},
	)
	require.NoError(t, err)

	params := equity.DefaultParams()
	seed, err := equity.Seed(g, params)
	require.NoError(t, err)
	result, err := equity.NewEngine(params, nil).Run(g, seed)
	require.NoError(t, err)
	public, err := equity.Normalize(result.Scores, params.NormalizeMax)
	require.NoError(t, err)

	r, err := New(g, public, params, DefaultOptions(), nil)
	require.NoError(t, err)

	outcome, err := r.Recalculate([]linkgraph.EdgeRecord{
		{Source: "https://site/", Target: "https://site/lonely", Class: "content"},
	}, nil)
	require.NoError(t, err)

	lonely, ok := outcome.Deltas["https://site/lonely"]
	require.True(t, ok)
	assert.Positive(t, lonely.Delta)
	assert.Greater(t, lonely.NewScore, lonely.OldScore)
}

// The baseline graph and scores survive any number of speculative runs
// untouched.
func TestRecalculate_BaselineNeverMutated(t *testing.T) {
	r, baselinePublic := newRecalculator(t)
	wantEdges := r.baseline.EdgeCount()
	wantPages := r.baseline.Len()
	snapshot := make(map[string]float64, len(baselinePublic))
	for url, score := range baselinePublic {
		snapshot[url] = score
	}

	_, err := r.Recalculate(
		[]linkgraph.EdgeRecord{{Source: "https://site/b", Target: "https://site/a", Class: "content"}},
		[]linkgraph.EdgePair{{Source: "https://site/", Target: "https://site/a"}},
	)
	require.NoError(t, err)

	assert.Equal(t, wantEdges, r.baseline.EdgeCount())
	assert.Equal(t, wantPages, r.baseline.Len())
	assert.Equal(t, snapshot, r.public)
}

// Repeating an edit set hits the cache, whatever order the editor emitted
// the edits in.
func TestRecalculate_CachesByEditSet(t *testing.T) {
	r, _ := newRecalculator(t)

	removeAB := []linkgraph.EdgePair{
		{Source: "https://site/", Target: "https://site/a"},
		{Source: "https://site/a", Target: "https://site/b"},
	}
	removeBA := []linkgraph.EdgePair{removeAB[1], removeAB[0]}

	first, err := r.Recalculate(nil, removeAB)
	require.NoError(t, err)
	second, err := r.Recalculate(nil, removeBA)
	require.NoError(t, err)

	hits, misses := r.CacheStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.PublicScores, second.PublicScores)
	assert.Equal(t, first.Deltas, second.Deltas)
	assert.Equal(t, first.Iterations, second.Iterations)
}

// A caller mutating a returned outcome must not poison later cache hits
// for the same edit set.
func TestRecalculate_CallerMutationDoesNotPoisonCache(t *testing.T) {
	r, _ := newRecalculator(t)
	remove := []linkgraph.EdgePair{{Source: "https://site/", Target: "https://site/a"}}

	first, err := r.Recalculate(nil, remove)
	require.NoError(t, err)

	want := first.clone()
	for url := range first.PublicScores {
		first.PublicScores[url] = -1
	}
	for url := range first.Deltas {
		delete(first.Deltas, url)
	}

	second, err := r.Recalculate(nil, remove)
	require.NoError(t, err)

	hits, _ := r.CacheStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, want.PublicScores, second.PublicScores)
	assert.Equal(t, want.Deltas, second.Deltas)
}

// The delta threshold is a tunable: a coarse threshold filters moves the
// default would report.
func TestRecalculate_ThresholdOptionHonored(t *testing.T) {
	g, public := threePageBaseline(t)
	remove := []linkgraph.EdgePair{{Source: "https://site/", Target: "https://site/a"}}

	fine, err := New(g, public, equity.DefaultParams(), DefaultOptions(), nil)
	require.NoError(t, err)
	outcome, err := fine.Recalculate(nil, remove)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Deltas)

	// Public scores live in [0,100] and the anchor page stays at 100, so
	// no page can move beyond this cutoff.
	coarse, err := New(g, public, equity.DefaultParams(), Options{DeltaThreshold: 99.5}, nil)
	require.NoError(t, err)
	outcome, err = coarse.Recalculate(nil, remove)
	require.NoError(t, err)
	assert.Empty(t, outcome.Deltas)
}

// A cache sized to one entry evicts the older edit set.
func TestRecalculate_CacheSizeOptionHonored(t *testing.T) {
	g, public := threePageBaseline(t)
	r, err := New(g, public, equity.DefaultParams(), Options{CacheSize: 1}, nil)
	require.NoError(t, err)

	removeA := []linkgraph.EdgePair{{Source: "https://site/", Target: "https://site/a"}}
	removeB := []linkgraph.EdgePair{{Source: "https://site/", Target: "https://site/b"}}

	_, err = r.Recalculate(nil, removeA)
	require.NoError(t, err)
	_, err = r.Recalculate(nil, removeB)
	require.NoError(t, err)
	_, err = r.Recalculate(nil, removeA)
	require.NoError(t, err)

	hits, misses := r.CacheStats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(3), misses)
}

// A failing overlay leaves the recalculator fully usable.
func TestRecalculate_ErrorScopedToAttempt(t *testing.T) {
	r, _ := newRecalculator(t)

	_, err := r.Recalculate([]linkgraph.EdgeRecord{
		{Source: "https://site/", Target: "https://site/x", Class: "hreflang"},
	}, nil)
	var verr *linkgraph.ValidationError
	require.ErrorAs(t, err, &verr)

	outcome, err := r.Recalculate(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, outcome.Deltas)
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	add := []linkgraph.EdgeRecord{
		{Source: "a", Target: "b", Class: "content"},
		{Source: "c", Target: "d", Class: "navigation"},
	}
	flipped := []linkgraph.EdgeRecord{add[1], add[0]}

	assert.Equal(t, fingerprint(add, nil), fingerprint(flipped, nil))
	assert.NotEqual(t, fingerprint(add, nil), fingerprint(add[:1], nil))
	assert.NotEqual(t,
		fingerprint(nil, []linkgraph.EdgePair{{Source: "a", Target: "b"}}),
		fingerprint([]linkgraph.EdgeRecord{{Source: "a", Target: "b", Class: "content"}}, nil),
	)
}
