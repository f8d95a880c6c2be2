package equity

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/seomesh/seomesh/core/linkgraph"
)

// Seed derives the teleportation vector from external backlink counts.
// Each page's weight is proportional to its backlink count; pages with no
// backlinks get a small floor so the reset distribution never degenerates
// to all-zero when backlink data is missing entirely. The result is
// indexed by page insertion position and sums to 1.
func Seed(g *linkgraph.Graph, p Params) ([]float64, error) {
	pages := g.Pages()
	if len(pages) == 0 {
		return nil, &DegenerateInputError{Op: "seed"}
	}

	weights := make([]float64, len(pages))
	for i, page := range pages {
		w := float64(page.Backlinks) * p.BacklinkScore
		if w == 0 {
			w = p.SeedFloor
		}
		if math.IsInf(w, 0) || math.IsNaN(w) {
			return nil, &NumericOverflowError{Op: "seed", Page: page.URL}
		}
		weights[i] = w
	}

	total := floats.Sum(weights)
	if math.IsInf(total, 0) || math.IsNaN(total) || total <= 0 {
		return nil, &NumericOverflowError{Op: "seed"}
	}
	floats.Scale(1/total, weights)
	return weights, nil
}
