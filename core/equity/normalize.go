package equity

import "math"

// Normalize rescales raw converged scores onto the bounded public scale,
// anchored so the single highest-authority page reports scaleMax. Pure and
// deterministic for a given input; the only failure is an empty score map.
func Normalize(raw map[string]float64, scaleMax float64) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, &DegenerateInputError{Op: "normalize"}
	}

	maxRaw := math.Inf(-1)
	for _, v := range raw {
		if v > maxRaw {
			maxRaw = v
		}
	}

	public := make(map[string]float64, len(raw))
	if maxRaw <= 0 {
		for url := range raw {
			public[url] = 0
		}
		return public, nil
	}
	for url, v := range raw {
		public[url] = v / maxRaw * scaleMax
	}
	return public, nil
}
