package equity

// danglingMass sums the current-iteration equity sitting on dangling pages.
// dangling is indexed by page position.
func danglingMass(scores []float64, dangling []bool) float64 {
	var mass float64
	for i, isDangling := range dangling {
		if isDangling {
			mass += scores[i]
		}
	}
	return mass
}

// uniformShare spreads a dangling mass evenly over all n pages, as if every
// dangling page linked to the whole site. This keeps total equity constant
// across iterations instead of letting sinks evaporate it.
func uniformShare(mass float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return mass / float64(n)
}
