package equity

// classShares computes the per-edge outbound share for each link class.
// Content edges collectively carry contentRate of the page's transmittable
// equity and navigation edges the rest, however many edges each class has;
// within a class the allotment splits uniformly. When a page has edges of
// only one class, that class carries everything. The shares of all edges of
// a non-dangling page always sum to exactly 1.
func classShares(numContent, numNavigation int, contentRate, navigationRate float64) (perContent, perNavigation float64) {
	switch {
	case numContent > 0 && numNavigation > 0:
		return contentRate / float64(numContent), navigationRate / float64(numNavigation)
	case numContent > 0:
		return 1.0 / float64(numContent), 0
	case numNavigation > 0:
		return 0, 1.0 / float64(numNavigation)
	default:
		return 0, 0
	}
}
