package equity

import "fmt"

// Default propagation parameters. Damping and the 90/10 content/navigation
// split mirror the values the scoring model was calibrated with.
const (
	DefaultDamping        = 0.85
	DefaultTolerance      = 1e-6
	DefaultMaxIterations  = 100
	DefaultContentRate    = 0.90
	DefaultNavigationRate = 0.10
	DefaultBacklinkScore  = 10.0
	DefaultSeedFloor      = 0.1
	DefaultNormalizeMax   = 100.0
)

// Params holds the tunables of the propagation run.
type Params struct {
	// Damping is the share of equity transmitted through links each
	// iteration; the rest teleports back to the seed distribution.
	Damping float64

	// Tolerance is the max-abs-change convergence threshold.
	Tolerance float64

	// MaxIterations caps the run so near-bipartite oscillating graphs
	// cannot stall it. Hitting the cap is a reported terminal state, not
	// an error.
	MaxIterations int

	// ContentRate and NavigationRate split a page's outbound equity
	// between its two edge classes. They must sum to 1. A page with edges
	// of only one class passes 100% through that class.
	ContentRate    float64
	NavigationRate float64

	// BacklinkScore is the seed weight contributed per external backlink.
	BacklinkScore float64

	// SeedFloor is the weight given to pages with zero backlinks so they
	// are never excluded from redistribution outright.
	SeedFloor float64

	// NormalizeMax is the top of the public score scale.
	NormalizeMax float64
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		Damping:        DefaultDamping,
		Tolerance:      DefaultTolerance,
		MaxIterations:  DefaultMaxIterations,
		ContentRate:    DefaultContentRate,
		NavigationRate: DefaultNavigationRate,
		BacklinkScore:  DefaultBacklinkScore,
		SeedFloor:      DefaultSeedFloor,
		NormalizeMax:   DefaultNormalizeMax,
	}
}

// Validate checks the parameters for internal consistency.
func (p Params) Validate() error {
	if p.Damping <= 0 || p.Damping >= 1 {
		return fmt.Errorf("damping must be in (0,1), got %v", p.Damping)
	}
	if p.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %v", p.Tolerance)
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", p.MaxIterations)
	}
	if !approxEqual(p.ContentRate+p.NavigationRate, 1.0, 1e-9) {
		return fmt.Errorf("content and navigation rates must sum to 1, got %v + %v",
			p.ContentRate, p.NavigationRate)
	}
	if p.ContentRate < 0 || p.NavigationRate < 0 {
		return fmt.Errorf("class rates must be non-negative")
	}
	if p.SeedFloor <= 0 {
		return fmt.Errorf("seed floor must be positive, got %v", p.SeedFloor)
	}
	if p.NormalizeMax <= 0 {
		return fmt.Errorf("normalize max must be positive, got %v", p.NormalizeMax)
	}
	return nil
}

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
