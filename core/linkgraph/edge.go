package linkgraph

import "strings"

// LinkClass is the two-variant link classification. Content links carry the
// lion's share of transmitted equity; navigation links carry the remainder.
// There are exactly these two kinds; anything else is rejected at the
// boundary as a ValidationError.
type LinkClass int

const (
	ClassContent LinkClass = iota
	ClassNavigation
)

func (c LinkClass) String() string {
	if c == ClassNavigation {
		return "navigation"
	}
	return "content"
}

// ParseLinkClass maps an ingestion-layer classification string to a
// LinkClass. Crawl exports label in-body links "content" and template links
// ("navigation", headers, footers) as navigation; header and footer are
// accepted as navigation aliases since they are template positions too.
func ParseLinkClass(s string) (LinkClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "content":
		return ClassContent, true
	case "navigation", "header", "footer":
		return ClassNavigation, true
	default:
		return 0, false
	}
}

// Edge is a directed, classified relation between two pages. Multiple raw
// links with the same (source, target, class) triple collapse into one Edge
// with Weight counting the multiplicity; they are a single propagation
// channel, not several. Anchor texts and the similarity score are
// reporting-only and never influence propagation.
type Edge struct {
	Source string
	Target string
	Class  LinkClass

	// Weight is the collapsed multiplicity of the raw links behind this
	// edge. Propagation splits equity uniformly per distinct edge within a
	// class, so Weight is informational.
	Weight int

	Anchors    []string
	Similarity float64
}

// EdgeRecord is the ingestion-layer shape of a single raw link, prior to
// deduplication.
type EdgeRecord struct {
	Source     string
	Target     string
	Class      string
	Anchor     string
	Similarity float64
}

// EdgePair identifies an edge by its endpoints only. Overlay removals are
// classification-agnostic: removing a pair removes every class of edge
// between the two pages, matching how a navigation toggle behaves in the
// interactive editor.
type EdgePair struct {
	Source string
	Target string
}
