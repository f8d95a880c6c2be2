package linkgraph

// PageRecord is the ingestion-layer shape of a single page, already
// URL-normalized and deduplicated upstream.
type PageRecord struct {
	URL       string
	Backlinks int
	Status    StatusCategory
	Category  string
}

// Graph is an immutable directed multigraph of pages and classified link
// edges. Pages keep their insertion order so iteration is deterministic.
// There are no mutation methods; edits produce a new Graph via WithOverlay.
type Graph struct {
	pages []*Page
	index map[string]int
}

// Build validates page and edge records and assembles a Graph. Edges whose
// endpoints are not among the page records create implicit orphan pages
// with zero backlinks. Duplicate (source, target, class) edges collapse
// into one weighted edge. Self-links are dropped: a page cannot pass equity
// to itself. Returns a *ValidationError on the first malformed record; no
// partial graph survives a failure.
func Build(pages []PageRecord, edges []EdgeRecord) (*Graph, error) {
	b := newBuilder()
	for _, rec := range pages {
		if err := b.addPage(rec); err != nil {
			return nil, err
		}
	}
	for _, rec := range edges {
		if err := b.addEdge(rec); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// Len returns the number of pages, implicit orphans included.
func (g *Graph) Len() int { return len(g.pages) }

// Pages returns the pages in insertion order. Callers must not modify the
// returned slice.
func (g *Graph) Pages() []*Page { return g.pages }

// Page resolves a URL to its page.
func (g *Graph) Page(url string) (*Page, bool) {
	i, ok := g.index[url]
	if !ok {
		return nil, false
	}
	return g.pages[i], true
}

// Index returns the insertion position of a URL. The propagation engine
// uses positions to address its score vectors.
func (g *Graph) Index(url string) (int, bool) {
	i, ok := g.index[url]
	return i, ok
}

// Edges returns every collapsed edge, grouped by source page in insertion
// order.
func (g *Graph) Edges() []*Edge {
	var all []*Edge
	for _, p := range g.pages {
		all = append(all, p.outbound...)
	}
	return all
}

// EdgeCount returns the number of distinct collapsed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, p := range g.pages {
		n += len(p.outbound)
	}
	return n
}

// RawLinkCount returns the number of raw links behind the collapsed edges,
// summing multiplicities.
func (g *Graph) RawLinkCount() int {
	n := 0
	for _, p := range g.pages {
		for _, e := range p.outbound {
			n += e.Weight
		}
	}
	return n
}

// WithOverlay returns a new Graph equal to the receiver plus the added
// edges and minus the removed endpoint pairs. Removal is
// classification-agnostic and idempotent: a pair with no matching edge is
// ignored. The receiver is never modified, so many speculative overlays can
// be built off one baseline.
func (g *Graph) WithOverlay(added []EdgeRecord, removed []EdgePair) (*Graph, error) {
	gone := make(map[EdgePair]bool, len(removed))
	for _, p := range removed {
		gone[p] = true
	}

	b := newBuilder()
	for _, p := range g.pages {
		rec := PageRecord{URL: p.URL, Backlinks: p.Backlinks, Status: p.Status, Category: p.Category}
		if err := b.addPage(rec); err != nil {
			return nil, err
		}
	}
	for _, p := range g.pages {
		for _, e := range p.outbound {
			if gone[EdgePair{Source: e.Source, Target: e.Target}] {
				continue
			}
			b.copyEdge(e)
		}
	}
	for _, rec := range added {
		if gone[EdgePair{Source: rec.Source, Target: rec.Target}] {
			continue
		}
		if err := b.addEdge(rec); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// builder accumulates validated pages and collapsed edges before freezing
// them into a Graph.
type builder struct {
	pages     []*Page
	index     map[string]int
	collapsed map[edgeKey]*Edge
	order     []edgeKey
}

type edgeKey struct {
	source string
	target string
	class  LinkClass
}

func newBuilder() *builder {
	return &builder{
		index:     make(map[string]int),
		collapsed: make(map[edgeKey]*Edge),
	}
}

func (b *builder) addPage(rec PageRecord) error {
	if rec.URL == "" {
		return &ValidationError{Field: "page url", Value: rec.URL, Reason: "empty identity"}
	}
	if rec.Backlinks < 0 {
		return &ValidationError{Field: "page", Value: rec.URL, Reason: "negative backlink count"}
	}
	if _, dup := b.index[rec.URL]; dup {
		return &ValidationError{Field: "page", Value: rec.URL, Reason: "duplicate identity"}
	}
	b.index[rec.URL] = len(b.pages)
	b.pages = append(b.pages, &Page{
		URL:       rec.URL,
		Backlinks: rec.Backlinks,
		Status:    rec.Status,
		Category:  rec.Category,
	})
	return nil
}

// ensurePage resolves a URL to a page, creating a zero-backlink orphan when
// the edge references a page the ingestion layer never listed.
func (b *builder) ensurePage(url string) (*Page, error) {
	if url == "" {
		return nil, &ValidationError{Field: "edge endpoint", Value: url, Reason: "empty identity"}
	}
	if i, ok := b.index[url]; ok {
		return b.pages[i], nil
	}
	b.index[url] = len(b.pages)
	p := &Page{URL: url, Status: StatusSuccess}
	b.pages = append(b.pages, p)
	return p, nil
}

func (b *builder) addEdge(rec EdgeRecord) error {
	class, ok := ParseLinkClass(rec.Class)
	if !ok {
		return &ValidationError{Field: "edge classification", Value: rec.Class, Reason: "not content or navigation"}
	}
	if rec.Source == rec.Target && rec.Source != "" {
		// Self-links carry no equity anywhere; drop them like the crawler
		// export filter does.
		return nil
	}
	if _, err := b.ensurePage(rec.Source); err != nil {
		return err
	}
	if _, err := b.ensurePage(rec.Target); err != nil {
		return err
	}

	key := edgeKey{source: rec.Source, target: rec.Target, class: class}
	if e, seen := b.collapsed[key]; seen {
		e.Weight++
		if rec.Anchor != "" {
			e.Anchors = append(e.Anchors, rec.Anchor)
		}
		if rec.Similarity > e.Similarity {
			e.Similarity = rec.Similarity
		}
		return nil
	}

	e := &Edge{
		Source:     rec.Source,
		Target:     rec.Target,
		Class:      class,
		Weight:     1,
		Similarity: rec.Similarity,
	}
	if rec.Anchor != "" {
		e.Anchors = append(e.Anchors, rec.Anchor)
	}
	b.collapsed[key] = e
	b.order = append(b.order, key)
	return nil
}

// copyEdge carries an already-collapsed edge from a baseline graph into the
// builder, preserving its multiplicity and anchors.
func (b *builder) copyEdge(e *Edge) {
	key := edgeKey{source: e.Source, target: e.Target, class: e.Class}
	if prev, seen := b.collapsed[key]; seen {
		prev.Weight += e.Weight
		prev.Anchors = append(prev.Anchors, e.Anchors...)
		if e.Similarity > prev.Similarity {
			prev.Similarity = e.Similarity
		}
		return
	}
	clone := &Edge{
		Source:     e.Source,
		Target:     e.Target,
		Class:      e.Class,
		Weight:     e.Weight,
		Anchors:    append([]string(nil), e.Anchors...),
		Similarity: e.Similarity,
	}
	b.collapsed[key] = clone
	b.order = append(b.order, key)
}

func (b *builder) finish() *Graph {
	for _, key := range b.order {
		e := b.collapsed[key]
		src := b.pages[b.index[e.Source]]
		tgt := b.pages[b.index[e.Target]]
		src.outbound = append(src.outbound, e)
		tgt.inbound = append(tgt.inbound, e)
	}
	return &Graph{pages: b.pages, index: b.index}
}
