// Package report assembles the presentation-level summary of an analysis:
// per-page rows sorted by score, category averages, top external juice
// sources, and the pages in error that still receive internal links.
package report

import (
	"math"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seomesh/seomesh/core/linkgraph"
)

// AnchorCount is one anchor text with its occurrence count across a page's
// inbound links.
type AnchorCount struct {
	Anchor string
	Count  int
}

// Row is the per-page report entry.
type Row struct {
	URL           string
	Score         float64
	Backlinks     int
	InboundLinks  int
	OutboundLinks int
	Status        linkgraph.StatusCategory
	IsError       bool
	TopAnchors    []AnchorCount
	Category      string
}

// CategoryStats aggregates scores for one URL category.
type CategoryStats struct {
	Count      int
	TotalScore float64
	AvgScore   float64
}

// Report is the full statistics bundle for one analysis run.
type Report struct {
	Rows           []Row
	Categories     map[string]CategoryStats
	TopSources     []Row
	ErrorPages     []Row
	ErrorJuiceRate float64
	TotalPages     int
	TotalLinks     int
	TotalBacklinks int
}

const topSourcesLimit = 10

// Build derives the report from a graph and its public scores. Inbound and
// outbound counts use raw link multiplicities, matching what the crawl
// export showed the user, not the collapsed propagation channels.
func Build(g *linkgraph.Graph, publicScores map[string]float64) *Report {
	r := &Report{
		Categories: make(map[string]CategoryStats),
		TotalPages: g.Len(),
		TotalLinks: g.RawLinkCount(),
	}

	for _, p := range g.Pages() {
		row := Row{
			URL:           p.URL,
			Score:         round2(publicScores[p.URL]),
			Backlinks:     p.Backlinks,
			InboundLinks:  linkCount(p.Inbound()),
			OutboundLinks: linkCount(p.Outbound()),
			Status:        p.Status,
			IsError:       p.Status.IsError(),
			TopAnchors:    topAnchors(p.Inbound(), 3),
			Category:      p.Category,
		}
		if row.Category == "" {
			row.Category = CategoryOf(p.URL)
		}
		r.Rows = append(r.Rows, row)
		r.TotalBacklinks += p.Backlinks

		stats := r.Categories[row.Category]
		stats.Count++
		stats.TotalScore += row.Score
		r.Categories[row.Category] = stats
	}

	for cat, stats := range r.Categories {
		stats.AvgScore = round2(stats.TotalScore / float64(stats.Count))
		r.Categories[cat] = stats
	}

	sort.SliceStable(r.Rows, func(i, j int) bool {
		return r.Rows[i].Score > r.Rows[j].Score
	})

	linksToErrors := 0
	for _, row := range r.Rows {
		if row.Backlinks > 0 {
			r.TopSources = append(r.TopSources, row)
		}
		if row.IsError && row.InboundLinks > 0 {
			r.ErrorPages = append(r.ErrorPages, row)
			linksToErrors += row.InboundLinks
		}
	}
	sort.SliceStable(r.TopSources, func(i, j int) bool {
		return r.TopSources[i].Backlinks > r.TopSources[j].Backlinks
	})
	if len(r.TopSources) > topSourcesLimit {
		r.TopSources = r.TopSources[:topSourcesLimit]
	}

	if r.TotalLinks > 0 {
		r.ErrorJuiceRate = round2(float64(linksToErrors) / float64(r.TotalLinks) * 100)
	}
	return r
}

// CategoryOf derives a reporting category from the URL path: the root is
// the homepage, otherwise the first path segment, title-cased.
func CategoryOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Other"
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "Homepage"
	}
	segment := strings.SplitN(path, "/", 2)[0]
	first, size := utf8.DecodeRuneInString(segment)
	return string(unicode.ToUpper(first)) + strings.ToLower(segment[size:])
}

func linkCount(edges []*linkgraph.Edge) int {
	n := 0
	for _, e := range edges {
		n += e.Weight
	}
	return n
}

// topAnchors counts anchor texts across the inbound edges and keeps the k
// most frequent, breaking count ties lexicographically so the result is
// stable.
func topAnchors(inbound []*linkgraph.Edge, k int) []AnchorCount {
	counts := make(map[string]int)
	for _, e := range inbound {
		for _, anchor := range e.Anchors {
			counts[anchor]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	ranked := make([]AnchorCount, 0, len(counts))
	for anchor, count := range counts {
		ranked = append(ranked, AnchorCount{Anchor: anchor, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Anchor < ranked[j].Anchor
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
