package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seomesh/seomesh/core/linkgraph"
)

// graphFixture is the YAML shape of a saved site graph. Real crawl-export
// ingestion lives upstream; the CLI works on these pre-digested snapshots.
type graphFixture struct {
	Pages []struct {
		URL       string `yaml:"url"`
		Backlinks int    `yaml:"backlinks"`
		Status    int    `yaml:"status"`
		Category  string `yaml:"category"`
	} `yaml:"pages"`
	Edges []struct {
		Source     string  `yaml:"source"`
		Target     string  `yaml:"target"`
		Class      string  `yaml:"class"`
		Anchor     string  `yaml:"anchor"`
		Similarity float64 `yaml:"similarity"`
	} `yaml:"edges"`
}

// loadGraph reads a YAML graph fixture and builds the link graph.
func loadGraph(path string) (*linkgraph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph fixture: %w", err)
	}

	var fixture graphFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse graph fixture %s: %w", path, err)
	}

	pages := make([]linkgraph.PageRecord, 0, len(fixture.Pages))
	for _, p := range fixture.Pages {
		status := linkgraph.StatusSuccess
		if p.Status != 0 {
			status = linkgraph.CategorizeStatus(p.Status)
		}
		pages = append(pages, linkgraph.PageRecord{
			URL:       p.URL,
			Backlinks: p.Backlinks,
			Status:    status,
			Category:  p.Category,
		})
	}

	edges := make([]linkgraph.EdgeRecord, 0, len(fixture.Edges))
	for _, e := range fixture.Edges {
		class := e.Class
		if class == "" {
			class = "content"
		}
		edges = append(edges, linkgraph.EdgeRecord{
			Source:     e.Source,
			Target:     e.Target,
			Class:      class,
			Anchor:     e.Anchor,
			Similarity: e.Similarity,
		})
	}

	return linkgraph.Build(pages, edges)
}
