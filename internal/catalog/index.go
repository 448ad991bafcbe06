package catalog

import (
	"sort"
	"strings"
	"time"
)

// Index is the root category index at categories/index.json. Product counts
// are always recomputed from leaf files, never hand-maintained.
type Index struct {
	Version       string       `json:"version,omitempty"`
	LastUpdated   string       `json:"lastUpdated,omitempty"`
	TotalProducts int          `json:"totalProducts"`
	Categories    []*IndexNode `json:"categories"`
}

// IndexNode is one category in the root index tree.
type IndexNode struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	ProductCount  int          `json:"productCount"`
	Path          string       `json:"path,omitempty"`
	Subcategories []*IndexNode `json:"subcategories,omitempty"`
}

// BuildIndex constructs a fresh root index from leaf category counts keyed
// by category path. Every node's productCount equals the sum of its
// descendants' counts; the root total is the sum over all leaves.
func BuildIndex(leafCounts map[string]int, now time.Time) *Index {
	root := &Index{
		Version:     "1.0",
		LastUpdated: now.Format(time.RFC3339),
	}

	nodes := make(map[string]*IndexNode)

	// Materialize a node for every path segment prefix.
	paths := make([]string, 0, len(leafCounts))
	for p := range leafCounts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		segs := strings.Split(p, "/")
		for i := range segs {
			prefix := strings.Join(segs[:i+1], "/")
			if _, ok := nodes[prefix]; ok {
				continue
			}
			node := &IndexNode{
				ID:   prefix,
				Name: Titleize(segs[i]),
				Slug: segs[i],
				Path: "/categories/" + prefix,
			}
			nodes[prefix] = node
			if i == 0 {
				root.Categories = append(root.Categories, node)
			} else {
				parent := nodes[strings.Join(segs[:i], "/")]
				parent.Subcategories = append(parent.Subcategories, node)
			}
		}
		nodes[p].ProductCount = leafCounts[p]
	}

	for _, top := range root.Categories {
		root.TotalProducts += sumCounts(top)
	}
	return root
}

// sumCounts rolls descendant counts up into every node.
func sumCounts(n *IndexNode) int {
	if len(n.Subcategories) == 0 {
		return n.ProductCount
	}
	total := 0
	for _, sub := range n.Subcategories {
		total += sumCounts(sub)
	}
	n.ProductCount = total
	return total
}
