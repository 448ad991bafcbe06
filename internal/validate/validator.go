// Package validate checks catalog integrity without writing anything. It
// reports per-file issues and rolls up the statistics the pipeline prints
// after a run.
package validate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
	"github.com/IshaanNene/orange-catalog/internal/store"
)

// Issue is one integrity problem found in the tree.
type Issue struct {
	Path    string `json:"path"`
	Problem string `json:"problem"`
}

// BrandCount pairs a brand with its product count.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// CategoryCount pairs a category path with its product count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes the validated tree.
type Stats struct {
	Categories     int             `json:"categories"`
	Products       int             `json:"products"`
	ProductDetails int             `json:"productDetails"`
	UniqueBrands   int             `json:"uniqueBrands"`
	FiltersDefined int             `json:"filtersDefined"`
	TopBrands      []BrandCount    `json:"topBrands,omitempty"`
	TopCategories  []CategoryCount `json:"topCategories,omitempty"`
}

// Result is the outcome of one validation pass.
type Result struct {
	Issues []Issue `json:"issues,omitempty"`
	Stats  Stats   `json:"stats"`
}

// OK reports whether the pass found no issues.
func (r *Result) OK() bool { return len(r.Issues) == 0 }

// DetailLister is implemented by stores that keep per-product detail files.
type DetailLister interface {
	ProductDirs() ([]string, error)
}

// Validator runs the read-only integrity pass.
type Validator struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a validator.
func New(st store.Store, logger *slog.Logger) *Validator {
	return &Validator{store: st, logger: logger.With("component", "validator")}
}

// Run validates every category file and, when the backend keeps them, every
// per-product detail file. topN bounds the brand and category leaderboards.
func (v *Validator) Run(topN int) (*Result, error) {
	res := &Result{}

	paths, err := v.store.List()
	if err != nil {
		return nil, err
	}

	brandCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	seen := make(map[string]bool)

	for _, path := range paths {
		cf, err := v.store.Get(path)
		if err != nil {
			res.Issues = append(res.Issues, Issue{Path: path, Problem: fmt.Sprintf("unreadable: %v", err)})
			continue
		}
		res.Stats.Categories++
		res.Stats.FiltersDefined += len(cf.Filters)

		if cf.CategoryID == "" {
			res.Issues = append(res.Issues, Issue{Path: path, Problem: "missing categoryId"})
		}
		if cf.Name == "" {
			res.Issues = append(res.Issues, Issue{Path: path, Problem: catalog.ErrMissingName.Error()})
		}
		if len(cf.Products) > 0 && len(cf.Subcategories) > 0 {
			res.Issues = append(res.Issues, Issue{Path: path, Problem: catalog.ErrShapeConflict.Error()})
		}

		for i, p := range cf.Products {
			if p.ProductID == "" {
				res.Issues = append(res.Issues, Issue{
					Path:    path,
					Problem: fmt.Sprintf("product %d: %v", i, catalog.ErrMissingID),
				})
				continue
			}
			if !seen[p.ProductID] {
				seen[p.ProductID] = true
				res.Stats.Products++
				if p.Brand != "" {
					brandCounts[p.Brand]++
				}
			}
			categoryCounts[path]++
		}
	}

	if dl, ok := v.store.(DetailLister); ok {
		v.checkDetails(dl, res)
	}

	res.Stats.UniqueBrands = len(brandCounts)
	res.Stats.TopBrands = topBrands(brandCounts, topN)
	res.Stats.TopCategories = topCategories(categoryCounts, topN)

	v.logger.Info("validation complete",
		"categories", res.Stats.Categories,
		"products", res.Stats.Products,
		"issues", len(res.Issues))
	return res, nil
}

func (v *Validator) checkDetails(dl DetailLister, res *Result) {
	dirs, err := dl.ProductDirs()
	if err != nil {
		res.Issues = append(res.Issues, Issue{Path: "products", Problem: fmt.Sprintf("unreadable: %v", err)})
		return
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, "details.json")
		data, err := os.ReadFile(path)
		if err != nil {
			res.Issues = append(res.Issues, Issue{Path: path, Problem: "missing details.json"})
			continue
		}

		var p catalog.Product
		if err := json.Unmarshal(data, &p); err != nil {
			res.Issues = append(res.Issues, Issue{Path: path, Problem: fmt.Sprintf("malformed: %v", err)})
			continue
		}
		res.Stats.ProductDetails++
		if p.ProductID == "" {
			res.Issues = append(res.Issues, Issue{Path: path, Problem: catalog.ErrMissingID.Error()})
		}
	}
}

func topBrands(counts map[string]int, n int) []BrandCount {
	out := make([]BrandCount, 0, len(counts))
	for brand, count := range counts {
		out = append(out, BrandCount{Brand: brand, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Brand < out[j].Brand
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func topCategories(counts map[string]int, n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for path, count := range counts {
		out = append(out, CategoryCount{Category: path, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
