// Package consolidate runs the catalog maintenance pass: global product
// deduplication, reclassification moves, parent collapse with aggregate
// generation, and a rebuilt root index. The whole pass is computed in
// memory first, so a dry run produces exactly the report an apply would,
// and the no-loss check sees the final state before anything is written.
package consolidate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
	"github.com/IshaanNene/orange-catalog/internal/classify"
	"github.com/IshaanNene/orange-catalog/internal/store"
)

// IndexWriter is implemented by stores that persist the root index.
type IndexWriter interface {
	SaveIndex(*catalog.Index) error
}

// Options selects what one run does. The zero value is a full dry run.
type Options struct {
	// Apply writes the computed state back; false reports only.
	Apply bool

	// Category restricts the pass to one top-level category tree.
	Category string
}

// Consolidator owns one run over a catalog store.
type Consolidator struct {
	store      store.Store
	classifier *classify.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a consolidator.
func New(st store.Store, cl *classify.Classifier, logger *slog.Logger) *Consolidator {
	return &Consolidator{
		store:      st,
		classifier: cl,
		logger:     logger.With("component", "consolidator"),
		now:        time.Now,
	}
}

// tree is the in-memory working copy of the catalog during a run.
type tree struct {
	files map[string]*catalog.CategoryFile
	dirty map[string]bool
}

func (t *tree) file(path string) *catalog.CategoryFile { return t.files[path] }

func (t *tree) touch(path string) { t.dirty[path] = true }

func (t *tree) ensure(path string, now time.Time) *catalog.CategoryFile {
	if cf, ok := t.files[path]; ok {
		return cf
	}
	cf := catalog.NewCategoryFile(path, now)
	t.files[path] = cf
	t.dirty[path] = true
	return cf
}

func (t *tree) sortedPaths() []string {
	paths := make([]string, 0, len(t.files))
	for p := range t.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (t *tree) productIDs() map[string]string {
	ids := make(map[string]string)
	for path, cf := range t.files {
		for _, p := range cf.Products {
			ids[p.ProductID] = path
		}
	}
	return ids
}

// Run executes the four consolidation steps and returns the report. The
// only run-level failure is a lost product; per-file read errors are
// logged and the file skipped.
func (c *Consolidator) Run(opts Options) (*Report, error) {
	report := &Report{Applied: opts.Apply}

	t, err := c.load(opts.Category, report)
	if err != nil {
		return nil, err
	}

	before := t.productIDs()
	report.ProductsBefore = len(before)

	c.dedupe(t, report)
	c.redistribute(t, report)
	aggregates := c.collapse(t, report, opts.Category)

	// The root index spans every category, so a scoped run leaves it alone.
	var index *catalog.Index
	if opts.Category == "" {
		index = c.reindex(t, report)
	}

	after := t.productIDs()
	report.ProductsAfter = len(after)
	for id := range before {
		if _, ok := after[id]; !ok {
			report.LostProducts = append(report.LostProducts, id)
		}
	}
	sort.Strings(report.LostProducts)
	if report.Failed() {
		c.logger.Error("products lost during consolidation",
			"count", len(report.LostProducts))
		return report, fmt.Errorf("%w: %d ids", catalog.ErrProductsLost, len(report.LostProducts))
	}

	if !opts.Apply {
		c.logger.Info("dry run complete",
			"duplicates", len(report.DuplicatesRemoved),
			"relocations", len(report.Relocations))
		return report, nil
	}

	if err := c.write(t, aggregates, index); err != nil {
		return report, err
	}
	c.logger.Info("consolidation applied",
		"duplicates", len(report.DuplicatesRemoved),
		"relocations", len(report.Relocations),
		"aggregates", len(report.AggregatesWritten))
	return report, nil
}

// ensureLoaded returns the working copy of a category file, pulling it
// from the store first so a scoped run never overwrites an existing
// out-of-scope target with a fresh skeleton.
func (c *Consolidator) ensureLoaded(t *tree, path string) *catalog.CategoryFile {
	if cf := t.file(path); cf != nil {
		return cf
	}
	if cf, err := c.store.Get(path); err == nil {
		t.files[path] = cf
		return cf
	}
	return t.ensure(path, c.now())
}

func (c *Consolidator) load(category string, report *Report) (*tree, error) {
	paths, err := c.store.List()
	if err != nil {
		return nil, err
	}

	t := &tree{
		files: make(map[string]*catalog.CategoryFile),
		dirty: make(map[string]bool),
	}
	for _, path := range paths {
		if category != "" && catalog.TopCategory(path) != category {
			continue
		}
		cf, err := c.store.Get(path)
		if err != nil {
			c.logger.Warn("skipping unreadable category file", "path", path, "error", err)
			continue
		}
		t.files[path] = cf
		report.CategoriesScanned++
	}
	return t, nil
}

// dedupe keeps each product id in exactly one file: the richest record
// wins, equal richness keeps the incumbent. Files are visited in
// lexicographic order so the outcome is deterministic.
func (c *Consolidator) dedupe(t *tree, report *Report) {
	type owner struct {
		path  string
		index int
	}
	owners := make(map[string]owner)
	drops := make(map[string]map[int]bool)

	drop := func(path string, idx int) {
		if drops[path] == nil {
			drops[path] = make(map[int]bool)
		}
		drops[path][idx] = true
		t.touch(path)
	}

	for _, path := range t.sortedPaths() {
		for i, p := range t.file(path).Products {
			prev, seen := owners[p.ProductID]
			if !seen {
				owners[p.ProductID] = owner{path, i}
				continue
			}

			incumbent := t.file(prev.path).Products[prev.index]
			if catalog.Richer(p, incumbent) {
				drop(prev.path, prev.index)
				report.DuplicatesRemoved = append(report.DuplicatesRemoved, DuplicateRemoval{
					ProductID: p.ProductID, RemovedAt: prev.path, KeptAt: path,
				})
				owners[p.ProductID] = owner{path, i}
			} else {
				drop(path, i)
				report.DuplicatesRemoved = append(report.DuplicatesRemoved, DuplicateRemoval{
					ProductID: p.ProductID, RemovedAt: path, KeptAt: prev.path,
				})
			}
		}
	}

	for path, dropped := range drops {
		cf := t.file(path)
		kept := cf.Products[:0]
		for i, p := range cf.Products {
			if !dropped[i] {
				kept = append(kept, p)
			}
		}
		cf.Products = kept
	}
}

// redistribute moves products whose brand or title contradicts their
// current top-level category. Moves re-derive the subcategory and filter
// attributes for the destination; target files are created on demand.
func (c *Consolidator) redistribute(t *tree, report *Report) {
	for _, path := range t.sortedPaths() {
		cf := t.file(path)
		current := catalog.TopCategory(path)

		kept := cf.Products[:0]
		for _, p := range cf.Products {
			target := c.classifier.Reclassify(p, current)
			if target == "" || target == current {
				kept = append(kept, p)
				continue
			}

			targetPath := target
			p.Subcategory = classify.SuggestSubcategory(target, p.Title)
			if p.Subcategory != "" {
				targetPath = target + "/" + p.Subcategory
			}
			p.FilterAttributes = classify.DeriveFilterAttributes(p.Title, targetPath)

			dest := c.ensureLoaded(t, targetPath)
			dest.Products = append(dest.Products, p)
			t.touch(targetPath)
			t.touch(path)

			report.Relocations = append(report.Relocations, Relocation{
				ProductID: p.ProductID,
				Title:     p.Title,
				From:      path,
				To:        targetPath,
				Reason:    "reclassified " + current + " -> " + target,
			})
		}
		cf.Products = kept
	}
}

// collapse turns every parent that has child files into a metadata-only
// branch, pushing its direct products down into children, then builds the
// _all aggregate per top-level category. It also refreshes the derived
// fields of every leaf: featured brands, filter sheets, subcategory tags.
func (c *Consolidator) collapse(t *tree, report *Report, scope string) map[string]*catalog.CategoryFile {
	now := c.now()

	// In a scoped run only the scanned tree is collapsed; relocation
	// targets in other categories keep their current shape.
	inScope := func(path string) bool {
		return scope == "" || catalog.TopCategory(path) == scope
	}

	children := make(map[string][]string)
	for _, path := range t.sortedPaths() {
		if parent := catalog.ParentPath(path); parent != "" && inScope(path) {
			children[parent] = append(children[parent], path)
		}
	}

	// Push parent products into children before summarizing.
	for _, parent := range sortedKeys(children) {
		cf := t.file(parent)
		if cf == nil || len(cf.Products) == 0 {
			continue
		}
		category := catalog.TopCategory(parent)
		for _, p := range cf.Products {
			sub := classify.SuggestSubcategory(category, p.Title)
			if sub == "" {
				sub = "other"
			}
			childPath := parent + "/" + sub
			p.Subcategory = sub
			dest := c.ensureLoaded(t, childPath)
			dest.Products = append(dest.Products, p)
			t.touch(childPath)
			report.Relocations = append(report.Relocations, Relocation{
				ProductID: p.ProductID,
				Title:     p.Title,
				From:      parent,
				To:        childPath,
				Reason:    "parent collapse",
			})
		}
		cf.Products = nil
		t.touch(parent)
	}

	// Push-down may have created new children; recompute before summarizing.
	children = make(map[string][]string)
	for _, path := range t.sortedPaths() {
		if parent := catalog.ParentPath(path); parent != "" && inScope(path) {
			children[parent] = append(children[parent], path)
		}
	}

	// Refresh derived leaf fields.
	for _, path := range t.sortedPaths() {
		cf := t.file(path)
		if len(children[path]) > 0 || !inScope(path) {
			continue
		}
		for _, p := range cf.Products {
			category := catalog.TopCategory(path)
			if fixed := classify.ValidateSubcategory(category, p.Subcategory, p.Title); fixed != "" {
				p.Subcategory = fixed
				t.touch(path)
			}
			if len(p.FilterAttributes) == 0 {
				if attrs := classify.DeriveFilterAttributes(p.Title, path); len(attrs) > 0 {
					p.FilterAttributes = attrs
					t.touch(path)
				}
			}
		}
		cf.Filters = classify.FiltersForCategory(path)
		cf.FeaturedBrands = catalog.ComputeFeaturedBrands(cf.Products, catalog.MaxFeaturedBrands)
		t.touch(path)
	}

	// Summarize parents.
	for _, parent := range sortedKeys(children) {
		cf := c.ensureLoaded(t, parent)
		cf.Subcategories = cf.Subcategories[:0]
		for _, child := range children[parent] {
			childFile := t.file(child)
			cf.Subcategories = append(cf.Subcategories, catalog.SubcategorySummary{
				ID:           child,
				Name:         childFile.Name,
				Slug:         childFile.Slug,
				ProductCount: descendantCount(t, child, children),
				Path:         "/categories/" + child,
			})
		}
		cf.FeaturedBrands = catalog.ComputeFeaturedBrands(descendantProducts(t, parent, children), catalog.MaxFeaturedBrands)
		t.touch(parent)
		report.ParentsCollapsed = append(report.ParentsCollapsed, parent)
	}

	// Build one _all aggregate per collapsed top-level category.
	aggregates := make(map[string]*catalog.CategoryFile)
	for _, parent := range sortedKeys(children) {
		if strings.Contains(parent, "/") {
			continue
		}
		all := catalog.NewCategoryFile(parent+"/_all", now)
		all.Name = catalog.Titleize(parent) + " (All)"
		all.Products = descendantProducts(t, parent, children)
		all.Filters = classify.FiltersForCategory(parent)
		all.FeaturedBrands = catalog.ComputeFeaturedBrands(all.Products, catalog.MaxFeaturedBrands)

		summary := t.file(parent).Subcategories
		pills := make([]catalog.SubcategorySummary, len(summary))
		copy(pills, summary)
		sort.SliceStable(pills, func(i, j int) bool {
			return pills[i].ProductCount > pills[j].ProductCount
		})
		all.FilterOptions = &catalog.FilterOptions{Subcategories: pills}

		aggregates[parent+"/_all"] = all
		report.AggregatesWritten = append(report.AggregatesWritten, parent+"/_all")
	}
	sort.Strings(report.AggregatesWritten)

	return aggregates
}

func descendantCount(t *tree, path string, children map[string][]string) int {
	if kids := children[path]; len(kids) > 0 {
		total := 0
		for _, k := range kids {
			total += descendantCount(t, k, children)
		}
		return total
	}
	return len(t.file(path).Products)
}

func descendantProducts(t *tree, path string, children map[string][]string) []*catalog.Product {
	kids := children[path]
	if len(kids) == 0 {
		return append([]*catalog.Product(nil), t.file(path).Products...)
	}
	var out []*catalog.Product
	for _, k := range kids {
		out = append(out, descendantProducts(t, k, children)...)
	}
	return out
}

// reindex rebuilds the root index from leaf counts.
func (c *Consolidator) reindex(t *tree, report *Report) *catalog.Index {
	children := make(map[string]bool)
	for _, path := range t.sortedPaths() {
		if parent := catalog.ParentPath(path); parent != "" {
			children[parent] = true
		}
	}

	leafCounts := make(map[string]int)
	for _, path := range t.sortedPaths() {
		if !children[path] {
			leafCounts[path] = len(t.file(path).Products)
		}
	}

	index := catalog.BuildIndex(leafCounts, c.now())
	report.IndexedCategories = len(leafCounts)
	return index
}

func (c *Consolidator) write(t *tree, aggregates map[string]*catalog.CategoryFile, index *catalog.Index) error {
	for _, path := range t.sortedPaths() {
		if !t.dirty[path] {
			continue
		}
		if err := c.store.Put(path, t.file(path)); err != nil {
			return err
		}
	}

	for _, path := range sortedKeys(aggregates) {
		if err := c.store.Put(path, aggregates[path]); err != nil {
			return err
		}
	}

	if index == nil {
		return nil
	}
	if iw, ok := c.store.(IndexWriter); ok {
		if err := iw.SaveIndex(index); err != nil {
			return err
		}
	} else {
		c.logger.Debug("store has no index writer, skipping root index", "backend", c.store.Name())
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
