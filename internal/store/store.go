// Package store is the only component allowed to interpret the on-disk
// layout of the production data tree. Everything else goes through the
// Store interface, so the pipeline can run against a filesystem tree, an
// in-memory map in tests, or a MongoDB collection.
package store

import (
	"strings"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

// Store is the repository interface over the catalog.
type Store interface {
	// Get loads one category file. Returns catalog.ErrNotFound when the
	// path has never been written; callers create on demand.
	Get(categoryPath string) (*catalog.CategoryFile, error)

	// Put overwrites one category file wholesale, refreshing lastUpdated
	// and pageInfo.totalResults.
	Put(categoryPath string, cf *catalog.CategoryFile) error

	// Delete removes one category file. Deleting a missing path is not an
	// error.
	Delete(categoryPath string) error

	// List returns every category path in lexicographic order, excluding
	// the root index and generated _all aggregates.
	List() ([]string, error)

	// AllProductIDs scans every listed file fresh — files are the single
	// source of truth, so nothing is cached across calls.
	AllProductIDs() (map[string]struct{}, error)

	// Name identifies the backend.
	Name() string
}

// isAggregatePath reports whether a stored path is a generated aggregate
// (last segment starts with "_") rather than a real category file. List
// implementations exclude these.
func isAggregatePath(path string) bool {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	return strings.HasPrefix(path, "_")
}

// allProductIDs is the shared scan used by every backend.
func allProductIDs(s Store) (map[string]struct{}, error) {
	paths, err := s.List()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{})
	for _, path := range paths {
		cf, err := s.Get(path)
		if err != nil {
			continue
		}
		for _, p := range cf.Products {
			if p.ProductID != "" {
				ids[p.ProductID] = struct{}{}
			}
		}
	}
	return ids, nil
}
