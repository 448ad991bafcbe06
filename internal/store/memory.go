package store

import (
	"sort"
	"sync"
	"time"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

// MemStore is a map-backed store for tests and dry runs. Files are cloned
// on the way in and out so callers cannot mutate stored state by aliasing.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]*catalog.CategoryFile
}

// NewMemStore creates an empty in-memory catalog store.
func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string]*catalog.CategoryFile)}
}

func (s *MemStore) Name() string { return "memory" }

func clone(cf *catalog.CategoryFile) *catalog.CategoryFile {
	c := *cf
	c.Breadcrumbs = append([]catalog.Breadcrumb(nil), cf.Breadcrumbs...)
	c.FeaturedBrands = append([]catalog.FeaturedBrand(nil), cf.FeaturedBrands...)
	c.Filters = append([]catalog.Filter(nil), cf.Filters...)
	c.Subcategories = append([]catalog.SubcategorySummary(nil), cf.Subcategories...)
	if cf.Products != nil {
		c.Products = make([]*catalog.Product, len(cf.Products))
		for i, p := range cf.Products {
			c.Products[i] = p.Clone()
		}
	}
	return &c
}

func (s *MemStore) Get(categoryPath string) (*catalog.CategoryFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cf, ok := s.files[categoryPath]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return clone(cf), nil
}

func (s *MemStore) Put(categoryPath string, cf *catalog.CategoryFile) error {
	cf.Touch(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[categoryPath] = clone(cf)
	return nil
}

func (s *MemStore) Delete(categoryPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, categoryPath)
	return nil
}

func (s *MemStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		if isAggregatePath(p) {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *MemStore) AllProductIDs() (map[string]struct{}, error) {
	return allProductIDs(s)
}
