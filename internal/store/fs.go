package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

// FSStore maps category paths onto categories/<cat>[/<sub>...].json files
// under a base directory. Reads validate shape at the boundary so downstream
// components never branch on missing keys; malformed files are logged and
// skipped rather than aborting a pass.
type FSStore struct {
	base   string
	logger *slog.Logger
}

// NewFSStore creates a filesystem-backed catalog store rooted at baseDir
// (the directory holding categories/ and products/).
func NewFSStore(baseDir string, logger *slog.Logger) (*FSStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "categories"), 0o755); err != nil {
		return nil, fmt.Errorf("create categories dir: %w", err)
	}
	return &FSStore{
		base:   baseDir,
		logger: logger.With("component", "fs_store"),
	}, nil
}

func (s *FSStore) Name() string { return "fs" }

func (s *FSStore) categoryFile(categoryPath string) string {
	return filepath.Join(s.base, "categories", filepath.FromSlash(categoryPath)+".json")
}

func (s *FSStore) Get(categoryPath string) (*catalog.CategoryFile, error) {
	data, err := os.ReadFile(s.categoryFile(categoryPath))
	if os.IsNotExist(err) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}

	var cf catalog.CategoryFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}
	if cf.CategoryID == "" {
		cf.CategoryID = categoryPath
	}
	return &cf, nil
}

func (s *FSStore) Put(categoryPath string, cf *catalog.CategoryFile) error {
	cf.Touch(time.Now())

	path := s.categoryFile(categoryPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cf); err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}

	s.logger.Debug("category written", "path", categoryPath, "products", len(cf.Products))
	return nil
}

func (s *FSStore) Delete(categoryPath string) error {
	err := os.Remove(s.categoryFile(categoryPath))
	if err != nil && !os.IsNotExist(err) {
		return &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}
	return nil
}

func (s *FSStore) List() ([]string, error) {
	root := filepath.Join(s.base, "categories")

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		// index.json and generated aggregates are not category files.
		if d.Name() == "index.json" || strings.HasPrefix(d.Name(), "_") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, strings.TrimSuffix(filepath.ToSlash(rel), ".json"))
		return nil
	})
	if err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Err: err}
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *FSStore) AllProductIDs() (map[string]struct{}, error) {
	return allProductIDs(s)
}

// --- Root index ---

// LoadIndex reads categories/index.json.
func (s *FSStore) LoadIndex() (*catalog.Index, error) {
	data, err := os.ReadFile(filepath.Join(s.base, "categories", "index.json"))
	if os.IsNotExist(err) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Path: "index.json", Err: err}
	}
	var idx catalog.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Path: "index.json", Err: err}
	}
	return &idx, nil
}

// SaveIndex writes categories/index.json.
func (s *FSStore) SaveIndex(idx *catalog.Index) error {
	f, err := os.Create(filepath.Join(s.base, "categories", "index.json"))
	if err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: "index.json", Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(idx); err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: "index.json", Err: err}
	}
	return nil
}

// --- Per-product detail files ---

// ProductDetailPath returns products/<id>/details.json under the base.
func (s *FSStore) ProductDetailPath(productID string) string {
	return filepath.Join(s.base, "products", productID, "details.json")
}

// SaveProductDetails writes the full per-product record maintained
// separately from category files.
func (s *FSStore) SaveProductDetails(p *catalog.Product) error {
	path := s.ProductDetailPath(p.ProductID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: p.ProductID, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: p.ProductID, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: p.ProductID, Err: err}
	}
	return nil
}

// ProductDirs lists products/<id> directories in lexicographic order.
func (s *FSStore) ProductDirs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.base, "products"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Path: "products", Err: err}
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(s.base, "products", e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Base returns the root of the production data tree.
func (s *FSStore) Base() string { return s.base }
