// Package search builds the client-side search index over the catalog:
// keyword, brand, and category postings pointing at product ids, plus a
// flat product list for rendering results.
package search

import (
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/IshaanNene/orange-catalog/internal/store"
)

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "for": true, "with": true,
	"in": true, "on": true, "at": true, "to": true, "a": true, "an": true,
}

var tokenSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize lowercases text, splits it on non-alphanumerics, and drops stop
// words and tokens of two characters or fewer.
func Tokenize(text string) []string {
	var tokens []string
	for _, tok := range tokenSplitRe.Split(strings.ToLower(text), -1) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Entry is one product row of the index.
type Entry struct {
	ProductID string   `json:"productId"`
	Title     string   `json:"title"`
	Brand     string   `json:"brand,omitempty"`
	Category  string   `json:"category"`
	Price     *float64 `json:"price,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
}

// Index is the search-index.json document.
type Index struct {
	GeneratedAt   string              `json:"generatedAt"`
	TotalProducts int                 `json:"totalProducts"`
	Products      []Entry             `json:"products"`
	Keywords      map[string][]string `json:"keywords"`
	Brands        map[string][]string `json:"brands"`
	Categories    map[string][]string `json:"categories"`
}

// Build scans every category file and assembles the full index. Products
// are sorted by title for stable output; posting lists are sorted id sets.
func Build(st store.Store, logger *slog.Logger) (*Index, error) {
	log := logger.With("component", "search_index")

	paths, err := st.List()
	if err != nil {
		return nil, err
	}

	idx := &Index{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Keywords:    make(map[string][]string),
		Brands:      make(map[string][]string),
		Categories:  make(map[string][]string),
	}

	seen := make(map[string]bool)
	for _, path := range paths {
		cf, err := st.Get(path)
		if err != nil {
			log.Warn("skipping unreadable category file", "path", path, "error", err)
			continue
		}
		for _, p := range cf.Products {
			if p.ProductID == "" || seen[p.ProductID] {
				continue
			}
			seen[p.ProductID] = true

			entry := Entry{
				ProductID: p.ProductID,
				Title:     p.Title,
				Brand:     p.Brand,
				Category:  path,
				Price:     p.Price,
			}
			if p.Images != nil {
				entry.Thumbnail = p.Images.Thumbnail
			}
			idx.Products = append(idx.Products, entry)

			for _, tok := range Tokenize(p.Title) {
				idx.Keywords[tok] = append(idx.Keywords[tok], p.ProductID)
			}
			if p.Brand != "" {
				key := strings.ToLower(p.Brand)
				idx.Brands[key] = append(idx.Brands[key], p.ProductID)
			}
			idx.Categories[path] = append(idx.Categories[path], p.ProductID)
		}
	}

	sort.Slice(idx.Products, func(i, j int) bool {
		if idx.Products[i].Title != idx.Products[j].Title {
			return idx.Products[i].Title < idx.Products[j].Title
		}
		return idx.Products[i].ProductID < idx.Products[j].ProductID
	})
	idx.TotalProducts = len(idx.Products)

	for _, postings := range []map[string][]string{idx.Keywords, idx.Brands, idx.Categories} {
		for k, ids := range postings {
			postings[k] = sortedUnique(ids)
		}
	}

	log.Info("search index built",
		"products", idx.TotalProducts,
		"keywords", len(idx.Keywords),
		"brands", len(idx.Brands))
	return idx, nil
}

// Compact returns a copy of the index keeping only keywords that hit two or
// more products; brand and category postings survive untouched. This is the
// variant shipped to size-sensitive clients.
func (idx *Index) Compact() *Index {
	out := *idx
	out.Keywords = make(map[string][]string, len(idx.Keywords))
	for k, ids := range idx.Keywords {
		if len(ids) >= 2 {
			out.Keywords[k] = ids
		}
	}
	return &out
}

// Query returns the entries matching every token of q, in index order. An
// empty or all-stop-word query matches nothing.
func (idx *Index) Query(q string) []Entry {
	tokens := Tokenize(q)
	if len(tokens) == 0 {
		return nil
	}

	var match map[string]bool
	for _, tok := range tokens {
		ids := idx.Keywords[tok]
		// A token can also name a brand exactly.
		ids = append(ids, idx.Brands[tok]...)

		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			if match == nil || match[id] {
				set[id] = true
			}
		}
		match = set
		if len(match) == 0 {
			return nil
		}
	}

	var out []Entry
	for _, e := range idx.Products {
		if match[e.ProductID] {
			out = append(out, e)
		}
	}
	return out
}

// Write saves the index as pretty-printed JSON.
func Write(path string, idx *Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(idx)
}

func sortedUnique(ids []string) []string {
	sort.Strings(ids)
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || ids[i-1] != id {
			out = append(out, id)
		}
	}
	return out
}
