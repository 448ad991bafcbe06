package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/andybalholm/brotli"
)

// Manifest describes one saved page archive: where the HTML came from, when
// it was captured, and which sub-resources were saved alongside it.
type Manifest struct {
	OriginalURL string             `json:"originalUrl"`
	ArchiveTime string             `json:"archiveTime"`
	Resources   []ManifestResource `json:"resources,omitempty"`
}

// ManifestResource is one captured sub-resource of a saved page.
type ManifestResource struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	ContentType string `json:"contentType,omitempty"`
}

// SavedPage is a loaded page archive directory.
type SavedPage struct {
	Dir      string
	Manifest *Manifest
	HTML     []byte
}

const maxPageSize = 64 << 20

// LoadPage reads one archive directory: manifest.json plus index.html or a
// brotli-compressed index.html.br. A missing manifest is tolerated since
// older captures predate it; missing HTML is not.
func LoadPage(dir string) (*SavedPage, error) {
	pg := &SavedPage{Dir: dir}

	if data, err := os.ReadFile(filepath.Join(dir, "manifest.json")); err == nil {
		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse manifest in %s: %w", dir, err)
		}
		pg.Manifest = &m
	}

	html, err := readHTML(dir)
	if err != nil {
		return nil, err
	}
	pg.HTML = html
	return pg, nil
}

func readHTML(dir string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(dir, "index.html")); err == nil {
		return data, nil
	}

	f, err := os.Open(filepath.Join(dir, "index.html.br"))
	if err != nil {
		return nil, fmt.Errorf("no index.html or index.html.br in %s", dir)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(brotli.NewReader(f), maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", filepath.Join(dir, "index.html.br"), err)
	}
	return data, nil
}

// OriginalURL returns the capture URL recorded in the manifest, or "".
func (p *SavedPage) OriginalURL() string {
	if p.Manifest == nil {
		return ""
	}
	return p.Manifest.OriginalURL
}

// ListPages finds archive directories under root: any directory holding an
// index.html or index.html.br, returned in lexicographic order.
func ListPages(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == "index.html" || d.Name() == "index.html.br" {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(dirs)
	// An archive holding both plain and compressed HTML lists once.
	out := dirs[:0]
	for i, d := range dirs {
		if i == 0 || dirs[i-1] != d {
			out = append(out, d)
		}
	}
	return out, nil
}
