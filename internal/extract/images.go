package extract

import (
	"regexp"
	"strings"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

var (
	// productImages/<uuid>/svn/... is the CDN layout; the uuid segment
	// identifies the underlying asset regardless of requested size.
	assetKeyRe   = regexp.MustCompile(`productImages/([0-9a-f-]{8,})/`)
	sizeSuffixRe = regexp.MustCompile(`_\d+(\.(?:jpe?g|png|webp|avif))$`)
)

// assetKey returns the stable identity of an image URL: the CDN uuid
// segment when present, otherwise the URL with its size suffix stripped.
func assetKey(url string) string {
	if m := assetKeyRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return sizeSuffixRe.ReplaceAllString(url, "$1")
}

// normalizeImageURL rewrites any sized rendition onto the canonical
// full-size jpg, so `..._300.avif` and `..._600.webp` of the same asset
// collapse to one gallery entry.
func normalizeImageURL(url string) string {
	url = strings.TrimSpace(url)
	return sizeSuffixRe.ReplaceAllString(url, "_1000.jpg")
}

// sizedVariant rewrites a normalized URL onto a specific rendition size.
func sizedVariant(url string, size string) string {
	return sizeSuffixRe.ReplaceAllString(url, "_"+size+".jpg")
}

// dedupeGallery normalizes and deduplicates gallery URLs by asset identity,
// preserving first-seen order.
func dedupeGallery(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		key := assetKey(u)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, normalizeImageURL(u))
	}
	return out
}

// buildImages assembles the product image block from raw gallery URLs: the
// first asset provides the primary and thumbnail renditions, the full
// deduplicated set becomes the gallery.
func buildImages(urls []string) *catalog.Images {
	gallery := dedupeGallery(urls)
	if len(gallery) == 0 {
		return nil
	}
	return &catalog.Images{
		Primary:   sizedVariant(gallery[0], "600"),
		Thumbnail: sizedVariant(gallery[0], "100"),
		Gallery:   gallery,
	}
}
