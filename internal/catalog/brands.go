package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// MaxFeaturedBrands is the size of a category's top-brands strip.
const MaxFeaturedBrands = 6

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name to a lowercase kebab-case slug.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// Titleize converts a kebab-case slug back to a display name.
func Titleize(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ComputeFeaturedBrands counts brands across products and returns the top
// entries, most products first, ties broken by brand name ascending.
func ComputeFeaturedBrands(products []*Product, max int) []FeaturedBrand {
	counts := make(map[string]int)
	for _, p := range products {
		if p.Brand != "" {
			counts[p.Brand]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > max {
		names = names[:max]
	}

	featured := make([]FeaturedBrand, 0, len(names))
	for _, name := range names {
		featured = append(featured, FeaturedBrand{
			BrandID:   Slugify(name),
			BrandName: name,
			LogoURL:   "images/brands/" + Slugify(name) + ".svg",
			Count:     counts[name],
		})
	}
	return featured
}
