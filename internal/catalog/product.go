package catalog

import (
	"encoding/json"
)

// Product represents a single catalog product record.
type Product struct {
	// ProductID is the stable external identifier; unique across the catalog.
	ProductID string `json:"productId" bson:"productId"`

	// Title is the human-readable name and the source of all
	// classification signal.
	Title string `json:"title" bson:"title"`

	Brand string `json:"brand,omitempty" bson:"brand,omitempty"`
	URL   string `json:"url,omitempty" bson:"url,omitempty"`
	Slug  string `json:"slug,omitempty" bson:"slug,omitempty"`

	Price  *float64 `json:"price,omitempty" bson:"price,omitempty"`
	Rating *Rating  `json:"rating,omitempty" bson:"rating,omitempty"`

	Images *Images `json:"images,omitempty" bson:"images,omitempty"`

	// Subcategory is a kebab-case tag within the parent category, or empty
	// when no subcategory pattern matched.
	Subcategory string `json:"subcategory,omitempty" bson:"subcategory,omitempty"`

	// FilterAttributes maps filter group IDs to the product's value(s),
	// derived from title heuristics.
	FilterAttributes map[string]any `json:"filterAttributes,omitempty" bson:"filterAttributes,omitempty"`
}

// Rating holds an aggregate review score.
type Rating struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

// Images holds the named image URLs for a product. Gallery entries are
// distinct image identities, deduplicated by image UUID rather than URL.
type Images struct {
	Primary   string   `json:"primary,omitempty" bson:"primary,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Gallery   []string `json:"gallery,omitempty" bson:"gallery,omitempty"`
}

// Richness returns the length of the product's serialized form. When the
// same productId is discovered twice, the record with the greater richness
// wins; equal richness keeps the incumbent, so resolution is deterministic
// under lexicographic scan order.
func (p *Product) Richness() int {
	b, err := json.Marshal(p)
	if err != nil {
		return 0
	}
	return len(b)
}

// Richer reports whether candidate should replace incumbent for the same
// productId.
func Richer(candidate, incumbent *Product) bool {
	return candidate.Richness() > incumbent.Richness()
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	clone := *p
	if p.Price != nil {
		v := *p.Price
		clone.Price = &v
	}
	if p.Rating != nil {
		r := *p.Rating
		clone.Rating = &r
	}
	if p.Images != nil {
		img := *p.Images
		img.Gallery = append([]string(nil), p.Images.Gallery...)
		clone.Images = &img
	}
	if p.FilterAttributes != nil {
		attrs := make(map[string]any, len(p.FilterAttributes))
		for k, v := range p.FilterAttributes {
			attrs[k] = v
		}
		clone.FilterAttributes = attrs
	}
	return &clone
}
