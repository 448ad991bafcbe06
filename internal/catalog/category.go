package catalog

import (
	"strings"
	"time"
)

// CategoryFile is one JSON document in the catalog store. After
// consolidation a file either carries a products array (leaf) or a
// subcategories summary (branch), never both.
type CategoryFile struct {
	// CategoryID is the slash-separated path of the file within the store,
	// e.g. "appliances/refrigerators/french-door".
	CategoryID string `json:"categoryId" bson:"categoryId"`

	Name        string       `json:"name" bson:"name"`
	Slug        string       `json:"slug,omitempty" bson:"slug,omitempty"`
	Path        string       `json:"path,omitempty" bson:"path,omitempty"`
	Version     string       `json:"version,omitempty" bson:"version,omitempty"`
	LastUpdated string       `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty" bson:"breadcrumbs,omitempty"`

	PageInfo       PageInfo        `json:"pageInfo" bson:"pageInfo"`
	FeaturedBrands []FeaturedBrand `json:"featuredBrands" bson:"featuredBrands"`
	Filters        []Filter        `json:"filters,omitempty" bson:"filters,omitempty"`

	Products      []*Product           `json:"products,omitempty" bson:"products,omitempty"`
	Subcategories []SubcategorySummary `json:"subcategories,omitempty" bson:"subcategories,omitempty"`

	// FilterOptions appears only on generated _all aggregates.
	FilterOptions *FilterOptions `json:"filterOptions,omitempty" bson:"filterOptions,omitempty"`
}

// Breadcrumb is one step of the navigation trail shown above a category.
type Breadcrumb struct {
	Label string `json:"label" bson:"label"`
	URL   string `json:"url" bson:"url"`
}

// PageInfo carries listing metadata; TotalResults is always recomputed from
// len(products) on write.
type PageInfo struct {
	TotalResults int `json:"totalResults" bson:"totalResults"`
}

// FeaturedBrand is one entry of a category's top-brands strip.
type FeaturedBrand struct {
	BrandID   string `json:"brandId" bson:"brandId"`
	BrandName string `json:"brandName" bson:"brandName"`
	LogoURL   string `json:"logoUrl" bson:"logoUrl"`
	Count     int    `json:"count" bson:"count"`
}

// SubcategorySummary points a metadata-only parent at one of its children.
type SubcategorySummary struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	Slug         string `json:"slug" bson:"slug"`
	ProductCount int    `json:"productCount" bson:"productCount"`
	Path         string `json:"path,omitempty" bson:"path,omitempty"`
}

// Filter defines one accordion group of the category's filter sheet.
type Filter struct {
	FilterGroupID   string   `json:"filterGroupId" bson:"filterGroupId"`
	FilterGroupName string   `json:"filterGroupName" bson:"filterGroupName"`
	FilterType      string   `json:"filterType" bson:"filterType"` // checkbox, radio, select, range, single, multi
	Values          []string `json:"values,omitempty" bson:"values,omitempty"`
}

// FilterOptions holds the client-side filter pills of an _all aggregate.
type FilterOptions struct {
	Subcategories []SubcategorySummary `json:"subcategories" bson:"subcategories"`
}

// IsLeaf reports whether the file carries products directly.
func (c *CategoryFile) IsLeaf() bool { return len(c.Products) > 0 }

// IsBranch reports whether the file is metadata-only with child summaries.
func (c *CategoryFile) IsBranch() bool { return len(c.Products) == 0 && len(c.Subcategories) > 0 }

// Touch refreshes derived metadata before a write: lastUpdated and the
// product count. Featured brands are left to the caller since branch files
// compute them from the union of their children.
func (c *CategoryFile) Touch(now time.Time) {
	c.LastUpdated = now.Format(time.RFC3339)
	c.PageInfo.TotalResults = len(c.Products)
}

// TopCategory returns the first segment of the category path.
func TopCategory(categoryPath string) string {
	if i := strings.IndexByte(categoryPath, '/'); i >= 0 {
		return categoryPath[:i]
	}
	return categoryPath
}

// ParentPath returns the category path one level up, or "" at the top.
func ParentPath(categoryPath string) string {
	if i := strings.LastIndexByte(categoryPath, '/'); i >= 0 {
		return categoryPath[:i]
	}
	return ""
}

// NewCategoryFile builds a skeleton leaf file for a category path created
// lazily by whichever stage first needs it.
func NewCategoryFile(categoryPath string, now time.Time) *CategoryFile {
	segs := strings.Split(categoryPath, "/")
	name := Titleize(segs[len(segs)-1])

	crumbs := []Breadcrumb{{Label: "Home", URL: "/"}}
	for i := range segs {
		crumbs = append(crumbs, Breadcrumb{
			Label: Titleize(segs[i]),
			URL:   "/" + strings.Join(segs[:i+1], "/"),
		})
	}

	cf := &CategoryFile{
		CategoryID:  categoryPath,
		Name:        name,
		Slug:        segs[len(segs)-1],
		Path:        "/categories/" + categoryPath,
		Version:     "1.0",
		Breadcrumbs: crumbs,
	}
	cf.Touch(now)
	return cf
}
