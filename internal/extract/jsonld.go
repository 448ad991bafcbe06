package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

// productsFromJSONLD walks every ld+json script block and collects the
// product entities it can normalize. Listing pages embed ItemList or
// WebPage envelopes around the products, detail pages embed one Product
// directly; all three shapes funnel into the same normalizer.
func (e *Extractor) productsFromJSONLD(doc *goquery.Document) []*catalog.Product {
	var products []*catalog.Product

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			e.logger.Debug("skipping malformed ld+json block", "error", err)
			return
		}
		products = append(products, e.entitiesFrom(raw)...)
	})

	return products
}

// entitiesFrom recurses through arrays, @graph envelopes, ItemList and
// WebPage wrappers down to Product objects.
func (e *Extractor) entitiesFrom(raw any) []*catalog.Product {
	switch v := raw.(type) {
	case []any:
		var out []*catalog.Product
		for _, item := range v {
			out = append(out, e.entitiesFrom(item)...)
		}
		return out

	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			return e.entitiesFrom(graph)
		}

		switch typeOf(v) {
		case "Product":
			if p := e.normalizeProduct(v); p != nil {
				return []*catalog.Product{p}
			}
			return nil

		case "ItemList":
			var out []*catalog.Product
			elems, _ := v["itemListElement"].([]any)
			for _, el := range elems {
				m, ok := el.(map[string]any)
				if !ok {
					continue
				}
				if item, ok := m["item"]; ok {
					out = append(out, e.entitiesFrom(item)...)
				} else {
					out = append(out, e.entitiesFrom(m)...)
				}
			}
			return out

		case "WebPage":
			if main, ok := v["mainEntity"].(map[string]any); ok {
				if offers, ok := main["offers"].(map[string]any); ok {
					if offered, ok := offers["itemOffered"].([]any); ok {
						return e.entitiesFrom(offered)
					}
				}
				return e.entitiesFrom(main)
			}
			return nil

		case "ListItem":
			if item, ok := v["item"]; ok {
				return e.entitiesFrom(item)
			}
			return nil
		}
	}
	return nil
}

func typeOf(m map[string]any) string {
	switch t := m["@type"].(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// normalizeProduct maps one Product entity onto the catalog record. A
// missing or malformed identifier rejects the whole entity.
func (e *Extractor) normalizeProduct(m map[string]any) *catalog.Product {
	id := stringField(m, "sku")
	if id == "" {
		id = stringField(m, "productID")
	}
	if !ValidProductID(id) {
		return nil
	}

	p := &catalog.Product{
		ProductID: id,
		Title:     strings.TrimSpace(stringField(m, "name")),
		URL:       strings.TrimSpace(stringField(m, "url")),
	}

	switch b := m["brand"].(type) {
	case string:
		p.Brand = strings.TrimSpace(b)
	case map[string]any:
		p.Brand = strings.TrimSpace(stringField(b, "name"))
	}

	p.Images = buildImages(imageURLs(m["image"]))

	if offers, ok := m["offers"].(map[string]any); ok {
		if price, ok := numberField(offers, "price"); ok {
			p.Price = &price
		}
	}

	if ar, ok := m["aggregateRating"].(map[string]any); ok {
		rating := catalog.Rating{}
		if v, ok := numberField(ar, "ratingValue"); ok {
			rating.Average = v
		}
		if v, ok := numberField(ar, "reviewCount"); ok {
			rating.Count = int(v)
		}
		if rating.Average > 0 || rating.Count > 0 {
			p.Rating = &rating
		}
	}

	return p
}

// imageURLs accepts the image field as a string, a list of strings, or an
// ImageObject, stripping the stray whitespace the source embeds in URLs.
func imageURLs(raw any) []string {
	switch v := raw.(type) {
	case string:
		if u := strings.TrimSpace(v); u != "" {
			return []string{u}
		}
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, imageURLs(item)...)
		}
		return out
	case map[string]any:
		return imageURLs(v["url"])
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(v, "$")), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
