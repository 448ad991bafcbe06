// Package extract turns saved HTML page archives into catalog product
// records. Each page runs through a fixed-priority chain of strategies;
// the first one that yields records wins, so structured data always beats
// markup scraping and markup scraping always beats script mining.
package extract

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

var productIDRe = regexp.MustCompile(`^\d{8,}$`)

// ValidProductID reports whether id looks like a real product identifier:
// purely numeric, at least eight digits. Everything else is template junk.
func ValidProductID(id string) bool {
	return productIDRe.MatchString(id)
}

// Extractor parses saved pages into product records.
type Extractor struct {
	logger *slog.Logger
}

// New creates an extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("component", "extractor")}
}

// strategy is one way of pulling product records out of a parsed page.
type strategy struct {
	name string
	run  func(doc *goquery.Document, node *html.Node) []*catalog.Product
}

// ExtractPage runs the strategy chain over one saved page. A page that
// yields no records is a normal outcome, not an error: category landing
// pages and interstitials simply have nothing to extract.
func (e *Extractor) ExtractPage(pg *SavedPage) ([]*catalog.Product, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pg.HTML))
	if err != nil {
		return nil, &catalog.ExtractError{Dir: pg.Dir, Err: err}
	}
	node, err := html.Parse(bytes.NewReader(pg.HTML))
	if err != nil {
		return nil, &catalog.ExtractError{Dir: pg.Dir, Err: err}
	}

	chain := []strategy{
		{"jsonld", func(d *goquery.Document, _ *html.Node) []*catalog.Product {
			return e.productsFromJSONLD(d)
		}},
		{"attributes", func(d *goquery.Document, _ *html.Node) []*catalog.Product {
			return e.productsFromAttributes(d)
		}},
		{"anchors", func(d *goquery.Document, _ *html.Node) []*catalog.Product {
			return e.productsFromAnchors(d)
		}},
		{"scripts", func(_ *goquery.Document, n *html.Node) []*catalog.Product {
			return e.productsFromScripts(n)
		}},
	}

	for _, s := range chain {
		records := dedupeByID(s.run(doc, node))
		if len(records) == 0 {
			continue
		}
		e.logger.Debug("page extracted",
			"dir", pg.Dir, "strategy", s.name, "products", len(records))
		return records, nil
	}

	e.logger.Debug("no products on page", "dir", pg.Dir)
	return nil, nil
}

// dedupeByID keeps the first record per product id, dropping anything with
// an invalid id outright.
func dedupeByID(records []*catalog.Product) []*catalog.Product {
	seen := make(map[string]bool, len(records))
	var out []*catalog.Product
	for _, p := range records {
		if p == nil || !ValidProductID(p.ProductID) || seen[p.ProductID] {
			continue
		}
		seen[p.ProductID] = true
		out = append(out, p)
	}
	return out
}

// productsFromAttributes reads product tiles annotated with data-product-id
// or data-sku attributes.
func (e *Extractor) productsFromAttributes(doc *goquery.Document) []*catalog.Product {
	var products []*catalog.Product

	doc.Find("[data-product-id], [data-sku]").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("data-product-id")
		if !ok {
			id, _ = s.Attr("data-sku")
		}
		if !ValidProductID(id) {
			return
		}

		p := &catalog.Product{ProductID: id}
		if brand, ok := s.Attr("data-brand"); ok {
			p.Brand = strings.TrimSpace(brand)
		}

		if title := s.Find(".product-title, [data-product-title], h2, h3").First(); title.Length() > 0 {
			p.Title = collapseSpace(title.Text())
		} else {
			p.Title = collapseSpace(s.Text())
		}

		if href, ok := s.Find("a[href]").First().Attr("href"); ok {
			p.URL = href
		}

		var gallery []string
		s.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok {
				gallery = append(gallery, src)
			}
		})
		p.Images = buildImages(gallery)

		products = append(products, p)
	})

	return products
}

var productHrefRe = regexp.MustCompile(`/p/([A-Za-z0-9-]+)/(\d{8,})(?:[/?#]|$)`)

// productsFromAnchors mines product detail links of the /p/<slug>/<id>
// shape. Anchor text doubles as the title, which is all a bare listing
// page gives us.
func (e *Extractor) productsFromAnchors(doc *goquery.Document) []*catalog.Product {
	var products []*catalog.Product

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := productHrefRe.FindStringSubmatch(href)
		if m == nil {
			return
		}

		products = append(products, &catalog.Product{
			ProductID: m[2],
			Slug:      strings.ToLower(m[1]),
			Title:     collapseSpace(s.Text()),
			URL:       href,
		})
	})

	return products
}

var (
	scriptIDRe    = regexp.MustCompile(`"(?:productId|itemId)"\s*:\s*"?(\d{8,})"?`)
	scriptLabelRe = regexp.MustCompile(`"(?:productLabel|productName)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	scriptBrandRe = regexp.MustCompile(`"(?:brandName|brand)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// productsFromScripts is the last resort: sweep inline script bodies for
// serialized product state. IDs are trustworthy here, titles and brands
// only when they sit in the same script block.
func (e *Extractor) productsFromScripts(root *html.Node) []*catalog.Product {
	var products []*catalog.Product

	for _, node := range htmlquery.Find(root, "//script/text()") {
		text := node.Data
		ids := scriptIDRe.FindAllStringSubmatch(text, -1)
		if ids == nil {
			continue
		}

		labels := scriptLabelRe.FindAllStringSubmatch(text, -1)
		brands := scriptBrandRe.FindAllStringSubmatch(text, -1)

		for i, m := range ids {
			p := &catalog.Product{ProductID: m[1]}
			if i < len(labels) {
				p.Title = unescapeJSON(labels[i][1])
			}
			if i < len(brands) {
				p.Brand = unescapeJSON(brands[i][1])
			}
			products = append(products, p)
		}
	}

	return products
}

func unescapeJSON(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

var spaceRe = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
