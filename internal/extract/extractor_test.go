package extract

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/andybalholm/brotli"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

const listingJSONLD = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "WebPage",
  "mainEntity": {
    "@type": "OfferCatalog",
    "offers": {
      "@type": "Offer",
      "itemOffered": [
        {
          "@type": "Product",
          "sku": "316272947",
          "name": "GE 27 cu. ft. French Door Refrigerator",
          "brand": {"@type": "Brand", "name": "GE"},
          "url": "/p/ge-refrigerator/316272947",
          "image": " https://images.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/ge-refrigerator_600.jpg ",
          "offers": {"@type": "Offer", "price": "1998.00"},
          "aggregateRating": {"ratingValue": 4.5, "reviewCount": 1287}
        },
        {
          "@type": "Product",
          "sku": "DUMMY-SKU",
          "name": "Template Placeholder"
        },
        {
          "@type": "Product",
          "sku": "12345",
          "name": "Too Short"
        }
      ]
    }
  }
}
</script>
</head><body>
<div data-product-id="999888777666"><h3>Should Not Be Reached</h3></div>
</body></html>`

func TestExtractPageJSONLD(t *testing.T) {
	e := New(testLogger)

	products, err := e.ExtractPage(&SavedPage{Dir: "test", HTML: []byte(listingJSONLD)})
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1 (invalid ids must be dropped)", len(products))
	}

	p := products[0]
	if p.ProductID != "316272947" {
		t.Errorf("ProductID = %q, want 316272947", p.ProductID)
	}
	if p.Title != "GE 27 cu. ft. French Door Refrigerator" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Brand != "GE" {
		t.Errorf("Brand = %q, want GE", p.Brand)
	}
	if p.Price == nil || *p.Price != 1998.00 {
		t.Errorf("Price = %v, want 1998.00", p.Price)
	}
	if p.Rating == nil || p.Rating.Average != 4.5 || p.Rating.Count != 1287 {
		t.Errorf("Rating = %+v", p.Rating)
	}
	if p.Images == nil {
		t.Fatal("Images = nil")
	}
	want := "https://images.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/ge-refrigerator_1000.jpg"
	if len(p.Images.Gallery) != 1 || p.Images.Gallery[0] != want {
		t.Errorf("Gallery = %v, want [%s]", p.Images.Gallery, want)
	}
}

const listingAttrs = `<!DOCTYPE html>
<html><body>
<div class="pod" data-product-id="203154121" data-brand="DEWALT">
  <h3>DEWALT 12 in. Sliding Compound Miter Saw</h3>
  <a href="/p/dewalt-miter-saw/203154121">View</a>
  <img src="https://images.example.com/productImages/aa11bb22-cc33-dd44-ee55-ff6677889900/svn/saw_300.avif">
</div>
<div class="pod" data-sku="207083313">
  <h3>Husky 52 in. Tool Chest</h3>
</div>
<div class="pod" data-product-id="not-a-number">
  <h3>Ad Slot</h3>
</div>
</body></html>`

func TestExtractPageAttributes(t *testing.T) {
	e := New(testLogger)

	products, err := e.ExtractPage(&SavedPage{Dir: "test", HTML: []byte(listingAttrs)})
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	if products[0].ProductID != "203154121" || products[0].Brand != "DEWALT" {
		t.Errorf("first product = %+v", products[0])
	}
	if products[0].Title != "DEWALT 12 in. Sliding Compound Miter Saw" {
		t.Errorf("Title = %q", products[0].Title)
	}
	if products[0].Images == nil || len(products[0].Images.Gallery) != 1 {
		t.Errorf("Images = %+v", products[0].Images)
	}
	if products[1].ProductID != "207083313" {
		t.Errorf("second product id = %q", products[1].ProductID)
	}
}

const listingAnchors = `<!DOCTYPE html>
<html><body>
<a href="/p/lg-washer-wm4000/207233444">LG 4.5 cu. ft. Front Load Washer</a>
<a href="/p/lg-washer-wm4000/207233444?variant=white">LG 4.5 cu. ft. Front Load Washer</a>
<a href="/c/appliances">Appliances</a>
<a href="/p/short-id/1234">Bad Link</a>
</body></html>`

func TestExtractPageAnchors(t *testing.T) {
	e := New(testLogger)

	products, err := e.ExtractPage(&SavedPage{Dir: "test", HTML: []byte(listingAnchors)})
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1 after dedup", len(products))
	}
	if products[0].ProductID != "207233444" {
		t.Errorf("ProductID = %q", products[0].ProductID)
	}
	if products[0].Slug != "lg-washer-wm4000" {
		t.Errorf("Slug = %q", products[0].Slug)
	}
	if products[0].Title != "LG 4.5 cu. ft. Front Load Washer" {
		t.Errorf("Title = %q", products[0].Title)
	}
}

const listingScripts = `<!DOCTYPE html>
<html><body>
<script>
window.__STATE__ = {"products":[
  {"productId":"312456789","productLabel":"Samsung 28 cu. ft. Side-by-Side Refrigerator","brandName":"Samsung"},
  {"productId":"318765432","productLabel":"Whirlpool Top Load Washer","brandName":"Whirlpool"}
]};
</script>
</body></html>`

func TestExtractPageScripts(t *testing.T) {
	e := New(testLogger)

	products, err := e.ExtractPage(&SavedPage{Dir: "test", HTML: []byte(listingScripts)})
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].ProductID != "312456789" || products[0].Brand != "Samsung" {
		t.Errorf("first product = %+v", products[0])
	}
	if products[1].Title != "Whirlpool Top Load Washer" {
		t.Errorf("second title = %q", products[1].Title)
	}
}

func TestExtractPageEmpty(t *testing.T) {
	e := New(testLogger)

	products, err := e.ExtractPage(&SavedPage{
		Dir:  "test",
		HTML: []byte(`<html><body><h1>About Us</h1></body></html>`),
	})
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if products != nil {
		t.Errorf("got %d products from an empty page, want none", len(products))
	}
}

func TestValidProductID(t *testing.T) {
	valid := []string{"12345678", "316272947", "00000000"}
	invalid := []string{"", "1234567", "31627294a", "SKU-316272947", "316 272 947"}

	for _, id := range valid {
		if !ValidProductID(id) {
			t.Errorf("ValidProductID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidProductID(id) {
			t.Errorf("ValidProductID(%q) = true, want false", id)
		}
	}
}

func TestDedupeGallery(t *testing.T) {
	urls := []string{
		"https://cdn.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/fridge_600.jpg",
		"https://cdn.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/fridge_100.webp",
		"https://cdn.example.com/productImages/11112222-3333-4444-5555-666677778888/svn/fridge-open_300.avif",
		"  https://cdn.example.com/productImages/11112222-3333-4444-5555-666677778888/svn/fridge-open_1000.jpg  ",
		"",
	}

	got := dedupeGallery(urls)
	want := []string{
		"https://cdn.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/fridge_1000.jpg",
		"https://cdn.example.com/productImages/11112222-3333-4444-5555-666677778888/svn/fridge-open_1000.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeGallery = %v, want %v", got, want)
	}
}

func TestBuildImages(t *testing.T) {
	imgs := buildImages([]string{
		"https://cdn.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/fridge_600.jpg",
	})
	if imgs == nil {
		t.Fatal("buildImages returned nil")
	}
	if want := "https://cdn.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/fridge_600.jpg"; imgs.Primary != want {
		t.Errorf("Primary = %q, want %q", imgs.Primary, want)
	}
	if want := "https://cdn.example.com/productImages/9a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/svn/fridge_100.jpg"; imgs.Thumbnail != want {
		t.Errorf("Thumbnail = %q, want %q", imgs.Thumbnail, want)
	}

	if buildImages(nil) != nil {
		t.Error("buildImages(nil) should be nil")
	}
}

func TestLoadPage(t *testing.T) {
	t.Run("plain html with manifest", func(t *testing.T) {
		dir := t.TempDir()
		html := []byte(`<html><body>ok</body></html>`)
		if err := os.WriteFile(filepath.Join(dir, "index.html"), html, 0o644); err != nil {
			t.Fatal(err)
		}
		manifest := []byte(`{"originalUrl":"https://www.example.com/c/appliances","archiveTime":"2025-11-02T10:00:00Z"}`)
		if err := os.WriteFile(filepath.Join(dir, "manifest.json"), manifest, 0o644); err != nil {
			t.Fatal(err)
		}

		pg, err := LoadPage(dir)
		if err != nil {
			t.Fatalf("LoadPage: %v", err)
		}
		if string(pg.HTML) != string(html) {
			t.Errorf("HTML = %q", pg.HTML)
		}
		if pg.OriginalURL() != "https://www.example.com/c/appliances" {
			t.Errorf("OriginalURL = %q", pg.OriginalURL())
		}
	})

	t.Run("brotli compressed html", func(t *testing.T) {
		dir := t.TempDir()
		html := []byte(`<html><body>compressed</body></html>`)

		f, err := os.Create(filepath.Join(dir, "index.html.br"))
		if err != nil {
			t.Fatal(err)
		}
		w := brotli.NewWriter(f)
		if _, err := w.Write(html); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		f.Close()

		pg, err := LoadPage(dir)
		if err != nil {
			t.Fatalf("LoadPage: %v", err)
		}
		if string(pg.HTML) != string(html) {
			t.Errorf("HTML = %q, want %q", pg.HTML, html)
		}
		if pg.OriginalURL() != "" {
			t.Errorf("OriginalURL = %q, want empty without manifest", pg.OriginalURL())
		}
	})

	t.Run("missing html", func(t *testing.T) {
		if _, err := LoadPage(t.TempDir()); err == nil {
			t.Error("expected error for directory without html")
		}
	})
}

func TestListPages(t *testing.T) {
	root := t.TempDir()
	for _, sub := range []string{"b/page2", "a/page1"} {
		dir := filepath.Join(root, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, "c", "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	dirs, err := ListPages(root)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("got %d dirs, want 2", len(dirs))
	}
	if filepath.Base(dirs[0]) != "page1" || filepath.Base(dirs[1]) != "page2" {
		t.Errorf("dirs = %v, want sorted page1 then page2", dirs)
	}
}
