package consolidate

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
	"github.com/IshaanNene/orange-catalog/internal/classify"
	"github.com/IshaanNene/orange-catalog/internal/store"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

func price(v float64) *float64 { return &v }

// fixtureStore builds a tree with one cross-file duplicate, one misfiled
// furniture product, and one stray refrigerator.
func fixtureStore(t *testing.T) *store.MemStore {
	t.Helper()
	st := store.NewMemStore()

	richFridge := &catalog.Product{
		ProductID:   "316272947",
		Title:       "GE 27 cu. ft. French Door Refrigerator",
		Brand:       "GE",
		Price:       price(1998),
		Rating:      &catalog.Rating{Average: 4.5, Count: 1287},
		Subcategory: "french-door",
	}
	poorFridge := &catalog.Product{
		ProductID: "316272947",
		Title:     "GE 27 cu. ft. French Door Refrigerator",
	}
	cart := &catalog.Product{
		ProductID: "318554321",
		Title:     "StyleWell Rolling Kitchen Cart with Butcher Block Top",
		Brand:     "StyleWell",
	}
	strayFridge := &catalog.Product{
		ProductID: "320119876",
		Title:     "LG 26 cu. ft. Smart Counter-Depth Refrigerator",
		Brand:     "LG",
	}

	leaf := catalog.NewCategoryFile("appliances/french-door", fixedTime())
	leaf.Products = []*catalog.Product{richFridge}
	if err := st.Put("appliances/french-door", leaf); err != nil {
		t.Fatal(err)
	}

	parent := catalog.NewCategoryFile("appliances", fixedTime())
	parent.Products = []*catalog.Product{poorFridge, cart}
	if err := st.Put("appliances", parent); err != nil {
		t.Fatal(err)
	}

	tools := catalog.NewCategoryFile("tools", fixedTime())
	tools.Products = []*catalog.Product{strayFridge}
	if err := st.Put("tools", tools); err != nil {
		t.Fatal(err)
	}

	return st
}

func fixedTime() time.Time {
	return time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
}

func newConsolidator(st store.Store) *Consolidator {
	return New(st, classify.New(testLogger), testLogger)
}

func TestRunApply(t *testing.T) {
	st := fixtureStore(t)
	report, err := newConsolidator(st).Run(Options{Apply: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Failed() {
		t.Fatalf("lost products: %v", report.LostProducts)
	}
	if report.ProductsBefore != 3 || report.ProductsAfter != 3 {
		t.Errorf("products before/after = %d/%d, want 3/3",
			report.ProductsBefore, report.ProductsAfter)
	}

	if len(report.DuplicatesRemoved) != 1 {
		t.Fatalf("duplicates = %v, want 1", report.DuplicatesRemoved)
	}
	dup := report.DuplicatesRemoved[0]
	if dup.ProductID != "316272947" || dup.RemovedAt != "appliances" || dup.KeptAt != "appliances/french-door" {
		t.Errorf("richer record must win: %+v", dup)
	}

	relocated := make(map[string]string)
	for _, r := range report.Relocations {
		relocated[r.ProductID] = r.To
	}
	if relocated["318554321"] != "furniture/kitchen-carts" {
		t.Errorf("cart relocated to %q, want furniture/kitchen-carts", relocated["318554321"])
	}
	if relocated["320119876"] != "appliances/refrigerators" {
		t.Errorf("stray fridge relocated to %q, want appliances/refrigerators", relocated["320119876"])
	}

	// The parent became a metadata-only branch.
	parent, err := st.Get("appliances")
	if err != nil {
		t.Fatal(err)
	}
	if !parent.IsBranch() {
		t.Errorf("appliances should be a branch, got %d products and %d subcategories",
			len(parent.Products), len(parent.Subcategories))
	}

	// The aggregate carries every descendant product.
	all, err := st.Get("appliances/_all")
	if err != nil {
		t.Fatalf("missing appliances/_all: %v", err)
	}
	if len(all.Products) != 2 {
		t.Errorf("aggregate has %d products, want 2", len(all.Products))
	}
	if all.FilterOptions == nil || len(all.FilterOptions.Subcategories) != len(parent.Subcategories) {
		t.Errorf("aggregate filter options = %+v", all.FilterOptions)
	}

	// Aggregates never show up as category files.
	paths, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		if p == "appliances/_all" {
			t.Error("aggregate leaked into List")
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	st := fixtureStore(t)
	c := newConsolidator(st)

	if _, err := c.Run(Options{Apply: true}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second, err := c.Run(Options{Apply: true})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.DuplicatesRemoved) != 0 {
		t.Errorf("second run removed duplicates: %v", second.DuplicatesRemoved)
	}
	if len(second.Relocations) != 0 {
		t.Errorf("second run relocated products: %v", second.Relocations)
	}
	if second.ProductsBefore != second.ProductsAfter {
		t.Errorf("second run changed product count: %d -> %d",
			second.ProductsBefore, second.ProductsAfter)
	}
}

func TestDryRunMatchesApply(t *testing.T) {
	dryStore := fixtureStore(t)
	applyStore := fixtureStore(t)

	dry, err := newConsolidator(dryStore).Run(Options{})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	applied, err := newConsolidator(applyStore).Run(Options{Apply: true})
	if err != nil {
		t.Fatalf("apply run: %v", err)
	}

	if dry.Applied || !applied.Applied {
		t.Errorf("Applied flags = %v/%v", dry.Applied, applied.Applied)
	}
	dry.Applied = true
	if !reflect.DeepEqual(dry, applied) {
		t.Errorf("dry run report diverges from apply report:\n dry: %+v\n apply: %+v", dry, applied)
	}

	// Dry run must leave the store untouched.
	parent, err := dryStore.Get("appliances")
	if err != nil {
		t.Fatal(err)
	}
	if len(parent.Products) != 2 {
		t.Errorf("dry run modified the store: appliances has %d products, want 2", len(parent.Products))
	}
	if _, err := dryStore.Get("appliances/_all"); err == nil {
		t.Error("dry run wrote an aggregate")
	}
}

func TestRunCategoryScope(t *testing.T) {
	st := fixtureStore(t)

	report, err := newConsolidator(st).Run(Options{Apply: true, Category: "tools"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.CategoriesScanned != 1 {
		t.Errorf("scanned %d categories, want 1", report.CategoriesScanned)
	}

	// The duplicate outside the scope must survive.
	parent, err := st.Get("appliances")
	if err != nil {
		t.Fatal(err)
	}
	if len(parent.Products) != 2 {
		t.Errorf("out-of-scope file was modified: %d products, want 2", len(parent.Products))
	}
}
