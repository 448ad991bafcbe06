package consolidate

// DuplicateRemoval records one product copy dropped in favor of a richer
// record elsewhere.
type DuplicateRemoval struct {
	ProductID string `json:"productId"`
	RemovedAt string `json:"removedAt"`
	KeptAt    string `json:"keptAt"`
}

// Relocation records one product moved between category files.
type Relocation struct {
	ProductID string `json:"productId"`
	Title     string `json:"title,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"`
	Reason    string `json:"reason"`
}

// Report summarizes one consolidation run. A dry run and an apply run over
// the same tree produce the identical report; only Applied differs.
type Report struct {
	Applied bool `json:"applied"`

	CategoriesScanned int `json:"categoriesScanned"`
	ProductsBefore    int `json:"productsBefore"`
	ProductsAfter     int `json:"productsAfter"`

	DuplicatesRemoved []DuplicateRemoval `json:"duplicatesRemoved,omitempty"`
	Relocations       []Relocation       `json:"relocations,omitempty"`
	ParentsCollapsed  []string           `json:"parentsCollapsed,omitempty"`
	AggregatesWritten []string           `json:"aggregatesWritten,omitempty"`
	IndexedCategories int                `json:"indexedCategories"`

	// LostProducts is the only run-level failure: ids present before the
	// run and absent after. Must always be empty.
	LostProducts []string `json:"lostProducts,omitempty"`
}

// Failed reports whether the run violated the no-loss guarantee.
func (r *Report) Failed() bool { return len(r.LostProducts) > 0 }
