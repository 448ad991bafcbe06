package classify

import (
	"io"
	"log/slog"
	"testing"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

func TestClassify(t *testing.T) {
	c := New(testLogger)

	tests := []struct {
		name     string
		title    string
		brand    string
		wantPath string
		wantSub  string
	}{
		{
			name:     "french door refrigerator",
			title:    "GE 27 cu. ft. French Door Refrigerator in Fingerprint Resistant Stainless Steel",
			brand:    "GE",
			wantPath: "appliances/french-door",
			wantSub:  "french-door",
		},
		{
			name:     "side by side",
			title:    "Samsung 28 cu. ft. Side-by-Side Refrigerator",
			brand:    "Samsung",
			wantPath: "appliances/side-by-side",
			wantSub:  "side-by-side",
		},
		{
			name:     "gas range",
			title:    "Whirlpool 5.0 cu. ft. Gas Range with Self Cleaning Oven",
			brand:    "Whirlpool",
			wantPath: "appliances/ranges",
			wantSub:  "ranges",
		},
		{
			name:     "range hood is not a range",
			title:    "ZLINE 30 in. Convertible Wall Mount Range Hood",
			brand:    "ZLINE",
			wantPath: "appliances/range-hoods",
			wantSub:  "range-hoods",
		},
		{
			name:     "deny listed brand never lands in appliances",
			title:    "StyleWell Rolling Kitchen Cart with Butcher Block Top",
			brand:    "StyleWell",
			wantPath: "furniture/kitchen-carts",
			wantSub:  "kitchen-carts",
		},
		{
			name:     "miter saw",
			title:    "DEWALT 12 in. Sliding Compound Miter Saw",
			brand:    "DEWALT",
			wantPath: "tools/miter-saws",
			wantSub:  "miter-saws",
		},
		{
			name:     "kitchen faucet",
			title:    "Delta Essa Single-Handle Pull-Down Kitchen Faucet",
			brand:    "Delta",
			wantPath: "plumbing/kitchen-faucets",
			wantSub:  "kitchen-faucets",
		},
		{
			name:     "artificial arrangement",
			title:    "Nearly Natural 24 in. Artificial Hydrangea Arrangement in Vase",
			brand:    "Nearly Natural",
			wantPath: "home-decor/artificial-plants",
			wantSub:  "artificial-plants",
		},
		{
			name:     "vacuum sealer is not floor care",
			title:    "FoodSaver Vacuum Sealer Machine with Bags",
			brand:    "FoodSaver",
			wantPath: "other",
			wantSub:  "",
		},
		{
			name:     "unmatched goes to overflow",
			title:    "Gift Card Holder",
			brand:    "Acme",
			wantPath: "other",
			wantSub:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPath, gotSub := c.Classify(tt.title, tt.brand)
			if gotPath != tt.wantPath {
				t.Errorf("Classify(%q, %q) path = %q, want %q", tt.title, tt.brand, gotPath, tt.wantPath)
			}
			if gotSub != tt.wantSub {
				t.Errorf("Classify(%q, %q) subcategory = %q, want %q", tt.title, tt.brand, gotSub, tt.wantSub)
			}
		})
	}
}

func TestReclassify(t *testing.T) {
	c := New(testLogger)

	tests := []struct {
		name    string
		title   string
		brand   string
		current string
		want    string
	}{
		{
			name:    "furniture brand cart leaves appliances",
			title:   "StyleWell Rolling Kitchen Cart with Butcher Block Top",
			brand:   "StyleWell",
			current: "appliances",
			want:    "furniture",
		},
		{
			name:    "deny listed faucet goes to overflow",
			title:   "KOHLER Simplice Pull-Down Kitchen Faucet",
			brand:   "KOHLER",
			current: "appliances",
			want:    "other",
		},
		{
			name:    "decor brand plants leave appliances",
			title:   "NATURAE DECOR 30 in. Artificial Hydrangea Plant",
			brand:   "NATURAE DECOR",
			current: "appliances",
			want:    "home-decor",
		},
		{
			name:    "appliance brand fridge comes home",
			title:   "LG 26 cu. ft. Smart Counter-Depth Refrigerator",
			brand:   "LG",
			current: "other",
			want:    "appliances",
		},
		{
			name:    "appliance brand without appliance title stays put",
			title:   "Samsung 65 in. QLED TV",
			brand:   "Samsung",
			current: "electronics",
			want:    "",
		},
		{
			name:    "appliance brand in appliances is trusted",
			title:   "GE Profile Opal Nugget Ice Maker",
			brand:   "GE",
			current: "appliances",
			want:    "",
		},
		{
			name:    "welder filed under appliances moves to tools",
			title:   "AMICO MIG Welder 140 Amp Flux Core",
			brand:   "AMICO",
			current: "appliances",
			want:    "tools",
		},
		{
			name:    "wine cooler in storage moves to appliances",
			title:   "Vissani 28-Bottle Wine Cooler",
			brand:   "Vissani",
			current: "storage",
			want:    "appliances",
		},
		{
			name:    "stray refrigerator moves to appliances",
			title:   "Galanz 10 cu. ft. Top Freezer Refrigerator",
			brand:   "Galanz",
			current: "furniture",
			want:    "appliances",
		},
		{
			name:    "freezer bags stay in storage",
			title:   "Hefty Slider Freezer Bags, Gallon, 50 Count",
			brand:   "Hefty",
			current: "storage",
			want:    "",
		},
		{
			name:    "home decor placements are deliberate",
			title:   "Table Mirror with Stand",
			brand:   "Acme",
			current: "home-decor",
			want:    "",
		},
		{
			name:    "demolition tool leaves electrical",
			title:   "Makita 35 lb. Demolition Breaker Hammer",
			brand:   "Makita",
			current: "electrical",
			want:    "tools",
		},
		{
			name:    "makeup vanity in other moves to furniture",
			title:   "Makeup Vanity Table with LED Mirror",
			brand:   "Acme",
			current: "other",
			want:    "furniture",
		},
		{
			name:    "no evidence means no move",
			title:   "Wood Coffee Table",
			brand:   "Acme",
			current: "furniture",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &catalog.Product{Title: tt.title, Brand: tt.brand}
			if got := c.Reclassify(p, tt.current); got != tt.want {
				t.Errorf("Reclassify(%q, %q) = %q, want %q", tt.title, tt.current, got, tt.want)
			}
		})
	}
}

func TestSuggestSubcategory(t *testing.T) {
	tests := []struct {
		category string
		title    string
		want     string
	}{
		// Specific forms must win over the generic refrigerator pattern.
		{"appliances", "36 in. French Door Refrigerator", "french-door"},
		{"appliances", "Side by Side Refrigerator in Stainless", "side-by-side"},
		{"appliances", "18 cu. ft. Top Freezer Refrigerator", "top-freezer"},
		{"appliances", "Counter-Depth Refrigerator", "refrigerators"},
		{"appliances", "Upright Freezer 17 cu. ft.", "freezers"},
		{"appliances", "Front Load Washer with Steam", "washers-dryers"},
		{"tools", "20V Cordless Hammer Drill Kit", "hammer-drills"},
		{"tools", "20V Cordless Drill Driver", "drills"},
		{"furniture", "Bar Cart with Wine Rack", "kitchen-carts"},
		{"plumbing", "Bathroom Faucet in Brushed Nickel", "bathroom-faucets"},
		{"appliances", "Stand Mixer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.title, func(t *testing.T) {
			if got := SuggestSubcategory(tt.category, tt.title); got != tt.want {
				t.Errorf("SuggestSubcategory(%q, %q) = %q, want %q", tt.category, tt.title, got, tt.want)
			}
		})
	}
}

func TestValidateSubcategory(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		subcategory string
		title       string
		want        string
	}{
		{
			name:        "valid slug is accepted",
			category:    "appliances",
			subcategory: "dishwashers",
			title:       "Top Control Dishwasher",
			want:        "",
		},
		{
			name:        "refrigerator filed under ranges is corrected",
			category:    "appliances",
			subcategory: "ranges",
			title:       "25 cu. ft. French Door Refrigerator",
			want:        "french-door",
		},
		{
			name:        "unknown slug is resuggested",
			category:    "appliances",
			subcategory: "coolers",
			title:       "28-Bottle Wine Cooler",
			want:        "beverage-coolers",
		},
		{
			name:        "empty subcategory is left alone",
			category:    "appliances",
			subcategory: "",
			title:       "Stand Mixer",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSubcategory(tt.category, tt.subcategory, tt.title); got != tt.want {
				t.Errorf("ValidateSubcategory(%q, %q, %q) = %q, want %q",
					tt.category, tt.subcategory, tt.title, got, tt.want)
			}
		})
	}
}

func TestDeriveFilterAttributes(t *testing.T) {
	attrs := DeriveFilterAttributes(
		"LG 26 cu. ft. Smart Counter-Depth French Door Refrigerator in Black Stainless Steel",
		"appliances/french-door",
	)

	if got := attrs["colorFinish"]; got != "Black Stainless Steel" {
		t.Errorf("colorFinish = %v, want Black Stainless Steel", got)
	}
	if got := attrs["capacity"]; got != "26 cu. ft." {
		t.Errorf("capacity = %v, want 26 cu. ft.", got)
	}
	feats, ok := attrs["features"].([]string)
	if !ok || len(feats) < 2 {
		t.Fatalf("features = %v, want Smart and Counter Depth", attrs["features"])
	}

	attrs = DeriveFilterAttributes("DEWALT 20V MAX Cordless Drill", "tools/drills")
	if got := attrs["powerSource"]; got != "Cordless" {
		t.Errorf("powerSource = %v, want Cordless", got)
	}
	if got := attrs["voltage"]; got != "20V" {
		t.Errorf("voltage = %v, want 20V", got)
	}

	if attrs := DeriveFilterAttributes("Gift Card Holder", "other"); len(attrs) != 0 {
		t.Errorf("expected no attributes for undeclared category, got %v", attrs)
	}
}
