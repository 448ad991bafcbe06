package classify

import (
	"regexp"
	"strings"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

// categoryFilters defines the filter sheet shown for each top-level
// category. Attribute derivation below only fills groups declared here.
var categoryFilters = map[string][]catalog.Filter{
	"appliances": {
		{FilterGroupID: "colorFinish", FilterGroupName: "Color/Finish", FilterType: "checkbox",
			Values: []string{"Stainless Steel", "Black Stainless Steel", "White", "Black", "Slate", "Bisque"}},
		{FilterGroupID: "capacity", FilterGroupName: "Capacity (cu. ft.)", FilterType: "range"},
		{FilterGroupID: "fuelType", FilterGroupName: "Fuel Type", FilterType: "radio",
			Values: []string{"Electric", "Gas", "Dual Fuel", "Induction"}},
		{FilterGroupID: "features", FilterGroupName: "Features", FilterType: "checkbox",
			Values: []string{"Smart", "Energy Star", "Counter Depth", "Fingerprint Resistant", "Ice Maker"}},
	},
	"tools": {
		{FilterGroupID: "powerSource", FilterGroupName: "Power Source", FilterType: "radio",
			Values: []string{"Cordless", "Corded", "Pneumatic", "Gas"}},
		{FilterGroupID: "voltage", FilterGroupName: "Voltage", FilterType: "checkbox",
			Values: []string{"12V", "18V", "20V", "40V", "60V"}},
	},
	"furniture": {
		{FilterGroupID: "colorFinish", FilterGroupName: "Color/Finish", FilterType: "checkbox",
			Values: []string{"White", "Black", "Gray", "Brown", "Natural", "Walnut", "Oak"}},
		{FilterGroupID: "material", FilterGroupName: "Material", FilterType: "checkbox",
			Values: []string{"Wood", "Metal", "Fabric", "Leather", "Velvet", "Glass"}},
	},
	"home-decor": {
		{FilterGroupID: "colorFinish", FilterGroupName: "Color/Finish", FilterType: "checkbox",
			Values: []string{"White", "Black", "Gray", "Gold", "Silver", "Green"}},
	},
	"lighting": {
		{FilterGroupID: "colorFinish", FilterGroupName: "Color/Finish", FilterType: "checkbox",
			Values: []string{"Black", "Brushed Nickel", "Bronze", "Brass", "Chrome", "White"}},
	},
	"plumbing": {
		{FilterGroupID: "colorFinish", FilterGroupName: "Color/Finish", FilterType: "checkbox",
			Values: []string{"Chrome", "Brushed Nickel", "Matte Black", "Bronze", "Stainless Steel"}},
	},
}

// FiltersForCategory returns the filter sheet for a category path, keyed by
// its top-level segment. Categories without a declared sheet get none.
func FiltersForCategory(categoryPath string) []catalog.Filter {
	return categoryFilters[catalog.TopCategory(categoryPath)]
}

var (
	capacityRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*cu\.?\s*ft`)
	voltageRe  = regexp.MustCompile(`(?i)\b(12|18|20|40|60)\s*-?\s*v(?:olt)?\b`)
	gasRe      = regexp.MustCompile(`(?i)\bgas\b`)
	electricRe = regexp.MustCompile(`(?i)\belectric\b`)
	dualFuelRe = regexp.MustCompile(`(?i)\bdual\s*fuel\b`)
	inductRe   = regexp.MustCompile(`(?i)\binduction\b`)
	cordlessRe = regexp.MustCompile(`(?i)\bcordless\b|\bbattery\b|\bbrushless\b`)
	cordedRe   = regexp.MustCompile(`(?i)\bcorded\b`)
)

var featurePatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)\bsmart\b|\bwi-?fi\b`), "Smart"},
	{regexp.MustCompile(`(?i)\benergy\s*star\b`), "Energy Star"},
	{regexp.MustCompile(`(?i)\bcounter[\s-]*depth\b`), "Counter Depth"},
	{regexp.MustCompile(`(?i)\bfingerprint[\s-]*resistant\b`), "Fingerprint Resistant"},
	{regexp.MustCompile(`(?i)\bice\s*maker\b`), "Ice Maker"},
}

// DeriveFilterAttributes inspects a product title and fills the filter
// attributes declared for its category. Only confidently detected values
// are emitted; an empty map means nothing matched.
func DeriveFilterAttributes(title, categoryPath string) map[string]any {
	attrs := make(map[string]any)

	for _, f := range FiltersForCategory(categoryPath) {
		switch f.FilterGroupID {
		case "colorFinish", "material":
			var hits []string
			lower := strings.ToLower(title)
			for _, v := range f.Values {
				if strings.Contains(lower, strings.ToLower(v)) {
					hits = append(hits, v)
				}
			}
			// "Black Stainless Steel" subsumes its substrings.
			if len(hits) > 0 {
				attrs[f.FilterGroupID] = longestValue(hits)
			}
		case "capacity":
			if m := capacityRe.FindStringSubmatch(title); m != nil {
				attrs["capacity"] = m[1] + " cu. ft."
			}
		case "fuelType":
			switch {
			case dualFuelRe.MatchString(title):
				attrs["fuelType"] = "Dual Fuel"
			case inductRe.MatchString(title):
				attrs["fuelType"] = "Induction"
			case gasRe.MatchString(title):
				attrs["fuelType"] = "Gas"
			case electricRe.MatchString(title):
				attrs["fuelType"] = "Electric"
			}
		case "features":
			var feats []string
			for _, fp := range featurePatterns {
				if fp.re.MatchString(title) {
					feats = append(feats, fp.label)
				}
			}
			if len(feats) > 0 {
				attrs["features"] = feats
			}
		case "powerSource":
			switch {
			case cordlessRe.MatchString(title):
				attrs["powerSource"] = "Cordless"
			case cordedRe.MatchString(title):
				attrs["powerSource"] = "Corded"
			}
		case "voltage":
			if m := voltageRe.FindStringSubmatch(title); m != nil {
				attrs["voltage"] = m[1] + "V"
			}
		}
	}
	return attrs
}

func longestValue(hits []string) string {
	best := hits[0]
	for _, h := range hits[1:] {
		if len(h) > len(best) {
			best = h
		}
	}
	return best
}
