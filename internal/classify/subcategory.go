package classify

import "regexp"

// subRule maps a title pattern to a subcategory slug. Each category's chain
// is ordered most-specific first: "french door refrigerator" must resolve
// before the generic refrigerator pattern gets a look.
type subRule struct {
	re   *regexp.Regexp
	slug string
}

func sub(expr, slug string) subRule {
	return subRule{re: regexp.MustCompile(`(?i)` + expr), slug: slug}
}

var subcategoryChains = map[string][]subRule{
	"appliances": {
		sub(`\bfrench\s*door\b`, "french-door"),
		sub(`\bside[\s-]*by[\s-]*side\b`, "side-by-side"),
		sub(`\btop\s*freezer\b`, "top-freezer"),
		sub(`\bbottom\s*freezer\b`, "bottom-freezer"),
		sub(`\bmini\s*fridge\b|\bcompact\s*refrigerator\b`, "mini-fridges"),
		sub(`\bfreezerless\b`, "freezerless"),
		sub(`\brefrigerator\b|\bfridge\b`, "refrigerators"),
		sub(`\bfreezer\b`, "freezers"),
		sub(`\bwasher\b|\bdryer\b|\blaundry\b`, "washers-dryers"),
		sub(`\bdishwasher\b`, "dishwashers"),
		sub(`\bmicrowave\b`, "microwaves"),
		sub(`\brange\s*hood\b|\bvent\s*hood\b`, "range-hoods"),
		sub(`\bwall\s*oven\b`, "wall-ovens"),
		sub(`\bcooktop\b`, "cooktops"),
		sub(`\brange\b|\bstove\b`, "ranges"),
		sub(`\bgarbage\s*disposal\b|\bdisposal\b`, "garbage-disposals"),
		sub(`\bice\s*maker\b`, "ice-makers"),
		sub(`\bwine\s*cooler\b|\bbeverage\s*cooler\b|\bwine\s*cellar\b`, "beverage-coolers"),
		sub(`\bair\s*conditioner\b`, "air-conditioners"),
		sub(`\bvacuum\b|\bfloor\s*care\b`, "floor-care"),
		sub(`\bfan\b`, "fans"),
	},
	"tools": {
		sub(`\btable\s*saw\b`, "table-saws"),
		sub(`\bmiter\s*saw\b`, "miter-saws"),
		sub(`\bcircular\s*saw\b`, "circular-saws"),
		sub(`\bjigsaw\b`, "jigsaws"),
		sub(`\bband\s*saw\b`, "band-saws"),
		sub(`\breciprocating\s*saw\b`, "reciprocating-saws"),
		sub(`\bhammer\s*drill\b`, "hammer-drills"),
		sub(`\bright\s*angle\s*drill\b`, "right-angle-drills"),
		sub(`\bimpact\s*driver\b`, "impact-drivers"),
		sub(`\bimpact\s*wrench\b`, "impact-wrenches"),
		sub(`\bdrill\b`, "drills"),
		sub(`\bsander\b`, "sanders"),
		sub(`\bgrinder\b`, "grinders"),
		sub(`\brouter\b`, "routers"),
		sub(`\bnailer\b|\bnail\s*gun\b`, "nailers"),
		sub(`\bplaner\b`, "planers"),
		sub(`\boscillating\b`, "oscillating-tools"),
		sub(`\bair\s*compressor\b`, "air-compressors"),
		sub(`\bbattery\b|\bbatteries\b`, "batteries"),
		sub(`\bcombo\s*kit\b`, "combo-kits"),
		sub(`\bwelder\b|\bwelding\b`, "welding"),
		sub(`\btool\s*box\b|\btool\s*chest\b|\btool\s*storage\b`, "tool-storage"),
	},
	"furniture": {
		sub(`\bkitchen\s*cart\b|\bbar\s*cart\b|\bisland\s*cart\b|\brolling\b.*\bcart\b`, "kitchen-carts"),
		sub(`\bsofa\b|\bcouch\b|\bloveseat\b`, "sofas"),
		sub(`\bchair\b`, "chairs"),
		sub(`\bdesk\b`, "desks"),
		sub(`\bbed\b|\bmattress\b`, "beds"),
		sub(`\bdresser\b`, "dressers"),
		sub(`\bbookcase\b`, "bookcases"),
		sub(`\bcabinet\b|\bsideboard\b|\bbuffet\b`, "cabinets"),
		sub(`\btable\b`, "tables"),
	},
	"home-decor": {
		sub(`\bmirror\b`, "mirrors"),
		sub(`\brug\b`, "rugs"),
		sub(`\bcurtain\b|\bdrape\b`, "curtains"),
		sub(`\bwall\s*art\b|\bpicture\s*frame\b`, "wall-art"),
		sub(`\bartificial\b|\bhydrangea\b|\btopiary\b|\bshrub\b`, "artificial-plants"),
		sub(`\bcandle\b`, "candles"),
	},
	"plumbing": {
		sub(`\bkitchen\s*faucet\b`, "kitchen-faucets"),
		sub(`\bbathroom\s*faucet\b`, "bathroom-faucets"),
		sub(`\bfaucet\b`, "faucets"),
		sub(`\bsink\b`, "sinks"),
		sub(`\btoilet\b`, "toilets"),
		sub(`\bshower\b`, "showers"),
		sub(`\bbathtub\b|\btub\b`, "bathtubs"),
		sub(`\bwater\s*heater\b`, "water-heaters"),
	},
	"bath": {
		sub(`\bvanity\b`, "bathroom-vanities"),
		sub(`\bshower\s*door\b`, "shower-doors"),
	},
	"lighting": {
		sub(`\bchandelier\b`, "chandeliers"),
		sub(`\bpendant\b`, "pendant-lights"),
		sub(`\bsconce\b`, "wall-sconces"),
		sub(`\bceiling\s*fan\b`, "ceiling-fans"),
		sub(`\blamp\b`, "lamps"),
	},
}

// SuggestSubcategory walks the category's ordered chain and returns the
// first matching slug, or "" when the title fits none.
func SuggestSubcategory(category, title string) string {
	for _, r := range subcategoryChains[category] {
		if r.re.MatchString(title) {
			return r.slug
		}
	}
	return ""
}

var (
	fridgeSubRe = regexp.MustCompile(`(?i)\brefrigerator\b|\bfridge\b`)
	rangeSubRe  = regexp.MustCompile(`(?i)\brange\b|\bstove\b`)
)

// ValidateSubcategory checks a product's recorded subcategory against its
// category and title. It returns the corrected slug, or "" when the
// recorded value is acceptable. Unknown slugs and clear contradictions
// (a refrigerator filed under ranges) are corrected; everything else is
// left as recorded.
func ValidateSubcategory(category, subcategory, title string) string {
	if subcategory == "" {
		return ""
	}

	r := ruleFor(category)
	valid := r != nil && containsString(r.ValidSubcategories, subcategory)

	if valid && category == "appliances" {
		if subcategory == "ranges" && fridgeSubRe.MatchString(title) && !rangeSubRe.MatchString(title) {
			return SuggestSubcategory(category, title)
		}
		if subcategory == "refrigerators" && rangeSubRe.MatchString(title) && !fridgeSubRe.MatchString(title) {
			return SuggestSubcategory(category, title)
		}
		return ""
	}
	if valid {
		return ""
	}

	if suggested := SuggestSubcategory(category, title); suggested != subcategory {
		return suggested
	}
	return ""
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
