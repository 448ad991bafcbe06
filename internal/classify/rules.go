package classify

import (
	"regexp"
)

// pattern is one keyword test: match must hit, and unless (when set) must
// not. RE2 has no lookaround, so the "range but not range hood" style
// constraints from the rule table are expressed as a paired veto pattern.
type pattern struct {
	match  *regexp.Regexp
	unless *regexp.Regexp
}

func pat(match string) pattern {
	return pattern{match: regexp.MustCompile(`(?i)` + match)}
}

func patUnless(match, unless string) pattern {
	return pattern{
		match:  regexp.MustCompile(`(?i)` + match),
		unless: regexp.MustCompile(`(?i)` + unless),
	}
}

func (p pattern) matches(title string) bool {
	if !p.match.MatchString(title) {
		return false
	}
	if p.unless != nil && p.unless.MatchString(title) {
		return false
	}
	return true
}

func anyMatch(pats []pattern, title string) bool {
	for _, p := range pats {
		if p.matches(title) {
			return true
		}
	}
	return false
}

// Rule binds a category to the keyword patterns that claim a product for
// it, the exclusion patterns that veto the claim, and the category's
// enumerated subcategory slugs.
type Rule struct {
	Category           string
	Keywords           []pattern
	Exclusions         []pattern
	ValidSubcategories []string
}

// Overflow is the bucket used when no rule claims a product.
const Overflow = "other"

// Rules is the ordered rule table, evaluated top to bottom; the first
// category whose keywords match and whose exclusions do not wins. More
// specific categories (bath) sit above their broader siblings (plumbing) so
// the ordering itself is the tie-break.
var Rules = []Rule{
	{
		Category: "appliances",
		Keywords: []pattern{
			pat(`\brefrigerator\b`), pat(`\bfridge\b`),
			patUnless(`\bfreezer\b`, `\bfreezer\s*bag`),
			pat(`\bwasher\b`), pat(`\bdryer\b`), pat(`\blaundry\b`),
			pat(`\bdishwasher\b`), pat(`\bmicrowave\b`),
			pat(`\boven\b`), patUnless(`\brange\b`, `\brange\s*hood`),
			pat(`\bcooktop\b`), pat(`\bstove\b`),
			pat(`\brange\s*hood\b`), pat(`\bvent\s*hood\b`),
			pat(`\bgarbage\s*disposal\b`), pat(`\bdisposal\b`),
			pat(`\bice\s*maker\b`), pat(`\bbeverage\s*cooler\b`), pat(`\bwine\s*cooler\b`),
			pat(`\bair\s*conditioner\b`), pat(`\bdehumidifier\b`), pat(`\bhumidifier\b`),
			patUnless(`\bvacuum\b`, `\bseal`), pat(`\bfloor\s*care\b`),
			pat(`\bcompact\s*kitchen\b`),
		},
		Exclusions: []pattern{
			pat(`\bfaucet\b`), patUnless(`\bcart\b`, `\blaundry\b`), pat(`\bbuffet\b`),
			pat(`\bsideboard\b`), pat(`\barm\s*chair\b`), pat(`\bvelvet\b.*\bchair\b`),
			pat(`\bartificial\b`), patUnless(`\bplant\b`, `\bair\b`), pat(`\bflower\b`),
			pat(`\bhydrangea\b`),
			pat(`\bwelder\b`), pat(`\bwelding\b`),
			pat(`\btable\s*saw\b`), pat(`\bmiter\s*saw\b`), pat(`\bcircular\s*saw\b`),
			pat(`\bjigsaw\b`), pat(`\bband\s*saw\b`), pat(`\breciprocating\s*saw\b`),
			pat(`\brug\b`), pat(`\bcurtain\b`), patUnless(`\bmirror\b`, `instaview`),
			pat(`\bmakeup\s*vanity\b`), pat(`\bdressing\s*table\b`),
		},
		ValidSubcategories: []string{
			"refrigerators", "french-door", "side-by-side", "top-freezer",
			"bottom-freezer", "mini-fridges", "freezerless", "freezers",
			"washers-dryers", "dishwashers", "microwaves",
			"ranges", "wall-ovens", "cooktops", "range-hoods",
			"garbage-disposals", "ice-makers", "beverage-coolers",
			"air-conditioners", "floor-care", "fans", "counter-depth",
		},
	},
	{
		Category: "tools",
		Keywords: []pattern{
			patUnless(`\bdrill\b`, `\bdrill\s*bit`), pat(`\btable\s*saw\b`), pat(`\bmiter\s*saw\b`),
			pat(`\bcircular\s*saw\b`), pat(`\bjigsaw\b`), pat(`\bband\s*saw\b`),
			pat(`\breciprocating\s*saw\b`), pat(`\bsander\b`),
			patUnless(`\brouter\b`, `wifi`), pat(`\bgrinder\b`), pat(`\bnailer\b`), pat(`\bnail\s*gun\b`),
			pat(`\bair\s*compressor\b`), pat(`\bwrench\b`), pat(`\bscrewdriver\b`),
			pat(`\bplier\b`), pat(`\blevel\b`), pat(`\btape\s*measure\b`),
			pat(`\btool\s*box\b`), pat(`\btool\s*chest\b`), pat(`\btool\s*storage\b`),
			pat(`\bpower\s*tool\b`), pat(`\bhand\s*tool\b`),
			pat(`\bimpact\s*driver\b`), pat(`\brotary\s*tool\b`), pat(`\boscillating\b`),
			pat(`\bwelder\b`), pat(`\bwelding\b`), pat(`\bsoldering\b`),
			pat(`\bbreaker\s*hammer\b`), pat(`\bdemolition\b`),
		},
		Exclusions: []pattern{
			pat(`\brefrigerator\b`), pat(`\bfridge\b`), pat(`\bmicrowave\b`),
			patUnless(`\bwasher\b`, `\bpressure\b`), pat(`\bdryer\b`), pat(`\bdishwasher\b`),
			pat(`\bvacuum\b`),
		},
		ValidSubcategories: []string{
			"power-tools", "hand-tools", "drills", "hammer-drills",
			"right-angle-drills", "electric-screwdrivers", "saws",
			"table-saws", "miter-saws", "circular-saws", "jigsaws",
			"band-saws", "reciprocating-saws", "sanders", "grinders",
			"routers", "nailers", "planers", "impact-drivers",
			"impact-wrenches", "oscillating-tools", "air-compressors",
			"batteries", "combo-kits", "tool-storage", "welding",
		},
	},
	{
		Category: "bath",
		Keywords: []pattern{
			pat(`\bbathroom\s*vanity\b`), pat(`\bvanity\b.*\bbathroom\b`),
			pat(`\bshower\s*door\b`), pat(`\bbath\s*accessor`),
			pat(`\btowel\s*bar\b`), pat(`\btoilet\s*paper\s*holder\b`),
		},
		ValidSubcategories: []string{
			"bathroom-vanities", "shower-doors", "bath-accessories",
		},
	},
	{
		Category: "home-decor",
		Keywords: []pattern{
			patUnless(`\bmirror\b`, `instaview|refrigerator`),
			pat(`\brug\b`), pat(`\bcurtain\b`), pat(`\bdrape\b`),
			pat(`\bartificial\b.*\bplant\b`), pat(`\bartificial\b.*\bflower\b`),
			pat(`\bartificial\b.*\bhydrangea\b`), pat(`\bartificial\b.*\barrangement\b`),
			pat(`\bvase\b`), pat(`\bcandle\b`), pat(`\bpicture\s*frame\b`), pat(`\bwall\s*art\b`),
			pat(`\bthrow\s*pillow\b`), pat(`\bdecorative\b`),
			pat(`\bhydrangea\b`), pat(`\bshrub\b`), pat(`\btopiary\b`),
		},
		Exclusions: []pattern{
			pat(`\brefrigerator\b`), pat(`\bfridge\b`), pat(`\boven\b`),
			pat(`\bchair\b`), pat(`\bsofa\b`), pat(`\btable\b`), pat(`\bdesk\b`),
		},
		ValidSubcategories: []string{
			"mirrors", "rugs", "curtains", "wall-art", "artificial-plants",
			"bedding", "decorative-accents", "candles", "picture-frames",
		},
	},
	{
		Category: "furniture",
		Keywords: []pattern{
			pat(`\barm\s*chair\b`), pat(`\baccent\s*chair\b`), pat(`\bvelvet\b.*\bchair\b`),
			pat(`\bsofa\b`), pat(`\bcouch\b`), pat(`\bloveseat\b`),
			pat(`\bdesk\b`), pat(`\bbookcase\b`),
			pat(`\bdresser\b`), patUnless(`\bbed\b`, `\btruck\b|\bliner\b`), pat(`\bmattress\b`),
			pat(`\bfuton\b`), pat(`\bottoman\b`), patUnless(`\bbench\b`, `\bwork\s*bench|\bworkbench`),
			pat(`\bsideboard\b`), patUnless(`\bbuffet\b`, `\bbuffet\s*table`),
			pat(`\bkitchen\s*cart\b`), pat(`\bbar\s*cart\b`), pat(`\bisland\s*cart\b`),
			pat(`\brolling\b.*\bcart\b`),
			pat(`\bmakeup\s*vanity\b`), pat(`\bdressing\s*table\b`),
			pat(`\bshelving\s*unit\b`), pat(`\bstorage\s*shelf\b`),
		},
		Exclusions: []pattern{
			pat(`\brefrigerator\b`), pat(`\btool\b`), pat(`\bsaw\b`),
			pat(`\bgarage\b`),
		},
		ValidSubcategories: []string{
			"living-room", "bedroom", "dining", "office", "outdoor",
			"chairs", "sofas", "tables", "desks", "beds",
			"dressers", "bookcases", "cabinets", "kitchen-carts",
		},
	},
	{
		Category: "plumbing",
		Keywords: []pattern{
			pat(`\bfaucet\b`), patUnless(`\bsink\b`, `\bheat`), pat(`\btoilet\b`),
			patUnless(`\bshower\b`, `\bshower\s*door`), pat(`\bbathtub\b`),
			patUnless(`\btub\b`, `\bwash`),
			patUnless(`\bpipe\b`, `\bclamp`), pat(`\bdrain\b`),
			pat(`\bwater\s*heater\b`), pat(`\bsump\s*pump\b`),
		},
		Exclusions: []pattern{
			pat(`\bgarbage\s*disposal\b`), // disposals are appliances
			pat(`\bshower\s*door\b`),
		},
		ValidSubcategories: []string{
			"faucets", "kitchen-faucets", "bathroom-faucets",
			"sinks", "toilets", "showers", "bathtubs",
			"water-heaters", "pipes", "valves",
		},
	},
	{
		Category: "lighting",
		Keywords: []pattern{
			pat(`\bchandelier\b`), pat(`\bpendant\s*light\b`),
			pat(`\bsconce\b`), pat(`\bceiling\s*fan\b`), pat(`\bflush\s*mount\b`),
			pat(`\btrack\s*lighting\b`), pat(`\brecessed\s*light\b`),
			patUnless(`\blamp\b`, `\bheat`),
		},
		Exclusions: []pattern{
			pat(`\bwork\s*light\b`), pat(`\bjobsite\b`), pat(`\bflashlight\b`),
			pat(`\bheadlamp\b`), pat(`\btool\b`),
		},
		ValidSubcategories: []string{
			"ceiling-lights", "chandeliers", "pendant-lights",
			"wall-sconces", "lamps", "ceiling-fans", "outdoor-lighting",
		},
	},
	{
		Category: "garage",
		Keywords: []pattern{
			pat(`\bgarage\b`), pat(`\bworkbench\b`), pat(`\bwork\s*table\b`),
			pat(`\btool\s*cabinet\b`), pat(`\bstorage\s*cabinet\b`),
		},
	},
	{
		Category: "storage",
		Keywords: []pattern{
			pat(`\bstorage\b`), pat(`\borganizer\b`), pat(`\bbin\b`), pat(`\btote\b`),
		},
		Exclusions: []pattern{
			pat(`\brefrigerator\b`), pat(`\bfridge\b`), pat(`\bwine\b`), pat(`\bbeverage\b`),
		},
	},
	{
		Category: "outdoors",
		Keywords: []pattern{
			pat(`\blawn\s*mower\b`), pat(`\bmower\b`), pat(`\bpush\s*mower\b`),
			pat(`\bstring\s*trimmer\b`), pat(`\bweed\s*eater\b`),
			pat(`\bblower\b`), pat(`\bchainsaw\b`), pat(`\bhedge\s*trimmer\b`),
			pat(`\boutdoor\b`), pat(`\bgarden\b`), pat(`\bpatio\b`),
		},
	},
}

// NonApplianceBrands never belong in appliances, whatever the title says.
var NonApplianceBrands = map[string]bool{
	"StyleWell":             true,
	"HOMESTYLES":            true,
	"FUFU&GAGA":             true,
	"US Pride Furniture":    true,
	"NATURAE DECOR":         true,
	"Lincoln Electric":      true,
	"KOHLER":                true,
	"American Standard":     true,
	"Delta":                 true,
	"Moen":                  true,
	"Pfister":               true,
	"National Tree Company": true,
	"Nearly Natural":        true,
}

// FurnitureBrands is the subset of the deny-list that defaults to the
// furniture category when no keyword decides.
var FurnitureBrands = map[string]bool{
	"StyleWell":          true,
	"HOMESTYLES":         true,
	"FUFU&GAGA":          true,
	"US Pride Furniture": true,
}

// ApplianceBrands are authoritative for the appliances category.
var ApplianceBrands = map[string]bool{
	"GE":               true,
	"LG":               true,
	"Samsung":          true,
	"Whirlpool":        true,
	"Frigidaire":       true,
	"KitchenAid":       true,
	"Maytag":           true,
	"Bosch":            true,
	"Electrolux":       true,
	"Kenmore":          true,
	"Amana":            true,
	"Hotpoint":         true,
	"Haier":            true,
	"Vissani":          true,
	"Magic Chef":       true,
	"Summit Appliance": true,
	"ZLINE":            true,
	"Thor Kitchen":     true,
	"InSinkErator":     true,
	"Dyson":            true,
	"Shark":            true,
	"iRobot":           true,
}

// ruleFor returns the rule table entry for a category, or nil.
func ruleFor(category string) *Rule {
	for i := range Rules {
		if Rules[i].Category == category {
			return &Rules[i]
		}
	}
	return nil
}
