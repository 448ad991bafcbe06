// Package classify assigns catalog products to category paths. Fresh
// classification runs the ordered rule table; reclassification of already
// filed products is deliberately conservative and only moves a product when
// brand or title evidence is unambiguous.
package classify

import (
	"log/slog"
	"regexp"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

// Classifier evaluates the rule table and the brand lists.
type Classifier struct {
	logger *slog.Logger
}

// New creates a classifier.
func New(logger *slog.Logger) *Classifier {
	return &Classifier{logger: logger.With("component", "classifier")}
}

// Classify places a fresh product. It returns the category path (possibly
// "cat/subcategory") and the bare subcategory slug; products nothing claims
// go to the overflow bucket.
func (c *Classifier) Classify(title, brand string) (categoryPath, subcategory string) {
	category := c.classifyTitle(title, brand)
	sub := SuggestSubcategory(category, title)
	c.logger.Debug("product classified", "category", category, "subcategory", sub, "brand", brand)
	if sub == "" {
		return category, ""
	}
	return category + "/" + sub, sub
}

func (c *Classifier) classifyTitle(title, brand string) string {
	// A deny-listed brand can never land in appliances, whatever the
	// title matched; an appliance brand short-circuits straight there
	// when any appliance keyword agrees.
	if ApplianceBrands[brand] && !NonApplianceBrands[brand] {
		if appliances := ruleFor("appliances"); appliances != nil &&
			anyMatch(appliances.Keywords, title) {
			return "appliances"
		}
	}

	for i := range Rules {
		r := &Rules[i]
		if r.Category == "appliances" && NonApplianceBrands[brand] {
			continue
		}
		if !anyMatch(r.Keywords, title) {
			continue
		}
		if anyMatch(r.Exclusions, title) {
			continue
		}
		return r.Category
	}

	if FurnitureBrands[brand] {
		return "furniture"
	}
	return Overflow
}

var (
	faucetRe      = regexp.MustCompile(`(?i)\bfaucet\b`)
	laundryRe     = regexp.MustCompile(`(?i)\bwasher\b|\bdryer\b|\blaundry\b`)
	cartFurnRe    = regexp.MustCompile(`(?i)\bcart\b|\bcabinet\b|\bsideboard\b|\bbuffet\b|\bchair\b`)
	artificialRe  = regexp.MustCompile(`(?i)\bartificial\b.*(\bplant\b|\bflower\b|\bhydrangea\b|\barrangement\b)`)
	plantishRe    = regexp.MustCompile(`(?i)\bartificial\b|\bhydrangea\b|\bplant\b`)
	accentChairRe = regexp.MustCompile(`(?i)\barm\s*chair\b|\bvelvet\b.*\bchair\b|\baccent\s*chair\b`)
	weldRe        = regexp.MustCompile(`(?i)\bwelder\b|\bwelding\b`)
	sawRe         = regexp.MustCompile(`(?i)\btable\s*saw\b|\bmiter\s*saw\b|\bcircular\s*saw\b`)
	kitchenCartRe = regexp.MustCompile(`(?i)\bkitchen\s*cart\b|\brolling\b.*\bcart\b|\bisland\s*cart\b`)
	sideboardRe   = regexp.MustCompile(`(?i)\bbuffet\b|\bsideboard\b`)
	wineCoolerRe  = regexp.MustCompile(`(?i)\bwine\s*cooler\b|\bbeverage\s*cooler\b|\bwine\s*cellar\b|\bwine\s*refrigerator\b`)
	fridgeRe      = regexp.MustCompile(`(?i)\brefrigerator\b|\bfridge\b`)
	freezerRe     = regexp.MustCompile(`(?i)\bfreezer\b`)
	freezerBagRe  = regexp.MustCompile(`(?i)\bfreezer\s*bag`)
	demoToolRe    = regexp.MustCompile(`(?i)\btable\s*saw\b|\bmiter\s*saw\b|\bbreaker\s*hammer\b|\bdemolition\b`)
	makeupVanRe   = regexp.MustCompile(`(?i)\bvanity\s*table\b|\bmakeup\s*vanity\b|\bdressing\s*table\b`)
)

// Reclassify decides whether an already filed product should move. It
// returns the target top-level category, or "" when the product stays: no
// confident evidence means no move.
func (c *Classifier) Reclassify(p *catalog.Product, currentCategory string) string {
	title := p.Title
	brand := p.Brand

	// Deny-listed brands cannot stay in appliances.
	if NonApplianceBrands[brand] && currentCategory == "appliances" {
		switch {
		case faucetRe.MatchString(title):
			// Faucets live in the overflow bucket; plumbing metadata is
			// maintained without product listings.
			return Overflow
		case cartFurnRe.MatchString(title):
			return "furniture"
		case FurnitureBrands[brand]:
			return "furniture"
		case brand == "NATURAE DECOR" || plantishRe.MatchString(title):
			return "home-decor"
		default:
			return Overflow
		}
	}

	// Appliance brands filed elsewhere come home when the title agrees.
	if ApplianceBrands[brand] && currentCategory != "appliances" {
		if appliances := ruleFor("appliances"); appliances != nil &&
			anyMatch(appliances.Keywords, title) {
			return "appliances"
		}
	}

	if currentCategory == "appliances" {
		if ApplianceBrands[brand] {
			return ""
		}
		switch {
		case faucetRe.MatchString(title) && !laundryRe.MatchString(title):
			return Overflow
		case accentChairRe.MatchString(title):
			return "furniture"
		case artificialRe.MatchString(title):
			return "home-decor"
		case weldRe.MatchString(title):
			return "tools"
		case sawRe.MatchString(title):
			return "tools"
		case kitchenCartRe.MatchString(title):
			return "furniture"
		case sideboardRe.MatchString(title):
			return "furniture"
		}
		return ""
	}

	// Wine and beverage coolers drift into storage and overflow buckets.
	if currentCategory == Overflow || currentCategory == "storage" {
		if wineCoolerRe.MatchString(title) {
			return "appliances"
		}
	}

	if fridgeRe.MatchString(title) ||
		(freezerRe.MatchString(title) && !freezerBagRe.MatchString(title)) {
		return "appliances"
	}

	// These categories hold deliberate placements; leave them alone.
	switch currentCategory {
	case "garage", "outdoors", "home-decor":
		return ""
	}

	if currentCategory == "electrical" || currentCategory == Overflow || currentCategory == "storage" {
		if demoToolRe.MatchString(title) {
			return "tools"
		}
		if makeupVanRe.MatchString(title) {
			return "furniture"
		}
	}

	return ""
}
