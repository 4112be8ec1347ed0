// classifier/internal/classifier/keywords.go
//
// Fixed keyword and weight tables for party detection. All tables are
// read-only after init; every entry is stored pre-normalized (lowercase,
// ascii) so matching never has to renormalize them.
package classifier

import "github.com/partypulse/classifier/internal/domain"

// Scoring factors. Title evidence always outweighs description evidence
// for the same keyword.
const (
	titleFactor = 3.0
	descFactor  = 1.5
	venueFactor = 2.0
	timeFactor  = 1.0

	baseVenueScore = 1.0

	// normalizationConstant rescales the fallback score before the
	// adaptive threshold comparison. Contract value; do not rebalance.
	normalizationConstant = 1.2
)

// Detection thresholds. The adaptive ladder makes confirmation easier when
// corroborating structural evidence (venue, time) exists.
const (
	negativeVetoThreshold = 3

	venueAloneThreshold = 1.5

	patternStrongWeight  = 0.85
	patternPairThreshold = 2

	thresholdVenueStrong    = 2.5
	thresholdTimeStrong     = 3.0
	thresholdMultiEvidence  = 3.5
	thresholdHighConfidence = 4.0
	thresholdGeneric        = 5.0

	multiEvidenceMinSignals = 2
	multiEvidenceThreeTypes = 3
	multiEvidenceBoostStep  = 0.15
)

// Fallback per-word bonuses and penalties.
const (
	timeWordTitleBonus = 0.5
	timeWordDescBonus  = 0.25

	negativeTitlePenalty = 1.5
	negativeOtherPenalty = 0.75

	temporalNightBonus    = 2.0
	temporalEveningBonus  = 1.5
	temporalDayPartyBonus = 1.25
	temporalBrunchBonus   = 1.0
)

// negativeKeywords indicate a non-party context. Three or more distinct
// hits across the combined text veto detection outright.
var negativeKeywords = []string{
	"conference",
	"seminar",
	"webinar",
	"workshop",
	"lecture",
	"symposium",
	"summit",
	"sermon",
	"worship",
	"bible study",
	"fundraiser",
	"charity auction",
	"town hall",
	"council meeting",
	"board meeting",
	"orientation",
	"training",
	"certification",
	"tutorial",
	"career fair",
	"job fair",
	"recruitment",
	"trade show",
	"expo",
}

// highConfidenceKeywords are unambiguous party terms. A single hit in the
// title or description confirms immediately.
var highConfidenceKeywords = []string{
	"party",
	"nightclub",
	"rave",
	"silent disco",
	"pool party",
	"dance party",
	"house party",
	"block party",
	"club night",
	"bottle service",
	"dj party",
	"after party",
	"afterparty",
}

// strongVenueKeywords alone are sufficient venue evidence.
var strongVenueKeywords = []string{
	"club",
	"nightclub",
	"disco",
}

// weightedTerm pairs a keyword with a confidence multiplier.
type weightedTerm struct {
	term       string
	confidence float64
}

// venueEntityKeywords are venue terms with the confidence multiplier
// applied to the base venue score. Slice, not map: match order must be
// deterministic because hits land in the evidence trail.
var venueEntityKeywords = []weightedTerm{
	{"nightclub", 1.0},
	{"club", 1.0},
	{"disco", 1.0},
	{"lounge", 0.8},
	{"speakeasy", 0.8},
	{"bar", 0.7},
	{"rooftop", 0.7},
	{"warehouse", 0.6},
	{"hall", 0.5},
	{"terrace", 0.5},
}

// categoryList is one of the seven detection keyword lists, with the
// weight its matches contribute in the scoring fallback.
type categoryList struct {
	name   string
	weight float64
	terms  []string
}

// detectionCategories are the seven category keyword lists checked in
// step 6 and folded into the scoring fallback. Order is fixed.
var detectionCategories = []categoryList{
	{
		name:   "strong",
		weight: 1.0,
		terms: []string{
			"nightlife", "clubbing", "night out", "dance night",
			"mixer party", "fiesta", "soiree", "bash",
		},
	},
	{
		name:   "day-party",
		weight: 0.9,
		terms: []string{
			"day party", "dayparty", "pool party", "daytime party",
			"day rave", "garden party", "bbq party",
		},
	},
	{
		name:   "themed",
		weight: 0.8,
		terms: []string{
			"costume", "masquerade", "80s night", "90s night",
			"decades night", "neon party", "glow party", "toga",
		},
	},
	{
		name:   "exclusive",
		weight: 0.85,
		terms: []string{
			"vip", "invite only", "members only", "guest list",
			"table service", "exclusive event",
		},
	},
	{
		name:   "underground",
		weight: 0.85,
		terms: []string{
			"underground", "warehouse party", "secret location",
			"afterhours", "after hours", "techno night",
		},
	},
	{
		name:   "festival",
		weight: 0.8,
		terms: []string{
			"festival", "music fest", "carnival", "street fair",
			"block fest",
		},
	},
	{
		name:   "holiday",
		weight: 0.8,
		terms: []string{
			"new year", "nye", "halloween", "christmas party",
			"holiday party", "july 4th", "cinco de mayo",
			"st patricks",
		},
	},
}

// timeContextWords are generic time-adjacent words that nudge the
// fallback score without being decisive on their own.
var timeContextWords = []string{
	"night", "tonight", "evening", "late",
	"weekend", "friday", "saturday", "sunday",
}

// subcategoryWeights are the per-source confidence contributions used by
// the subcategory classifier. Contract values; do not rebalance.
const (
	subcatTitleWeight      = 0.8
	subcatDescWeight       = 0.5
	subcatVenueWeight      = 0.9
	subcatVenueWeakWeight  = 0.6
	subcatTimeBucketWeight = 0.7
)

// subcategoryKeywords drives per-subcategory matching. Iterated via
// domain.SubcategoryOrder so accumulation order is deterministic.
var subcategoryKeywords = map[domain.PartySubcategory][]string{
	domain.SubcategoryDayParty: {
		"day party", "dayparty", "pool party", "day rave",
		"daytime", "garden party", "bbq",
	},
	domain.SubcategorySocial: {
		"social", "mixer", "meetup", "singles", "mingle",
		"happy hour", "game night",
	},
	domain.SubcategoryBrunch: {
		"brunch", "bottomless", "mimosa", "breakfast party",
		"brunch and beats",
	},
	domain.SubcategoryClub: {
		"club", "nightclub", "dj", "dance floor", "rave",
		"bottle service", "late night", "edm", "techno", "house music",
	},
	domain.SubcategoryNetworking: {
		"networking", "professionals", "industry night", "entrepreneurs",
		"business mixer",
	},
	domain.SubcategoryCelebration: {
		"birthday", "anniversary", "graduation", "celebration",
		"bachelorette", "bachelor party", "engagement",
	},
	domain.SubcategoryImmersive: {
		"immersive", "interactive", "experience", "360",
		"projection", "art installation",
	},
	domain.SubcategoryPopup: {
		"popup", "pop up", "limited engagement",
		"one night only",
	},
	domain.SubcategorySilent: {
		"silent disco", "silent party", "headphone party",
		"quiet clubbing",
	},
	domain.SubcategoryRooftop: {
		"rooftop", "roof top", "skyline", "terrace", "open air",
	},
	domain.SubcategoryThemed: {
		"theme", "themed", "costume", "masquerade", "decades",
		"80s", "90s", "neon", "glow",
	},
	domain.SubcategoryExclusive: {
		"exclusive", "vip", "invite only", "members only",
		"guest list", "private event",
	},
	domain.SubcategoryUnderground: {
		"underground", "warehouse", "secret", "afterhours",
		"after hours", "word of mouth",
	},
	domain.SubcategoryFestival: {
		"festival", "fest", "carnival", "fairgrounds", "lineup",
	},
	domain.SubcategoryHoliday: {
		"new year", "nye", "halloween", "christmas", "holiday",
		"valentine", "st patricks", "july 4th", "cinco de mayo",
	},
}

// venueDefiningSubcategories get the stronger venue match weight: for
// these, the venue field is the defining signal (a rooftop party is
// defined by being on a rooftop).
var venueDefiningSubcategories = map[domain.PartySubcategory]bool{
	domain.SubcategoryClub:        true,
	domain.SubcategoryRooftop:     true,
	domain.SubcategoryUnderground: true,
	domain.SubcategoryBrunch:      true,
}
