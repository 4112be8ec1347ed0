// classifier/internal/classifier/score.go
package classifier

import (
	"math"

	"github.com/partypulse/classifier/internal/domain"
)

// Relevance scoring constants. Component points sum past 100 by design;
// the final clamp caps the result.
const (
	maxPartyScore = 100

	strongTitlePoints    = 8
	strongDescPoints     = 4
	keywordComponentCap  = 30
	timeContextBonus     = 10
	venueFamilyBonus     = 10
	venueContextBonus    = 8
	multiAspectBonus     = 10
	multiAspectMinCount  = 2
	nightTimePoints      = 20
	eveningTimePoints    = 12
	dayTimePoints        = 10
	brunchTimePoints     = 8
)

// Confidence tier multipliers for the subcategory bonus.
const (
	tierHighMultiplier   = 1.0
	tierMediumMultiplier = 0.85
	tierLowMultiplier    = 0.7
)

// subcategoryBonus rewards subcategories that correlate with strong party
// results when ranking.
var subcategoryBonus = map[domain.PartySubcategory]int{
	domain.SubcategoryImmersive:   30,
	domain.SubcategorySilent:      25,
	domain.SubcategoryClub:        20,
	domain.SubcategoryRooftop:     18,
	domain.SubcategoryDayParty:    18,
	domain.SubcategoryExclusive:   15,
	domain.SubcategoryUnderground: 15,
	domain.SubcategoryThemed:      12,
	domain.SubcategoryFestival:    12,
	domain.SubcategoryPopup:       10,
	domain.SubcategoryBrunch:      10,
	domain.SubcategoryCelebration: 8,
	domain.SubcategoryHoliday:     8,
	domain.SubcategorySocial:      5,
	domain.SubcategoryNetworking:  5,
	domain.SubcategoryGeneral:     0,
}

// highTierSubcategories and mediumTierSubcategories split the enum into
// confidence tiers; everything else is low tier.
var highTierSubcategories = map[domain.PartySubcategory]bool{
	domain.SubcategoryImmersive:   true,
	domain.SubcategorySilent:      true,
	domain.SubcategoryClub:        true,
	domain.SubcategoryExclusive:   true,
	domain.SubcategoryUnderground: true,
}

var mediumTierSubcategories = map[domain.PartySubcategory]bool{
	domain.SubcategoryDayParty: true,
	domain.SubcategoryRooftop:  true,
	domain.SubcategoryThemed:   true,
	domain.SubcategoryFestival: true,
	domain.SubcategoryPopup:    true,
	domain.SubcategoryBrunch:   true,
}

// venueFamily groups venue-type keywords and the subcategories they
// align with for the context bonus.
type venueFamily struct {
	name    string
	terms   []string
	aligned []domain.PartySubcategory
}

var venueFamilies = []venueFamily{
	{
		name:  "club",
		terms: []string{"club", "nightclub", "disco"},
		aligned: []domain.PartySubcategory{
			domain.SubcategoryClub, domain.SubcategoryUnderground,
			domain.SubcategoryExclusive, domain.SubcategorySilent,
		},
	},
	{
		name:  "lounge",
		terms: []string{"lounge", "bar", "speakeasy"},
		aligned: []domain.PartySubcategory{
			domain.SubcategorySocial, domain.SubcategoryNetworking,
			domain.SubcategoryExclusive,
		},
	},
	{
		name:  "rooftop",
		terms: []string{"rooftop", "terrace", "skyline"},
		aligned: []domain.PartySubcategory{
			domain.SubcategoryRooftop, domain.SubcategoryDayParty,
		},
	},
	{
		name:  "restaurant",
		terms: []string{"restaurant", "bistro", "kitchen", "cafe", "eatery"},
		aligned: []domain.PartySubcategory{
			domain.SubcategoryBrunch, domain.SubcategoryCelebration,
		},
	},
}

// timeAlignedSubcategories maps a time bucket to the subcategories whose
// temporal context matches it (club at night, day-party in the daytime).
var timeAlignedSubcategories = map[timeBucket][]domain.PartySubcategory{
	bucketNight: {
		domain.SubcategoryClub, domain.SubcategoryUnderground,
		domain.SubcategoryExclusive, domain.SubcategorySilent,
	},
	bucketEvening: {
		domain.SubcategoryNetworking, domain.SubcategorySocial,
	},
	bucketDayParty: {
		domain.SubcategoryDayParty, domain.SubcategoryRooftop,
		domain.SubcategoryFestival,
	},
	bucketBrunch: {
		domain.SubcategoryBrunch,
	},
}

// PartyScore produces a continuous 0-100 relevance score for an
// already-classified party event, used for ranking and sorting. Pure
// function; always returns an integer in [0, 100].
func PartyScore(title, description, timeStr string, subcategory domain.PartySubcategory, venue string) int {
	nTitle := normalizeText(title)
	nDesc := normalizeText(description)
	nVenue := normalizeText(venue)

	score := 0.0
	aspects := 0

	// (a) Strong keyword matches, title weighted higher.
	titleHits := matchTerms(nTitle, highConfidenceKeywords)
	descHits := excludeTerms(matchTerms(nDesc, highConfidenceKeywords), titleHits)
	keywordPoints := len(titleHits)*strongTitlePoints + len(descHits)*strongDescPoints
	if keywordPoints > keywordComponentCap {
		keywordPoints = keywordComponentCap
	}
	score += float64(keywordPoints)
	if len(titleHits) > 0 {
		aspects++
	}
	if len(descHits) > 0 {
		aspects++
	}

	// (b) Subcategory bonus scaled by confidence tier.
	score += float64(subcategoryBonus[subcategory]) * tierMultiplier(subcategory)

	// (c) Time-of-day bonus plus context match.
	if hour, ok := parseEventHour(timeStr); ok {
		bucket := bucketForHour(hour)
		score += float64(timeBucketPoints(bucket))
		if bucket != bucketNone {
			aspects++
			if subcategoryInSet(subcategory, timeAlignedSubcategories[bucket]) {
				score += timeContextBonus
			}
		}
	}

	// (d) Venue-context bonus.
	if family := matchVenueFamily(nVenue); family != nil {
		score += venueFamilyBonus
		aspects++
		if subcategoryInSet(subcategory, family.aligned) {
			score += venueContextBonus
		}
	}

	// (e) Multi-aspect bonus.
	if aspects >= multiAspectMinCount {
		score += multiAspectBonus
	}

	score *= normalizationConstant

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	}
	if final > maxPartyScore {
		final = maxPartyScore
	}
	return final
}

func tierMultiplier(subcategory domain.PartySubcategory) float64 {
	switch {
	case highTierSubcategories[subcategory]:
		return tierHighMultiplier
	case mediumTierSubcategories[subcategory]:
		return tierMediumMultiplier
	default:
		return tierLowMultiplier
	}
}

func timeBucketPoints(bucket timeBucket) int {
	switch bucket {
	case bucketNight:
		return nightTimePoints
	case bucketEvening:
		return eveningTimePoints
	case bucketDayParty:
		return dayTimePoints
	case bucketBrunch:
		return brunchTimePoints
	default:
		return 0
	}
}

func matchVenueFamily(nVenue string) *venueFamily {
	if nVenue == "" {
		return nil
	}
	for i := range venueFamilies {
		if containsAny(nVenue, venueFamilies[i].terms) {
			return &venueFamilies[i]
		}
	}
	return nil
}

func subcategoryInSet(s domain.PartySubcategory, set []domain.PartySubcategory) bool {
	for _, member := range set {
		if s == member {
			return true
		}
	}
	return false
}
