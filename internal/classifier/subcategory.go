// classifier/internal/classifier/subcategory.go
//
// Subcategory assignment: one primary party type plus up to three
// compatible secondaries, with confidence and an evidence trail.
package classifier

import (
	"math"
	"sort"

	"github.com/partypulse/classifier/internal/domain"
)

// subcategoryTally accumulates per-subcategory match evidence.
type subcategoryTally struct {
	matched    bool
	matchCount int
	confidence float64
	titleHits  []string
	descHits   []string
	venueHits  []string
	timeHits   []string
}

// ClassifySubcategory assigns a primary subcategory and up to three
// compatible secondaries from the four text fields. Never fails: absence
// of any signal yields primary "general" with confidence 0. Deterministic
// for identical inputs; the only clock consulted is the event's own time
// field.
func ClassifySubcategory(title, description, timeStr, venue string) domain.PartyClassification {
	nTitle := normalizeText(title)
	nDesc := normalizeText(description)
	nVenue := normalizeText(venue)

	// Step 1: tentative subcategory from the event hour.
	var timeCandidate domain.PartySubcategory
	hasTimeCandidate := false
	if hour, ok := parseEventHour(timeStr); ok {
		timeCandidate, hasTimeCandidate = timeBucketCandidate(hour)
	}

	// Step 2: per-subcategory keyword tallies, in enumeration order.
	tallies := make(map[domain.PartySubcategory]*subcategoryTally, len(subcategoryKeywords))
	for _, sub := range domain.SubcategoryOrder {
		terms, ok := subcategoryKeywords[sub]
		if !ok {
			continue
		}

		titleHits := matchTerms(nTitle, terms)
		descHits := excludeTerms(matchTerms(nDesc, terms), titleHits)
		venueHits := matchTerms(nVenue, terms)

		venueWeight := subcatVenueWeakWeight
		if venueDefiningSubcategories[sub] {
			venueWeight = subcatVenueWeight
		}

		tally := &subcategoryTally{
			titleHits: titleHits,
			descHits:  descHits,
			venueHits: venueHits,
		}
		tally.confidence = float64(len(titleHits))*subcatTitleWeight +
			float64(len(descHits))*subcatDescWeight +
			float64(len(venueHits))*venueWeight
		tally.matchCount = len(titleHits) + len(descHits) + len(venueHits)
		tally.matched = tally.matchCount > 0
		tallies[sub] = tally
	}

	// Step 3: fold the time-based candidate into its bucket.
	if hasTimeCandidate {
		tally := tallies[timeCandidate]
		tally.confidence += subcatTimeBucketWeight
		tally.matched = true
		tally.timeHits = append(tally.timeHits, string(timeCandidate)+"_hours")
	}

	// Step 4: primary = highest confidence among matched subcategories;
	// ties break to the first seen in enumeration order.
	primary := domain.SubcategoryGeneral
	bestConfidence := 0.0
	for _, sub := range domain.SubcategoryOrder {
		tally, ok := tallies[sub]
		if !ok || !tally.matched {
			continue
		}
		if tally.confidence > bestConfidence {
			bestConfidence = tally.confidence
			primary = sub
		}
	}

	if primary == domain.SubcategoryGeneral {
		return domain.PartyClassification{
			PrimaryCategory:     domain.SubcategoryGeneral,
			SecondaryCategories: []domain.PartySubcategory{},
			Confidence:          0,
			Evidence:            domain.Evidence{},
		}
	}

	// Step 5: compatible secondaries, at most three.
	secondaries := selectSecondaries(primary, tallies)

	// Step 6: confidence percentage.
	confidence := int(math.Min(math.Round(bestConfidence*100), 100))

	winner := tallies[primary]
	return domain.PartyClassification{
		PrimaryCategory:     primary,
		SecondaryCategories: secondaries,
		Confidence:          confidence,
		Evidence: domain.Evidence{
			TitleMatches:       winner.titleHits,
			DescriptionMatches: winner.descHits,
			VenueMatches:       winner.venueHits,
			TimeMatches:        winner.timeHits,
		},
	}
}

// selectSecondaries keeps matched subcategories other than the primary
// whose compatibility with the primary clears the floor and whose own
// confidence clears its floor, sorted by compatibility descending (ties
// keep enumeration order), capped at three.
func selectSecondaries(
	primary domain.PartySubcategory,
	tallies map[domain.PartySubcategory]*subcategoryTally,
) []domain.PartySubcategory {
	candidates := make([]domain.PartySubcategory, 0, maxSecondaryCategories)
	for _, sub := range domain.SubcategoryOrder {
		if sub == primary {
			continue
		}
		tally, ok := tallies[sub]
		if !ok || !tally.matched {
			continue
		}
		if tally.confidence < secondaryConfidenceFloor {
			continue
		}
		if Compatibility(primary, sub) < secondaryCompatibilityFloor {
			continue
		}
		candidates = append(candidates, sub)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Compatibility(primary, candidates[i]) > Compatibility(primary, candidates[j])
	})

	if len(candidates) > maxSecondaryCategories {
		candidates = candidates[:maxSecondaryCategories]
	}
	return candidates
}
