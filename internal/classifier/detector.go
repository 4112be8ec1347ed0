// classifier/internal/classifier/detector.go
//
// Binary party detection: an ordered short-circuit pipeline that stops at
// the first decisive signal and falls back to weighted scoring with
// adaptive thresholds when nothing was decisive.
package classifier

import (
	"strings"

	"github.com/partypulse/classifier/internal/domain"
)

// detection carries the decision plus the evidence and decision path for
// diagnostics. Only the boolean is contractual.
type detection struct {
	isParty  bool
	decision string
	evidence domain.Evidence
}

// Decision path labels.
const (
	decisionNegativeVeto = "negative_veto"
	decisionFastPath     = "fast_path"
	decisionVenueEntity  = "venue_entity"
	decisionTemporal     = "temporal_context"
	decisionPattern      = "pattern"
	decisionCategory     = "category_keyword"
	decisionFallback     = "weighted_fallback"
)

// DetectParty reports whether the event text describes a party. Pure: no
// I/O, no shared state, never fails; empty fields contribute no matches.
func DetectParty(title, description, venue, timeStr string) bool {
	return detectParty(title, description, venue, timeStr).isParty
}

func detectParty(title, description, venue, timeStr string) detection {
	nTitle := normalizeText(title)
	nDesc := normalizeText(description)
	nVenue := normalizeText(venue)
	combined := joinFields(nTitle, nDesc, nVenue)

	d := detection{}

	// Step 1: negative-keyword veto. Strong evidence of a non-party
	// context overrides weak positive signals cheaply.
	negatives := matchTerms(combined, negativeKeywords)
	if len(negatives) >= negativeVetoThreshold {
		d.decision = decisionNegativeVeto
		d.evidence.EntityMatches = negatives
		return d
	}

	// Step 2: high-confidence exact match, title first.
	for _, kw := range highConfidenceKeywords {
		if containsPhrase(nTitle, kw) {
			d.isParty = true
			d.decision = decisionFastPath
			d.evidence.TitleMatches = append(d.evidence.TitleMatches, kw)
			return d
		}
	}
	for _, kw := range highConfidenceKeywords {
		if containsPhrase(nDesc, kw) {
			d.isParty = true
			d.decision = decisionFastPath
			d.evidence.DescriptionMatches = append(d.evidence.DescriptionMatches, kw)
			return d
		}
	}

	// Step 3: venue entity check. A strong venue name alone suffices.
	venueHits := matchVenueTerms(nVenue)
	for _, hit := range venueHits {
		d.evidence.VenueMatches = append(d.evidence.VenueMatches, hit.term)
	}
	if hasStrongVenueTerm(venueHits) {
		venueScore := baseVenueScore * venueFactor * maxConfidence(venueHits)
		if venueScore >= venueAloneThreshold {
			d.isParty = true
			d.decision = decisionVenueEntity
			return d
		}
	}

	// Step 4: temporal context.
	hour, hourOK := parseEventHour(timeStr)
	if hourOK {
		if isNightHour(hour) && len(venueHits) > 0 {
			d.isParty = true
			d.decision = decisionTemporal
			d.evidence.TimeMatches = append(d.evidence.TimeMatches, "night_hours")
			return d
		}
		if isDayPartyHour(hour) {
			if hits := matchTerms(combined, dayPartyTerms()); len(hits) > 0 {
				d.isParty = true
				d.decision = decisionTemporal
				d.evidence.TimeMatches = append(d.evidence.TimeMatches, "day_party_hours")
				d.evidence.EntityMatches = append(d.evidence.EntityMatches, hits...)
				return d
			}
		}
	}

	// Step 5: contextual pattern matching.
	patternNames, patternMax := matchPatterns(combined)
	d.evidence.PatternMatches = patternNames
	if patternMax >= patternStrongWeight || len(patternNames) >= patternPairThreshold {
		d.isParty = true
		d.decision = decisionPattern
		return d
	}

	// Step 6: category-keyword direct match.
	for _, cat := range detectionCategories {
		if hits := matchTerms(combined, cat.terms); len(hits) > 0 {
			d.isParty = true
			d.decision = decisionCategory
			d.evidence.EntityMatches = append(d.evidence.EntityMatches, hits...)
			return d
		}
	}

	// Step 7: weighted scoring fallback.
	d.isParty = fallbackScore(nTitle, nDesc, venueHits, hour, hourOK, negatives, patternNames, &d.evidence)
	d.decision = decisionFallback
	return d
}

// fallbackScore computes the aggregate score reached only when no earlier
// step was decisive, and compares it against an adaptive threshold.
func fallbackScore(
	nTitle, nDesc string,
	venueHits []weightedTerm,
	hour int, hourOK bool,
	negatives, patternNames []string,
	ev *domain.Evidence,
) bool {
	score := 0.0

	// Category keyword contributions; a keyword already counted in the
	// title is excluded from the description tally.
	for _, cat := range detectionCategories {
		titleHits := matchTerms(nTitle, cat.terms)
		descHits := excludeTerms(matchTerms(nDesc, cat.terms), titleHits)
		score += float64(len(titleHits)) * cat.weight * titleFactor
		score += float64(len(descHits)) * cat.weight * descFactor
		ev.TitleMatches = append(ev.TitleMatches, titleHits...)
		ev.DescriptionMatches = append(ev.DescriptionMatches, descHits...)
	}

	// Venue contributions.
	for _, hit := range venueHits {
		score += baseVenueScore * venueFactor * hit.confidence
	}

	// Temporal bucket bonus.
	hasTimeEvidence := false
	if hourOK {
		bucket := bucketForHour(hour)
		if bonus := temporalBonus(bucket); bonus > 0 {
			score += bonus * timeFactor
			hasTimeEvidence = true
			ev.TimeMatches = append(ev.TimeMatches, bucketName(bucket))
		}
	}

	// Generic time-adjacent words.
	titleTimeWords := matchTerms(nTitle, timeContextWords)
	descTimeWords := excludeTerms(matchTerms(nDesc, timeContextWords), titleTimeWords)
	score += float64(len(titleTimeWords)) * timeWordTitleBonus
	score += float64(len(descTimeWords)) * timeWordDescBonus

	// Sub-veto negative keywords subtract, weighted when in the title.
	for _, neg := range negatives {
		if containsPhrase(nTitle, neg) {
			score -= negativeTitlePenalty
		} else {
			score -= negativeOtherPenalty
		}
	}

	// Multi-evidence boost across distinct signal types.
	signalTypes := countSignalTypes(ev, patternNames)
	if signalTypes >= multiEvidenceMinSignals {
		score *= 1 + multiEvidenceBoostStep*float64(signalTypes)
	}

	score *= normalizationConstant

	threshold := adaptiveThreshold(len(venueHits) > 0, hasTimeEvidence, signalTypes, len(patternNames) > 0)
	return score >= threshold
}

// adaptiveThreshold picks the acceptance cutoff: easier to confirm when
// corroborating structural evidence (venue, time) exists. The venue rung
// needs a second signal type: a weak venue term on its own gets no
// discount (a strong one already confirmed at the venue entity step).
func adaptiveThreshold(hasVenue, hasTime bool, signalTypes int, hasPattern bool) float64 {
	switch {
	case hasVenue && signalTypes >= multiEvidenceMinSignals:
		return thresholdVenueStrong
	case hasTime:
		return thresholdTimeStrong
	case signalTypes >= multiEvidenceThreeTypes:
		return thresholdMultiEvidence
	case hasPattern:
		return thresholdHighConfidence
	default:
		return thresholdGeneric
	}
}

// countSignalTypes tallies distinct signal sources: title, description,
// venue, time, pattern.
func countSignalTypes(ev *domain.Evidence, patternNames []string) int {
	count := 0
	if len(ev.TitleMatches) > 0 {
		count++
	}
	if len(ev.DescriptionMatches) > 0 {
		count++
	}
	if len(ev.VenueMatches) > 0 {
		count++
	}
	if len(ev.TimeMatches) > 0 {
		count++
	}
	if len(patternNames) > 0 {
		count++
	}
	return count
}

func bucketName(b timeBucket) string {
	switch b {
	case bucketNight:
		return "night"
	case bucketEvening:
		return "evening"
	case bucketDayParty:
		return "day"
	case bucketBrunch:
		return "brunch"
	default:
		return "none"
	}
}

// dayPartyTerms returns the day-party detection list.
func dayPartyTerms() []string {
	for _, cat := range detectionCategories {
		if cat.name == "day-party" {
			return cat.terms
		}
	}
	return nil
}

// matchVenueTerms scans normalized venue text against the weighted venue
// table, in table order.
func matchVenueTerms(nVenue string) []weightedTerm {
	if nVenue == "" {
		return nil
	}
	var hits []weightedTerm
	for _, wt := range venueEntityKeywords {
		if containsPhrase(nVenue, wt.term) {
			hits = append(hits, wt)
		}
	}
	return hits
}

func hasStrongVenueTerm(hits []weightedTerm) bool {
	for _, hit := range hits {
		for _, strong := range strongVenueKeywords {
			if hit.term == strong {
				return true
			}
		}
	}
	return false
}

func maxConfidence(hits []weightedTerm) float64 {
	max := 0.0
	for _, hit := range hits {
		if hit.confidence > max {
			max = hit.confidence
		}
	}
	return max
}

// joinFields joins already-normalized fields, skipping empties.
func joinFields(fields ...string) string {
	nonEmpty := fields[:0:0]
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return strings.Join(nonEmpty, " ")
}
