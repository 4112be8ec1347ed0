// classifier/internal/classifier/timecontext.go
package classifier

import (
	"strconv"
	"strings"

	"github.com/partypulse/classifier/internal/domain"
)

// timeBucket is the coarse time-of-day bucket an event hour falls into.
type timeBucket int

const (
	bucketNone timeBucket = iota
	bucketNight
	bucketEvening
	bucketDayParty
	bucketBrunch
)

// Hour range boundaries (24-hour clock).
const (
	nightStartHour    = 20
	nightEndHour      = 3 // wraps past midnight
	eveningStartHour  = 17
	dayPartyStartHour = 11
	dayPartyEndHour   = 17
	brunchStartHour   = 10
	brunchEndHour     = 14
	clubStartHour     = 21
	networkStartHour  = 17
	networkEndHour    = 20
)

// parseEventHour extracts the hour from a free-form "HH:MM" time string.
// Unparseable input yields ok=false, never an error: a missing or
// malformed time simply contributes no temporal evidence.
func parseEventHour(timeStr string) (hour int, ok bool) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return 0, false
	}
	head, _, found := strings.Cut(timeStr, ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func isNightHour(hour int) bool {
	return hour >= nightStartHour || hour <= nightEndHour
}

func isDayPartyHour(hour int) bool {
	return hour >= dayPartyStartHour && hour <= dayPartyEndHour
}

// bucketForHour maps an hour to its scoring bucket. Night wins over
// evening; day-party hours win over brunch-only hours.
func bucketForHour(hour int) timeBucket {
	switch {
	case isNightHour(hour):
		return bucketNight
	case hour >= eveningStartHour:
		return bucketEvening
	case isDayPartyHour(hour):
		return bucketDayParty
	case hour >= brunchStartHour:
		return bucketBrunch
	default:
		return bucketNone
	}
}

// temporalBonus is the fixed fallback-score bonus for a bucket.
func temporalBonus(bucket timeBucket) float64 {
	switch bucket {
	case bucketNight:
		return temporalNightBonus
	case bucketEvening:
		return temporalEveningBonus
	case bucketDayParty:
		return temporalDayPartyBonus
	case bucketBrunch:
		return temporalBrunchBonus
	default:
		return 0
	}
}

// timeBucketCandidate maps the event hour to a tentative subcategory.
// The checks run in this exact order: day-party, brunch, club,
// networking — each unconditionally overwriting the previous candidate,
// so an hour inside overlapping windows resolves to the LAST applicable
// range. Preserved for behavioral compatibility; do not reorder.
func timeBucketCandidate(hour int) (domain.PartySubcategory, bool) {
	var candidate domain.PartySubcategory
	found := false

	if hour >= dayPartyStartHour && hour <= dayPartyEndHour {
		candidate = domain.SubcategoryDayParty
		found = true
	}
	if hour >= brunchStartHour && hour <= brunchEndHour {
		candidate = domain.SubcategoryBrunch
		found = true
	}
	if hour >= clubStartHour || hour <= nightEndHour {
		candidate = domain.SubcategoryClub
		found = true
	}
	if hour >= networkStartHour && hour <= networkEndHour {
		candidate = domain.SubcategoryNetworking
		found = true
	}

	return candidate, found
}
