// classifier/internal/classifier/compat.go
package classifier

import "github.com/partypulse/classifier/internal/domain"

// defaultCompatibility is read for pairs a row does not list. Below the
// secondary-selection floor, so unlisted pairs never become secondaries.
const defaultCompatibility = 0.3

// secondaryCompatibilityFloor and secondaryConfidenceFloor gate secondary
// category selection. Contract values; do not rebalance.
const (
	secondaryCompatibilityFloor = 0.7
	secondaryConfidenceFloor    = 0.4
	maxSecondaryCategories      = 3
)

// compatibilityMatrix scores how well a candidate subcategory sits as a
// secondary next to a chosen primary. Defined per-row; not required to be
// symmetric. The diagonal is pinned to 1.0 by Compatibility.
var compatibilityMatrix = map[domain.PartySubcategory]map[domain.PartySubcategory]float64{
	domain.SubcategoryDayParty: {
		domain.SubcategoryRooftop:     0.9,
		domain.SubcategoryBrunch:      0.85,
		domain.SubcategorySocial:      0.8,
		domain.SubcategoryFestival:    0.75,
		domain.SubcategoryThemed:      0.7,
		domain.SubcategoryCelebration: 0.7,
		domain.SubcategoryPopup:       0.65,
		domain.SubcategoryClub:        0.4,
		domain.SubcategoryUnderground: 0.3,
	},
	domain.SubcategorySocial: {
		domain.SubcategoryNetworking:  0.85,
		domain.SubcategoryCelebration: 0.8,
		domain.SubcategoryBrunch:      0.75,
		domain.SubcategoryDayParty:    0.75,
		domain.SubcategoryRooftop:     0.7,
		domain.SubcategoryThemed:      0.7,
		domain.SubcategoryHoliday:     0.65,
	},
	domain.SubcategoryBrunch: {
		domain.SubcategoryDayParty:    0.85,
		domain.SubcategorySocial:      0.8,
		domain.SubcategoryRooftop:     0.75,
		domain.SubcategoryCelebration: 0.7,
		domain.SubcategoryThemed:      0.6,
		domain.SubcategoryClub:        0.2,
	},
	domain.SubcategoryClub: {
		domain.SubcategoryUnderground: 0.9,
		domain.SubcategoryExclusive:   0.85,
		domain.SubcategoryThemed:      0.8,
		domain.SubcategorySilent:      0.75,
		domain.SubcategoryImmersive:   0.7,
		domain.SubcategoryRooftop:     0.7,
		domain.SubcategoryHoliday:     0.65,
		domain.SubcategoryPopup:       0.6,
		domain.SubcategoryCelebration: 0.6,
		domain.SubcategoryDayParty:    0.25,
		domain.SubcategoryBrunch:      0.1,
	},
	domain.SubcategoryNetworking: {
		domain.SubcategorySocial:    0.85,
		domain.SubcategoryRooftop:   0.75,
		domain.SubcategoryExclusive: 0.7,
		domain.SubcategoryBrunch:    0.6,
		domain.SubcategoryClub:      0.4,
	},
	domain.SubcategoryCelebration: {
		domain.SubcategorySocial:    0.8,
		domain.SubcategoryThemed:    0.8,
		domain.SubcategoryHoliday:   0.75,
		domain.SubcategoryClub:      0.7,
		domain.SubcategoryDayParty:  0.7,
		domain.SubcategoryRooftop:   0.7,
		domain.SubcategoryExclusive: 0.65,
	},
	domain.SubcategoryImmersive: {
		domain.SubcategoryThemed:      0.9,
		domain.SubcategoryPopup:       0.85,
		domain.SubcategoryUnderground: 0.75,
		domain.SubcategoryExclusive:   0.7,
		domain.SubcategoryClub:        0.7,
		domain.SubcategorySilent:      0.65,
	},
	domain.SubcategoryPopup: {
		domain.SubcategoryImmersive:   0.85,
		domain.SubcategoryUnderground: 0.8,
		domain.SubcategoryExclusive:   0.75,
		domain.SubcategoryThemed:      0.7,
		domain.SubcategoryRooftop:     0.65,
		domain.SubcategoryClub:        0.6,
	},
	domain.SubcategorySilent: {
		domain.SubcategoryClub:        0.75,
		domain.SubcategoryImmersive:   0.7,
		domain.SubcategoryRooftop:     0.7,
		domain.SubcategoryDayParty:    0.65,
		domain.SubcategoryUnderground: 0.6,
	},
	domain.SubcategoryRooftop: {
		domain.SubcategoryDayParty:    0.9,
		domain.SubcategoryExclusive:   0.8,
		domain.SubcategorySocial:      0.75,
		domain.SubcategoryBrunch:      0.75,
		domain.SubcategoryNetworking:  0.75,
		domain.SubcategoryClub:        0.7,
		domain.SubcategoryCelebration: 0.7,
	},
	domain.SubcategoryThemed: {
		domain.SubcategoryImmersive:   0.9,
		domain.SubcategoryCelebration: 0.8,
		domain.SubcategoryClub:        0.8,
		domain.SubcategoryHoliday:     0.8,
		domain.SubcategoryPopup:       0.7,
		domain.SubcategoryDayParty:    0.7,
	},
	domain.SubcategoryExclusive: {
		domain.SubcategoryClub:        0.85,
		domain.SubcategoryRooftop:     0.8,
		domain.SubcategoryPopup:       0.75,
		domain.SubcategoryUnderground: 0.7,
		domain.SubcategoryImmersive:   0.7,
		domain.SubcategoryNetworking:  0.7,
	},
	domain.SubcategoryUnderground: {
		domain.SubcategoryClub:      0.9,
		domain.SubcategoryPopup:     0.8,
		domain.SubcategoryImmersive: 0.75,
		domain.SubcategoryExclusive: 0.7,
		domain.SubcategorySilent:    0.6,
		domain.SubcategoryDayParty:  0.3,
	},
	domain.SubcategoryFestival: {
		domain.SubcategoryDayParty:    0.75,
		domain.SubcategoryThemed:      0.7,
		domain.SubcategoryHoliday:     0.7,
		domain.SubcategoryImmersive:   0.65,
		domain.SubcategorySilent:      0.6,
		domain.SubcategoryClub:        0.5,
	},
	domain.SubcategoryHoliday: {
		domain.SubcategoryThemed:      0.8,
		domain.SubcategoryCelebration: 0.75,
		domain.SubcategoryClub:        0.7,
		domain.SubcategorySocial:      0.7,
		domain.SubcategoryFestival:    0.7,
		domain.SubcategoryRooftop:     0.6,
	},
	domain.SubcategoryGeneral: {
		domain.SubcategorySocial:      0.7,
		domain.SubcategoryCelebration: 0.7,
		domain.SubcategoryClub:        0.6,
		domain.SubcategoryDayParty:    0.6,
		domain.SubcategoryThemed:      0.6,
	},
}

// Compatibility returns the matrix score for placing candidate as a
// secondary next to primary. The diagonal is always 1.0; unlisted pairs
// read as defaultCompatibility.
func Compatibility(primary, candidate domain.PartySubcategory) float64 {
	if primary == candidate {
		return 1.0
	}
	row, ok := compatibilityMatrix[primary]
	if !ok {
		return defaultCompatibility
	}
	score, ok := row[candidate]
	if !ok {
		return defaultCompatibility
	}
	return score
}
