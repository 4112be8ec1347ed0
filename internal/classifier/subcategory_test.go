// classifier/internal/classifier/subcategory_test.go
//
//nolint:testpackage // Testing internal classifier requires same package access
package classifier

import (
	"reflect"
	"testing"

	"github.com/partypulse/classifier/internal/domain"
)

func TestClassifySubcategory_ClubNight(t *testing.T) {
	result := ClassifySubcategory(
		"Warehouse Rave",
		"Techno all night with DJ sets",
		"23:00",
		"The Depot",
	)

	if result.PrimaryCategory != domain.SubcategoryClub {
		t.Fatalf("expected primary club, got %s", result.PrimaryCategory)
	}
	if result.Confidence <= 0 || result.Confidence > 100 {
		t.Errorf("confidence out of range: %d", result.Confidence)
	}

	found := false
	for _, sec := range result.SecondaryCategories {
		if sec == domain.SubcategoryUnderground {
			found = true
		}
	}
	if !found {
		t.Errorf("expected underground secondary, got %v", result.SecondaryCategories)
	}
}

func TestClassifySubcategory_EmptyInput(t *testing.T) {
	result := ClassifySubcategory("", "", "", "")

	if result.PrimaryCategory != domain.SubcategoryGeneral {
		t.Errorf("expected general, got %s", result.PrimaryCategory)
	}
	if result.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", result.Confidence)
	}
	if result.SecondaryCategories == nil {
		t.Error("expected empty slice, not nil")
	}
	if len(result.SecondaryCategories) != 0 {
		t.Errorf("expected no secondaries, got %v", result.SecondaryCategories)
	}
}

func TestClassifySubcategory_TieBreaksToEnumerationOrder(t *testing.T) {
	// "social" and "brunch" each get exactly one title hit; social comes
	// first in the enumeration order, so it wins the tie.
	result := ClassifySubcategory("Social Brunch", "", "", "")

	if result.PrimaryCategory != domain.SubcategorySocial {
		t.Fatalf("expected social on tie, got %s", result.PrimaryCategory)
	}

	found := false
	for _, sec := range result.SecondaryCategories {
		if sec == domain.SubcategoryBrunch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected brunch secondary, got %v", result.SecondaryCategories)
	}
}

func TestClassifySubcategory_SecondariesCappedAtThree(t *testing.T) {
	// Five compatible subcategories match; only the three most compatible
	// with the primary survive.
	result := ClassifySubcategory(
		"Rave",
		"underground warehouse with vip guest list, masquerade theme, silent disco, immersive projection",
		"23:00",
		"",
	)

	if result.PrimaryCategory != domain.SubcategoryClub {
		t.Fatalf("expected primary club, got %s", result.PrimaryCategory)
	}
	want := []domain.PartySubcategory{
		domain.SubcategoryUnderground,
		domain.SubcategoryExclusive,
		domain.SubcategoryThemed,
	}
	if !reflect.DeepEqual(result.SecondaryCategories, want) {
		t.Errorf("secondaries: got %v, want %v", result.SecondaryCategories, want)
	}
}

func TestClassifySubcategory_IncompatibleSecondaryExcluded(t *testing.T) {
	// Brunch matches but its compatibility with club is far below the
	// floor, so it never appears as a club secondary.
	result := ClassifySubcategory(
		"Nightclub takeover with bottomless mimosa bar",
		"DJ on the dance floor",
		"23:00",
		"",
	)

	if result.PrimaryCategory != domain.SubcategoryClub {
		t.Fatalf("expected primary club, got %s", result.PrimaryCategory)
	}
	for _, sec := range result.SecondaryCategories {
		if sec == domain.SubcategoryBrunch {
			t.Errorf("brunch must not be a club secondary: %v", result.SecondaryCategories)
		}
	}
}

func TestClassifySubcategory_HyphenatedPopup(t *testing.T) {
	// Hyphens become spaces during normalization, so "Pop-Up" must land
	// on the "pop up" keyword.
	result := ClassifySubcategory("Pop-Up Party: One Night Only", "", "", "")

	if result.PrimaryCategory != domain.SubcategoryPopup {
		t.Fatalf("expected primary popup, got %s", result.PrimaryCategory)
	}
}

func TestClassifySubcategory_TimeBucketOnly(t *testing.T) {
	// No keyword evidence at all; the hour alone yields a candidate.
	tests := []struct {
		time string
		want domain.PartySubcategory
	}{
		{"23:00", domain.SubcategoryClub},
		{"12:00", domain.SubcategoryBrunch},
		{"16:00", domain.SubcategoryDayParty},
		{"18:00", domain.SubcategoryNetworking},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			result := ClassifySubcategory("gathering downtown", "", tt.time, "")
			if result.PrimaryCategory != tt.want {
				t.Errorf("time %s: got %s, want %s", tt.time, result.PrimaryCategory, tt.want)
			}
		})
	}
}

func TestClassifySubcategory_Deterministic(t *testing.T) {
	title := "Rooftop day party"
	desc := "Open air with skyline views, bottomless drinks"

	first := ClassifySubcategory(title, desc, "14:00", "Skybar Terrace")
	for i := 0; i < 10; i++ {
		again := ClassifySubcategory(title, desc, "14:00", "Skybar Terrace")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("classification not deterministic on run %d:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

func TestCompatibility_DiagonalAndDefault(t *testing.T) {
	if got := Compatibility(domain.SubcategoryClub, domain.SubcategoryClub); got != 1.0 {
		t.Errorf("diagonal: got %v, want 1.0", got)
	}
	// A pair no row lists falls back to the default, which sits below the
	// secondary floor.
	if got := Compatibility(domain.SubcategoryHoliday, domain.SubcategorySilent); got != defaultCompatibility {
		t.Errorf("unlisted pair: got %v, want %v", got, defaultCompatibility)
	}
	if defaultCompatibility >= secondaryCompatibilityFloor {
		t.Error("default compatibility must sit below the secondary floor")
	}
}

func TestCompatibility_KnownPairs(t *testing.T) {
	tests := []struct {
		primary   domain.PartySubcategory
		candidate domain.PartySubcategory
		want      float64
	}{
		{domain.SubcategoryClub, domain.SubcategoryUnderground, 0.9},
		{domain.SubcategoryClub, domain.SubcategoryBrunch, 0.1},
		{domain.SubcategoryDayParty, domain.SubcategoryRooftop, 0.9},
		{domain.SubcategoryRooftop, domain.SubcategoryDayParty, 0.9},
	}

	for _, tt := range tests {
		if got := Compatibility(tt.primary, tt.candidate); got != tt.want {
			t.Errorf("Compatibility(%s, %s) = %v, want %v", tt.primary, tt.candidate, got, tt.want)
		}
	}
}
