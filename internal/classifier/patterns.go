// classifier/internal/classifier/patterns.go
package classifier

import "regexp"

// patternWithWeight pairs a compiled contextual pattern with its
// confidence weight. A single match at or above patternStrongWeight
// confirms detection; two matches of any weight also confirm.
type patternWithWeight struct {
	name    string
	pattern *regexp.Regexp
	weight  float64
}

// contextPatterns are evaluated against the combined normalized text.
// Compiled once at package init; inputs are short strings so this is not
// performance-critical.
var contextPatterns = []patternWithWeight{
	{"dj_set", regexp.MustCompile(`dj\s+(?:set|night|sets|lineup|battle)`), 0.9},
	{"live_dj", regexp.MustCompile(`live\s+dj`), 0.9},
	{"open_bar", regexp.MustCompile(`open\s+bar`), 0.75},
	{"bottle_service", regexp.MustCompile(`bottle\s+service`), 0.85},
	{"dance_floor", regexp.MustCompile(`dance\s+floor`), 0.8},
	{"vip_access", regexp.MustCompile(`vip\s+(?:table|tables|section|access|entry)`), 0.8},
	{"till_late", regexp.MustCompile(`(?:till|til|until)\s+(?:late|dawn|sunrise|close|4\s*am|2\s*am)`), 0.75},
	{"drink_specials", regexp.MustCompile(`drink\s+specials?`), 0.65},
	{"age_gate", regexp.MustCompile(`(?:21|18)\s+and\s+(?:over|up)`), 0.6},
	{"dress_code", regexp.MustCompile(`dress\s+(?:code|to\s+impress)`), 0.6},
	{"live_music_night", regexp.MustCompile(`live\s+music\s+(?:night|all\s+night)`), 0.7},
	{"hookah", regexp.MustCompile(`hookah\s+(?:lounge|night)`), 0.7},
}

// matchPatterns returns the names and the highest weight of all patterns
// matching the normalized combined text.
func matchPatterns(text string) (names []string, maxWeight float64) {
	if text == "" {
		return nil, 0
	}
	for _, p := range contextPatterns {
		if p.pattern.MatchString(text) {
			names = append(names, p.name)
			if p.weight > maxWeight {
				maxWeight = p.weight
			}
		}
	}
	return names, maxWeight
}
