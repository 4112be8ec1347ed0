package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper removes combining marks after NFD decomposition, so
// "Café Olé" matches the keyword "cafe".
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// normalizeText lowercases, folds diacritics, and replaces every
// non-alphanumeric rune with a space so keyword matching sees clean word
// boundaries. Venue names from providers frequently arrive accented.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	if folded, _, err := transform.String(diacriticStripper, text); err == nil {
		text = folded
	}

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else {
			result.WriteByte(' ')
		}
	}

	return result.String()
}

// containsPhrase reports whether normalized text contains the normalized
// keyword on word boundaries. Both inputs must already be normalized.
func containsPhrase(text, phrase string) bool {
	if text == "" || phrase == "" {
		return false
	}
	idx := 0
	for {
		i := strings.Index(text[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		beforeOK := start == 0 || text[start-1] == ' '
		afterOK := end == len(text) || text[end] == ' '
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

// matchTerms returns the subset of terms present in normalized text, in
// table order. Duplicate-free as long as the table is.
func matchTerms(text string, terms []string) []string {
	if text == "" {
		return nil
	}
	var matched []string
	for _, term := range terms {
		if containsPhrase(text, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

// containsAny reports whether any of the terms is present in text.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if containsPhrase(text, term) {
			return true
		}
	}
	return false
}

// excludeTerms returns the members of terms that are not in seen.
func excludeTerms(terms []string, seen []string) []string {
	if len(seen) == 0 {
		return terms
	}
	var out []string
	for _, t := range terms {
		found := false
		for _, s := range seen {
			if t == s {
				found = true
				break
			}
		}
		if !found {
			out = append(out, t)
		}
	}
	return out
}
