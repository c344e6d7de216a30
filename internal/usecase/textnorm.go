package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes and removes combining marks so "Tênis" and "tenis"
// compare equal regardless of how the model spelled them.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Package-level compiled regex patterns for performance
var (
	nonTextRegex        = regexp.MustCompile(`[^a-z0-9 \-_/|.]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// normalizeText lowercases, strips diacritics and replaces everything outside
// the token alphabet with a space. Total: any input yields a (possibly empty)
// string, and the function is idempotent.
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}
	s = nonTextRegex.ReplaceAllString(s, " ")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// tokenize splits normalized text on whitespace, dropping tokens shorter than
// 2 characters (stray letters and punctuation remnants).
func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(normalizeText(s)) {
		if len(word) < 2 {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// charBigrams returns every contiguous 2-character window of the normalized
// text. Text shorter than 2 characters yields nothing. Normalized text is
// ASCII, so byte windows are character windows.
func charBigrams(s string) []string {
	text := normalizeText(s)
	if len(text) < 2 {
		return nil
	}
	bigrams := make([]string, 0, len(text)-1)
	for i := 0; i+2 <= len(text); i++ {
		bigrams = append(bigrams, text[i:i+2])
	}
	return bigrams
}

// jaccard computes set similarity |A∩B| / |A∪B|. Defined as 0 when both
// inputs are empty.
func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// dice computes the multiset Dice coefficient: repeated bigrams count toward
// the intersection up to the smaller multiplicity, which keeps the measure
// sensitive to repeated substrings in short product names. Returns 0 if
// either bag is empty.
func dice(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	counts := make(map[string]int, len(a))
	for _, g := range a {
		counts[g]++
	}

	intersection := 0
	for _, g := range b {
		if counts[g] > 0 {
			counts[g]--
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(a)+len(b))
}

// coverage returns the fraction of wanted tokens present in the candidate
// token set; 0 when wanted is empty.
func coverage(wanted, candidate []string) float64 {
	if len(wanted) == 0 {
		return 0
	}
	set := toSet(candidate)
	matched := 0
	for _, t := range wanted {
		if _, ok := set[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(wanted))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
