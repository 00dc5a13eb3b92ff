package fields

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText trims s and collapses internal whitespace runs to one space.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ExtractKeywords returns the meaningful words of a title in order, keeping
// repeats. Punctuation separates words; words shorter than minLength runes
// and stop words are dropped.
func ExtractKeywords(title string, minLength int) []string {
	if title == "" {
		return nil
	}
	sep := func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_' }
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(title), sep) {
		if utf8.RuneCountInString(w) < minLength || IsStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// JaccardSimilarity is |A∩B| / |A∪B| over the lowercase whitespace-separated
// word sets of a and b.
func JaccardSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	wa := wordSet(a)
	wb := wordSet(b)
	union := len(wa)
	inter := 0
	for w := range wb {
		if _, ok := wa[w]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
