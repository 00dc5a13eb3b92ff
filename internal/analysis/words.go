package analysis

import (
	"sort"
	"strings"
)

// commonWordStops is the filler list for word frequency tables. It is wider
// than the keyword stop list because descriptions are prose.
var commonWordStops = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "with": {}, "this": {}, "that": {}, "from": {}, "they": {}, "have": {},
	"was": {}, "been": {}, "said": {}, "each": {}, "which": {}, "she": {}, "you": {}, "one": {}, "our": {}, "had": {},
	"but": {}, "were": {}, "all": {}, "any": {}, "can": {}, "her": {}, "may": {}, "now": {}, "more": {}, "way": {},
}

// TopWords returns the n most frequent ASCII words of at least three letters
// across texts, most frequent first, ties alphabetical.
func TopWords(texts []string, n int) []Count {
	freq := map[string]int{}
	token := func(r rune) bool { return r < 'a' || r > 'z' }
	for _, text := range texts {
		for _, w := range strings.FieldsFunc(strings.ToLower(text), token) {
			if len(w) < 3 {
				continue
			}
			if _, stop := commonWordStops[w]; stop {
				continue
			}
			freq[w]++
		}
	}
	return topCounts(freq, n)
}

// Count is one entry of a frequency table.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// topCounts sorts freq by count descending then key, keeping at most n
// entries (all when n <= 0).
func topCounts(freq map[string]int, n int) []Count {
	list := make([]Count, 0, len(freq))
	for k, v := range freq {
		list = append(list, Count{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count == list[j].Count {
			return list[i].Key < list[j].Key
		}
		return list[i].Count > list[j].Count
	})
	if n > 0 && n < len(list) {
		list = list[:n]
	}
	return list
}
