// Package keywords implements a small frequency-based keyword extractor.
package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultLimit is the number of keywords Extract returns.
const DefaultLimit = 5

var word = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the is and a an in of to we our with as for on that
		this by are be or it at from their they have has had`) {
		stopwords[w] = struct{}{}
	}
}

// Extract returns up to DefaultLimit of the most frequent words in text,
// joined by ", ". Words are lowercased, stopwords and words of two runes or
// fewer are ignored. Ties keep first-occurrence order.
func Extract(text string) string {
	return strings.Join(Top(text, DefaultLimit), ", ")
}

// Top returns the n most frequent qualifying words in text.
func Top(text string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range word.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
