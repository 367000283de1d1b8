// Package metrics computes deterministic text statistics: readability,
// a heuristic SEO score and keyword density. Nothing here performs I/O.
package metrics

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxKeywords      = 5
	minKeywordLength = 4
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	vowelGroup    = regexp.MustCompile(`[aeiouy]+`)
	wordToken     = regexp.MustCompile(`[\p{L}\p{N}\p{Mn}_]+`)
)

// Keyword is one keyword-density entry; Density is a percentage.
type Keyword struct {
	Word    string  `json:"word"`
	Density float64 `json:"density"`
}

func lower(s string) string {
	// cases.Caser keeps state, so it is not shared between calls.
	return cases.Lower(language.Und).String(s)
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SentenceCount counts non-blank segments terminated by a run of '.', '!' or '?'.
// Trailing text with no terminator is not a sentence.
func SentenceCount(text string) int {
	segments := sentenceSplit.Split(text, -1)
	n := 0
	for _, seg := range segments[:len(segments)-1] {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

// SyllableCount approximates syllables as maximal vowel groups (a, e, i, o, u, y).
func SyllableCount(word string) int {
	return len(vowelGroup.FindAllStringIndex(lower(word), -1))
}

// Readability returns a Flesch Reading Ease score clamped to [0, 100].
func Readability(text string) float64 {
	words := strings.Fields(text)
	sentences := SentenceCount(text)
	if len(words) == 0 || sentences == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += SyllableCount(w)
	}

	wc := float64(len(words))
	score := 206.835 - 1.015*(wc/float64(sentences)) - 84.6*(float64(syllables)/wc)
	return clamp(score, 0, 100)
}

// SEOScore scores length, title presence, structure and lexical variety.
// Every term is non-negative, so only the upper bound needs clamping.
func SEOScore(text, title string) float64 {
	words := strings.Fields(text)
	wc := len(words)

	score := 0.0
	switch {
	case wc >= 300 && wc <= 2000:
		score += 30
	case wc > 2000:
		score += 20
	default:
		score += 10
	}

	if strings.Contains(lower(text), lower(title)) {
		score += 20
	}

	if strings.Contains(text, "\n") || utf8.RuneCountInString(text) > 500 {
		score += 20
	}

	if wc > 0 {
		unique := make(map[string]struct{}, wc)
		for _, w := range words {
			unique[lower(w)] = struct{}{}
		}
		score += 30 * float64(len(unique)) / float64(wc)
	}

	if score > 100 {
		return 100
	}
	return score
}

// TopKeywords returns up to five keywords longer than three characters,
// ordered by density descending. Equal densities keep first-seen order.
func TopKeywords(text string) []Keyword {
	var (
		order  []string
		counts = make(map[string]int)
		total  int
	)
	for _, tok := range wordToken.FindAllString(text, -1) {
		if utf8.RuneCountInString(tok) < minKeywordLength {
			continue
		}
		w := lower(tok)
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
		total++
	}
	if total == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}

	out := make([]Keyword, 0, len(order))
	for _, w := range order {
		out = append(out, Keyword{Word: w, Density: 100 * float64(counts[w]) / float64(total)})
	}
	return out
}

// KeywordDensity is TopKeywords as a word -> percentage map.
func KeywordDensity(text string) map[string]float64 {
	top := TopKeywords(text)
	out := make(map[string]float64, len(top))
	for _, k := range top {
		out[k.Word] = k.Density
	}
	return out
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
