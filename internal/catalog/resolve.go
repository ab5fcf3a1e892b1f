package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// FuzzyThreshold is the minimum similarity for the fuzzy fallback to accept a match.
const FuzzyThreshold = 0.90

var (
	alphaToken = regexp.MustCompile(`[a-z]+`)
	connectors = regexp.MustCompile(`\b(and|aur|or|ya|plus|n)\b|[&,/+]`)
)

// ResolveCity maps text to a canonical city.
func (l *Loader) ResolveCity(text string) (string, bool) {
	idx := l.snapshot()
	return resolve(idx.cities, idx.catalog.Cities, text)
}

// ResolveSport maps text to a canonical sport.
func (l *Loader) ResolveSport(text string) (string, bool) {
	idx := l.snapshot()
	return resolve(idx.sports, idx.catalog.Sports, text)
}

// ResolveSports returns every sport mentioned in text, ordered by first mention.
// Conjunctions such as "basketball and cricket" or "football/tennis" are split first.
func (l *Loader) ResolveSports(text string) []string {
	idx := l.snapshot()
	s := " " + connectors.ReplaceAllString(strings.ToLower(text), " ") + " "

	type hit struct {
		sport string
		pos   int
	}
	var hits []hit
	for _, c := range idx.sports {
		if loc := c.re.FindStringIndex(s); loc != nil {
			hits = append(hits, hit{c.canonical, loc[0]})
		}
	}
	if len(hits) == 0 {
		if sport, ok := fuzzy(idx.catalog.Sports, s); ok {
			return []string{sport}
		}
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.sport)
	}
	return out
}

func resolve(cs []compiled, es Entries, text string) (string, bool) {
	s := strings.ToLower(text)
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	for _, c := range cs {
		if c.re.MatchString(s) {
			return c.canonical, true
		}
	}
	return fuzzy(es, s)
}

// fuzzy compares the longest alphabetic token of s against every canonical token.
func fuzzy(es Entries, s string) (string, bool) {
	token := longestToken(s)
	if token == "" {
		return "", false
	}
	best, bestScore := "", 0.0
	for _, e := range es {
		score := Similarity(token, strings.ToLower(e.Canonical))
		if score > bestScore {
			best, bestScore = e.Canonical, score
		}
	}
	if bestScore >= FuzzyThreshold {
		return best, true
	}
	return "", false
}

func longestToken(s string) string {
	var longest string
	for _, t := range alphaToken.FindAllString(s, -1) {
		if len(t) > len(longest) {
			longest = t
		}
	}
	return longest
}

// Similarity returns an edit-distance ratio in [0,1]: 1 for identical strings.
func Similarity(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(total-d) / float64(total)
}
