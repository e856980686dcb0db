package trailer

import (
	"math"
	"sync"

	"crowdgit/internal/core/normalize"
)

// Threshold is the minimum similarity, out of 100, for a fuzzy label match
const Threshold = 80

// Matcher scores free-text labels against the table keys
// Ties at the top score resolve to the lexicographically smallest key,
// so the outcome never depends on map iteration order
type Matcher struct {
	keys      []string
	threshold int
}

var (
	defaultOnce    sync.Once
	defaultMatcher *Matcher
)

// DefaultMatcher returns a shared Matcher over the full table
func DefaultMatcher() *Matcher {
	defaultOnce.Do(func() {
		defaultMatcher = NewMatcher(Threshold)
	})
	return defaultMatcher
}

// NewMatcher builds a Matcher accepting scores at or above threshold
func NewMatcher(threshold int) *Matcher {
	return &Matcher{keys: Labels(), threshold: threshold}
}

// Similarity returns a 0..100 score from the indel distance between a and b
// (insertions and deletions only, so a substitution costs 2) relative to their
// combined rune length. Halves round to even
func Similarity(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	// indel distance is total - 2*LCS
	return int(math.RoundToEven(200 * float64(lcs(ra, rb)) / float64(total)))
}

// lcs is the longest common subsequence length, two rows at a time
func lcs(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for _, ca := range a {
		for j, cb := range b {
			switch {
			case ca == cb:
				cur[j+1] = prev[j] + 1
			case prev[j+1] >= cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Match returns the best key for label and its score
// ok is false when nothing reaches the threshold
func (m *Matcher) Match(label string) (key string, score int, ok bool) {
	q := normalize.Label(label)
	if q == "" {
		return "", 0, false
	}
	best := -1
	// keys are sorted, so a strict comparison keeps the smallest key on ties
	for _, k := range m.keys {
		s := Similarity(q, k)
		if s > best {
			best, key = s, k
		}
	}
	if best < m.threshold {
		return "", best, false
	}
	return key, best, true
}

// Extract resolves each trailer label to its best scoring key
func (m *Matcher) Extract(lines []string) []Contribution {
	return extractWith(lines, func(label string) ([]Kind, bool) {
		key, _, ok := m.Match(label)
		if !ok {
			return nil, false
		}
		return Lookup(key)
	})
}
