package trailer

import (
	"regexp"
	"strings"
)

// linePattern captures label, name and the content of the last <...> group
// The name group is greedy so earlier angle brackets fold into the name
var linePattern = regexp.MustCompile(`^([^:]*):\s*(.*)\s*<(.*)>`)

// parseLine splits a trailer line into its raw label and person
func parseLine(line string) (label string, p Person, ok bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return "", Person{}, false
	}
	return m[1], Person{Name: strings.TrimSpace(m[2]), Email: strings.TrimSpace(m[3])}, true
}

// Extract returns one contribution per mapped kind for every line whose
// lower-cased label is in the table. Unknown labels and non-trailer lines are skipped.
// Output follows line order, then kind order within a line.
func Extract(lines []string) []Contribution {
	return extractWith(lines, func(label string) ([]Kind, bool) {
		return Lookup(strings.ToLower(label))
	})
}

// ExtractFuzzy behaves like Extract but resolves labels through the default Matcher
func ExtractFuzzy(lines []string) []Contribution {
	return DefaultMatcher().Extract(lines)
}

func extractWith(lines []string, resolve func(label string) ([]Kind, bool)) []Contribution {
	out := make([]Contribution, 0)
	for _, line := range lines {
		label, p, ok := parseLine(line)
		if !ok {
			continue
		}
		kinds, ok := resolve(label)
		if !ok {
			continue
		}
		for _, k := range kinds {
			out = append(out, Contribution{Kind: k, Person: p})
		}
	}
	return out
}
