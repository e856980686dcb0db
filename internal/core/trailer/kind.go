// Package trailer parses "Label: Name <email>" lines out of commit messages
// and maps their labels onto canonical contribution kinds.
package trailer

import (
	"sort"
	"strings"
)

// Kind is a canonical contribution role as carried by a trailer
type Kind string

const (
	ApprovedBy   Kind = "Approved-by"
	CoAuthoredBy Kind = "Co-authored-by"
	CommittedBy  Kind = "Committed-by"
	InfluencedBy Kind = "Influenced-by"
	InformedBy   Kind = "Informed-by"
	ReportedBy   Kind = "Reported-by"
	ResolvedBy   Kind = "Resolved-by"
	ReviewedBy   Kind = "Reviewed-by"
	SignedOffBy  Kind = "Signed-off-by"
	TestedBy     Kind = "Tested-by"
)

// ActivityType returns the activity type emitted for the kind,
// eg Signed-off-by becomes signed-off-commit
func (k Kind) ActivityType() string {
	return strings.ReplaceAll(strings.ToLower(string(k)), "-by", "") + "-commit"
}

// Person is a name and email pair as written in a commit
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Contribution is one kind attributed to one person
type Contribution struct {
	Kind   Kind
	Person Person
}

// Lookup returns the kinds for an already lower-cased label
// The returned slice is a copy
func Lookup(label string) ([]Kind, bool) {
	kinds, ok := table[label]
	if !ok {
		return nil, false
	}
	return append([]Kind(nil), kinds...), true
}

// Labels returns every known label in sorted order
func Labels() []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
