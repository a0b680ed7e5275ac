// Package rules implements the deterministic side of the categorization
// engine: a read-only merchant rule index and the classifier that applies it.
package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spendlens/spendlens/internal/model"
)

// Rule maps a normalized merchant-name fragment to a category label.
type Rule struct {
	Fragment string
	Category model.CategoryLabel
}

// Index is a lookup structure over merchant rules. It never calls out to
// the network, has no side effects, and is safe to share read-only across
// concurrent lookups once built.
type Index struct {
	rules []Rule
}

var (
	referenceCodeRe = regexp.MustCompile(`[#*]\w*`)
	longDigitsRe    = regexp.MustCompile(`\d{4,}`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases a description, strips card-network reference codes
// and long digit runs, and collapses whitespace.
func Normalize(description string) string {
	desc := strings.ToLower(strings.TrimSpace(description))
	desc = referenceCodeRe.ReplaceAllString(desc, "")
	desc = longDigitsRe.ReplaceAllString(desc, "")
	desc = whitespaceRe.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

// NewIndex builds an index from the given rules. Fragments are normalized
// the same way descriptions are; empty fragments and rules naming labels
// outside the closed set are dropped. When the same fragment appears more
// than once the later rule wins, so caller-supplied rules can override the
// built-in defaults.
func NewIndex(rules []Rule) *Index {
	byFragment := make(map[string]Rule, len(rules))
	for _, r := range rules {
		fragment := Normalize(r.Fragment)
		if fragment == "" || !r.Category.Valid() {
			continue
		}
		byFragment[fragment] = Rule{Fragment: fragment, Category: r.Category}
	}

	deduped := make([]Rule, 0, len(byFragment))
	for _, r := range byFragment {
		deduped = append(deduped, r)
	}

	// Longest fragment first so the first containment hit wins; ties break
	// lexicographically to keep lookups deterministic.
	sort.Slice(deduped, func(i, j int) bool {
		if len(deduped[i].Fragment) != len(deduped[j].Fragment) {
			return len(deduped[i].Fragment) > len(deduped[j].Fragment)
		}
		return deduped[i].Fragment < deduped[j].Fragment
	})

	return &Index{rules: deduped}
}

// Lookup returns the category for the longest rule fragment contained in
// the normalized description, plus the fragment that matched. ok is false
// when no rule matches.
func (ix *Index) Lookup(description string) (category model.CategoryLabel, fragment string, ok bool) {
	desc := Normalize(description)
	if desc == "" {
		return "", "", false
	}

	for _, r := range ix.rules {
		if strings.Contains(desc, r.Fragment) {
			return r.Category, r.Fragment, true
		}
	}

	return "", "", false
}

// Rules returns a copy of the active rules, longest fragment first.
func (ix *Index) Rules() []Rule {
	out := make([]Rule, len(ix.rules))
	copy(out, ix.rules)
	return out
}

// Size returns the number of active rules.
func (ix *Index) Size() int {
	return len(ix.rules)
}
