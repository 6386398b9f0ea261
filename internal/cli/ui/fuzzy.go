package ui

import (
	"slices"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance still offered as a suggestion
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of suggestions returned
	DefaultMaxSuggestions = 3
)

// FuzzyMatchOptions configures FindSimilar. Zero values take the defaults.
type FuzzyMatchOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

type suggestion struct {
	value    string
	distance int
}

// FindSimilar returns the candidates closest to target, closest first, ties in
// candidate order. Names may be schema qualified ("edfi.Student"); when target
// is not, only the unqualified part of a candidate is compared. A candidate
// that starts with target counts as one edit away, so "Student" suggests
// "StudentSchoolAssociation".
//
//	FindSimilar("Studnt", []string{"Student", "Staff", "School"}, nil)
//	// ["Student"]
func FindSimilar(target string, candidates []string, opts *FuzzyMatchOptions) []string {
	o := FuzzyMatchOptions{MaxDistance: DefaultMaxDistance, MaxSuggestions: DefaultMaxSuggestions}
	if opts != nil {
		o.CaseSensitive = opts.CaseSensitive
		if opts.MaxDistance > 0 {
			o.MaxDistance = opts.MaxDistance
		}
		if opts.MaxSuggestions > 0 {
			o.MaxSuggestions = opts.MaxSuggestions
		}
	}

	normalize := func(s string) string {
		if o.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}
	qualified := strings.Contains(target, ".")
	want := normalize(target)

	var matches []suggestion
	for _, candidate := range candidates {
		have := candidate
		if !qualified {
			have = unqualified(candidate)
		}
		have = normalize(have)

		dist := LevenshteinDistance(want, have)
		if want != "" && strings.HasPrefix(have, want) && dist > 1 {
			dist = 1
		}
		if dist <= o.MaxDistance {
			matches = append(matches, suggestion{value: candidate, distance: dist})
		}
	}

	slices.SortStableFunc(matches, func(a, b suggestion) int {
		return a.distance - b.distance
	})

	result := make([]string, 0, o.MaxSuggestions)
	for _, m := range matches {
		if len(result) == o.MaxSuggestions {
			break
		}
		result = append(result, m.value)
	}
	return result
}

// LevenshteinDistance counts the single-rune insertions, deletions and
// substitutions needed to turn a into b.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func unqualified(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
