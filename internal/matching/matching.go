// Package matching ranks other students by interest overlap.
package matching

import (
	"slices"
	"sort"

	"connectibles/internal/models"
)

// Limit is the maximum number of candidates returned.
const Limit = 10

// FindMatches scores every other user in population against current.
// An element of current's interests counts once per occurrence when the other
// user has it too; stored arrays are not deduplicated.
func FindMatches(current models.User, population []models.User) []models.Match {
	if len(current.Interests) == 0 {
		return []models.Match{}
	}

	matches := make([]models.Match, 0)
	for _, other := range population {
		if other.ID == current.ID || len(other.Interests) == 0 {
			continue
		}
		shared := SharedInterests(current.Interests, other.Interests)
		if len(shared) == 0 {
			continue
		}
		matches = append(matches, models.Match{
			User:            other.Public(),
			Score:           len(shared),
			SharedInterests: shared,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > Limit {
		matches = matches[:Limit]
	}
	return matches
}

// SharedInterests filters mine down to the entries present in theirs.
func SharedInterests(mine, theirs []string) []string {
	shared := make([]string, 0)
	for _, interest := range mine {
		if slices.Contains(theirs, interest) {
			shared = append(shared, interest)
		}
	}
	return shared
}
