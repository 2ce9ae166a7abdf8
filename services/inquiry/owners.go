package inquiry

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// owner names in the register and citizens' own spelling regularly
// disagree (abbreviated middle names, missing diacritics), so exact
// matching misses legitimate owners
const ownerMatchThreshold = 0.7

// MatchOwners returns the owners whose registered name resembles any
// of the search words, deduplicated by CPR number.
func MatchOwners(owners []Owner, searchWords []string) []Owner {
	var matched []Owner
	seen := map[string]bool{}

	for _, owner := range owners {
		if seen[owner.Cpr] {
			continue
		}
		if ownerMatches(owner.Name, searchWords) {
			seen[owner.Cpr] = true
			matched = append(matched, owner)
		}
	}
	return matched
}

func ownerMatches(name string, searchWords []string) bool {
	for _, part := range strings.Fields(strings.ToLower(name)) {
		for _, word := range searchWords {
			if matchr.JaroWinkler(part, strings.ToLower(word), true) >= ownerMatchThreshold {
				return true
			}
		}
	}
	return false
}
