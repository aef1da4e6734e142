package category

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest ranks the known mapping keys by fuzzy similarity to key and returns
// the closest max results. It helps the user map a new counterparty or
// complement that is a near-variation of one already categorized
// ("JOAO SILVA 01" vs "JOAO SILVA 02").
func Suggest(key string, known []string, max int) []string {
	if key == "" || len(known) == 0 || max <= 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(key, known)
	sort.Sort(ranks)

	if len(ranks) > max {
		ranks = ranks[:max]
	}
	suggestions := make([]string, 0, len(ranks))
	for _, r := range ranks {
		suggestions = append(suggestions, r.Target)
	}
	return suggestions
}
