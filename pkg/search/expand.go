/*
Package search turns fuzzy hits, dictionary expansion and semantic
association into one deterministic, tier-ordered result list.
*/
package search

import (
	"sort"

	"github.com/markserve/markserve/internal/utils"
	"github.com/markserve/markserve/pkg/dictionary"
)

// Expand tokenizes the query and grows it through the dictionary: every token
// contributes itself, the values of an exact key match, and the values of any
// key related by substring in either direction. The result is a flat
// duplicate-free set; it is sorted only to keep downstream output
// deterministic. Empty and single-character queries just yield whatever
// tokens survive, never an error.
func Expand(dict *dictionary.Dictionary, query string) []string {
	tokens := utils.UniqueTokens(query)

	set := make(map[string]bool, len(tokens)*4)
	for _, token := range tokens {
		set[token] = true
		for _, term := range dict.Related(token) {
			set[term] = true
		}
	}

	out := make([]string, 0, len(set))
	for term := range set {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}
