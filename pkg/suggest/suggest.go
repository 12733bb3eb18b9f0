/*
Package suggest produces completion candidates for partial query input.

Candidates come from two pools: the synonym/category dictionary terms, and
the tokens and tags observed in the current bookmark snapshot. Snapshot terms
carry their occurrence count so frequent terms surface first; dictionary
terms rank behind anything actually present in the user's collection.
*/
package suggest

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/markserve/markserve/internal/utils"
	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/dictionary"
)

// dictionary terms get the lowest rank so corpus terms always win ties.
const dictFrequency = 1

type entry struct {
	term string
	freq int
}

// Suggester is the prefix-completion index. Rebuilt whole on snapshot swap.
type Suggester struct {
	trie *patricia.Trie
	dict *dictionary.Dictionary
}

// NewSuggester seeds a suggester with the dictionary terms only.
func NewSuggester(dict *dictionary.Dictionary) *Suggester {
	s := &Suggester{dict: dict}
	s.Rebuild(nil)
	return s
}

// Rebuild replaces the trie with dictionary terms plus the snapshot's tokens
// and tags. Multi-word dictionary terms are inserted whole and per word.
func (s *Suggester) Rebuild(records []bookmark.Record) {
	freqs := make(map[string]int)

	for _, term := range s.dict.Terms() {
		freqs[term] = dictFrequency
		for _, word := range strings.Fields(term) {
			if _, ok := freqs[word]; !ok {
				freqs[word] = dictFrequency
			}
		}
	}

	for _, r := range records {
		for _, token := range utils.Tokenize(r.Document()) {
			freqs[token]++
		}
		for _, tag := range r.AllTags() {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				freqs[tag]++
			}
		}
	}

	trie := patricia.NewTrie()
	for term, freq := range freqs {
		trie.Insert(patricia.Prefix(term), freq)
	}
	s.trie = trie
}

// Suggest returns up to limit completion terms for the partial input,
// most frequent first, alphabetical on ties. The exact input itself is
// excluded; empty input returns nothing.
func (s *Suggester) Suggest(partial string, limit int) []string {
	prefix := strings.ToLower(strings.TrimSpace(partial))
	if prefix == "" || limit <= 0 {
		return nil
	}

	var entries []entry
	err := s.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		term := string(p)
		if term == prefix {
			return nil
		}
		freq := dictFrequency
		if v, ok := item.(int); ok {
			freq = v
		}
		entries = append(entries, entry{term: term, freq: freq})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].freq != entries[j].freq {
			return entries[i].freq > entries[j].freq
		}
		return entries[i].term < entries[j].term
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.term
	}
	return out
}
