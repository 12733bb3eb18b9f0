/*
Package dictionary holds the curated synonym and category tables that drive
query expansion and semantic boosting.

The tables are plain static data: word -> related terms and
category -> associated terms. They are loaded once at process start and never
mutated afterwards; every component that needs lookups receives the same
*Dictionary by reference. Lookups are case-insensitive and support forward
(key -> values) matching as well as symmetric substring matching, so a token
like "pytorch" still reaches the "torch" entry and vice versa.
*/
package dictionary

import "strings"

// Dictionary is an immutable pair of lookup tables.
type Dictionary struct {
	synonyms   map[string][]string
	categories map[string][]string
}

// New builds a Dictionary from raw tables. Keys and values are lowercased;
// the input maps are copied so callers cannot mutate the dictionary later.
func New(synonyms, categories map[string][]string) *Dictionary {
	return &Dictionary{
		synonyms:   foldTable(synonyms),
		categories: foldTable(categories),
	}
}

// Default returns the builtin dictionary.
func Default() *Dictionary {
	return New(defaultSynonyms, defaultCategories)
}

func foldTable(src map[string][]string) map[string][]string {
	dst := make(map[string][]string, len(src))
	for key, values := range src {
		folded := make([]string, len(values))
		for i, v := range values {
			folded[i] = strings.ToLower(v)
		}
		dst[strings.ToLower(key)] = folded
	}
	return dst
}

// Synonyms returns the related terms for an exact key match, or nil.
func (d *Dictionary) Synonyms(term string) []string {
	return d.synonyms[strings.ToLower(term)]
}

// Related returns every value whose key matches the token exactly or by
// substring in either direction. This is the lookup query expansion uses.
func (d *Dictionary) Related(token string) []string {
	token = strings.ToLower(token)
	if token == "" {
		return nil
	}

	var out []string
	if values, ok := d.synonyms[token]; ok {
		out = append(out, values...)
	}
	for key, values := range d.synonyms {
		if key == token {
			continue
		}
		if strings.Contains(token, key) || strings.Contains(key, token) {
			out = append(out, values...)
		}
	}
	for key, values := range d.categories {
		if key == token || strings.Contains(token, key) || strings.Contains(key, token) {
			out = append(out, values...)
		}
	}
	return out
}

// Associated reports whether two terms are linked through the synonym table:
// equal under folding, or either term appears among the other's related terms.
func (d *Dictionary) Associated(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	for _, v := range d.Related(a) {
		if v == b {
			return true
		}
	}
	for _, v := range d.Related(b) {
		if v == a {
			return true
		}
	}
	return false
}

// CategoryTerms returns the associated terms for a category, or nil.
func (d *Dictionary) CategoryTerms(category string) []string {
	return d.categories[strings.ToLower(category)]
}

// CategoryHas reports whether the category's association list contains the
// token (exact fold match).
func (d *Dictionary) CategoryHas(category, token string) bool {
	token = strings.ToLower(token)
	for _, term := range d.categories[strings.ToLower(category)] {
		if term == token {
			return true
		}
	}
	return false
}

// Terms returns every key and value in both tables, deduplicated.
// The suggestion trie seeds itself from this.
func (d *Dictionary) Terms() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for key, values := range d.synonyms {
		add(key)
		for _, v := range values {
			add(v)
		}
	}
	for key, values := range d.categories {
		add(key)
		for _, v := range values {
			add(v)
		}
	}
	return out
}
