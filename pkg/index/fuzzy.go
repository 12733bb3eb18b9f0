/*
Package index implements the two per-snapshot indices: a weighted multi-field
fuzzy index and a TF-IDF similarity index.

Both are built in one pass over the full bookmark snapshot and thrown away
whenever the snapshot changes. There is no incremental update: the only write
path is "replace snapshot, rebuild everything", which keeps the indices
effectively immutable between swaps.
*/
package index

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/markserve/markserve/pkg/bookmark"
)

// Searchable field names, ordered by weight.
const (
	FieldTitle   = "title"
	FieldURL     = "url"
	FieldSummary = "summary"
	FieldTags    = "tags"
)

// minQueryLen rejects low-confidence one-character queries instead of guessing.
const minQueryLen = 2

// Weights holds the relative per-field match weights in (0, 1].
// Title must outrank url, url summary, summary tags.
type Weights struct {
	Title   float64
	URL     float64
	Summary float64
	Tags    float64
}

// DefaultWeights returns the tuned field weights.
func DefaultWeights() Weights {
	return Weights{Title: 1.0, URL: 0.8, Summary: 0.6, Tags: 0.4}
}

// Valid checks the ordering invariant and that every weight is usable.
func (w Weights) Valid() bool {
	return w.Title > w.URL && w.URL > w.Summary && w.Summary > w.Tags &&
		w.Tags > 0 && w.Title <= 1.0
}

// Span is a matched character range [Start, End) in field text.
type Span struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
}

// FieldMatch records where a query matched inside one field.
type FieldMatch struct {
	Field    string `msgpack:"field"`
	Spans    []Span `msgpack:"spans"`
	Fragment string `msgpack:"fragment"`
}

// Hit is one fuzzy-matched bookmark. Raw is a distance in [0, 1] where lower
// is better; callers normalize it before mixing with other signals.
type Hit struct {
	Index   int
	Raw     float64
	Matches []FieldMatch
}

type fuzzyField struct {
	name   string
	weight float64
	texts  []string
}

// Fuzzy is the weighted multi-field approximate index for one snapshot.
type Fuzzy struct {
	fields []fuzzyField
	size   int
}

// NewFuzzy builds the index from a snapshot. Cost is linear in corpus size
// and field count. Invalid weights fall back to defaults.
func NewFuzzy(records []bookmark.Record, w Weights) *Fuzzy {
	if !w.Valid() {
		w = DefaultWeights()
	}

	fields := []fuzzyField{
		{name: FieldTitle, weight: w.Title, texts: make([]string, len(records))},
		{name: FieldURL, weight: w.URL, texts: make([]string, len(records))},
		{name: FieldSummary, weight: w.Summary, texts: make([]string, len(records))},
		{name: FieldTags, weight: w.Tags, texts: make([]string, len(records))},
	}
	for i, r := range records {
		fields[0].texts[i] = r.SearchTitle()
		fields[1].texts[i] = r.URL
		fields[2].texts[i] = r.AISummary
		fields[3].texts[i] = strings.Join(r.AllTags(), " ")
	}
	return &Fuzzy{fields: fields, size: len(records)}
}

// Size returns the number of indexed records.
func (f *Fuzzy) Size() int { return f.size }

// Search runs the query against every field and returns one Hit per matched
// record, ordered by snapshot index. Queries shorter than two characters
// return nothing.
func (f *Fuzzy) Search(query string) []Hit {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen || f.size == 0 {
		return nil
	}

	ideal := idealScore(query)
	if ideal <= 0 {
		return nil
	}

	byIndex := make(map[int]*Hit)
	for _, field := range f.fields {
		for _, m := range fuzzy.Find(query, field.texts) {
			sim := float64(m.Score) / float64(ideal)
			if sim > 1 {
				sim = 1
			}
			if sim < 0 {
				sim = 0
			}
			dist := 1 - field.weight*sim

			hit, ok := byIndex[m.Index]
			if !ok {
				hit = &Hit{Index: m.Index, Raw: dist}
				byIndex[m.Index] = hit
			} else if dist < hit.Raw {
				hit.Raw = dist
			}
			hit.Matches = append(hit.Matches, FieldMatch{
				Field:    field.name,
				Spans:    toSpans(m.MatchedIndexes),
				Fragment: highlight(m.Str, m.MatchedIndexes),
			})
		}
	}

	hits := make([]Hit, 0, len(byIndex))
	for _, h := range byIndex {
		hits = append(hits, *h)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Index < hits[j].Index })
	return hits
}

// idealScore is what the matcher awards the query matched against itself.
// Dividing by it turns raw match scores into a 0..1 similarity.
func idealScore(query string) int {
	self := fuzzy.Find(query, []string{query})
	if len(self) == 0 {
		return 0
	}
	return self[0].Score
}

// toSpans compresses sorted matched indexes into half-open ranges.
func toSpans(indexes []int) []Span {
	if len(indexes) == 0 {
		return nil
	}
	spans := []Span{{Start: indexes[0], End: indexes[0] + 1}}
	for _, idx := range indexes[1:] {
		last := &spans[len(spans)-1]
		if idx == last.End {
			last.End++
		} else {
			spans = append(spans, Span{Start: idx, End: idx + 1})
		}
	}
	return spans
}

// highlight wraps matched runs in <mark> tags for display.
func highlight(text string, indexes []int) string {
	if len(indexes) == 0 {
		return text
	}
	matched := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		matched[idx] = true
	}

	var b strings.Builder
	open := false
	for i := 0; i < len(text); i++ {
		if matched[i] && !open {
			b.WriteString("<mark>")
			open = true
		} else if !matched[i] && open {
			b.WriteString("</mark>")
			open = false
		}
		b.WriteByte(text[i])
	}
	if open {
		b.WriteString("</mark>")
	}
	return b.String()
}
