package index

import (
	"reflect"
	"strings"
	"testing"

	"github.com/markserve/markserve/pkg/bookmark"
)

func fuzzyCorpus() []bookmark.Record {
	return []bookmark.Record{
		{
			ID:        "b1",
			Title:     "Python Tutorial",
			URL:       "https://docs.python.org/tutorial",
			AISummary: "Learn python basics step by step",
			Tags:      []string{"python", "learning"},
		},
		{
			ID:    "b2",
			Title: "Go Blog",
			URL:   "https://go.dev/blog",
		},
		{
			ID:    "b3",
			Title: "Rust Book",
			URL:   "https://doc.rust-lang.org/book",
		},
	}
}

func TestFuzzySearch(t *testing.T) {
	idx := NewFuzzy(fuzzyCorpus(), DefaultWeights())

	hits := idx.Search("python")
	if len(hits) == 0 {
		t.Fatal("no hits for python")
	}

	var b1 *Hit
	for i := range hits {
		if hits[i].Index == 0 {
			b1 = &hits[i]
		}
	}
	if b1 == nil {
		t.Fatal("b1 not in hits")
	}
	if b1.Raw < 0 || b1.Raw > 1 {
		t.Errorf("raw distance %v out of [0,1]", b1.Raw)
	}
	if b1.Raw >= 0.25 {
		t.Errorf("near-exact title match should be tight, got %v", b1.Raw)
	}

	hasTitle := false
	for _, m := range b1.Matches {
		if m.Field == FieldTitle {
			hasTitle = true
			if !strings.Contains(m.Fragment, "<mark>") {
				t.Errorf("fragment lacks highlight: %q", m.Fragment)
			}
		}
	}
	if !hasTitle {
		t.Error("expected a title field match")
	}
}

func TestFuzzySearchTypo(t *testing.T) {
	idx := NewFuzzy(fuzzyCorpus(), DefaultWeights())

	// dropped char still reaches the record
	hits := idx.Search("pythn")
	found := false
	for _, h := range hits {
		if h.Index == 0 {
			found = true
		}
	}
	if !found {
		t.Error("typo query pythn did not reach the python record")
	}
}

func TestFuzzyFieldWeightOrdering(t *testing.T) {
	records := []bookmark.Record{
		{ID: "a", Title: "golang weekly"},
		{ID: "b", Title: "xxxx", Tags: []string{"golang"}},
	}
	idx := NewFuzzy(records, DefaultWeights())

	hits := idx.Search("golang")
	if len(hits) != 2 {
		t.Fatalf("want both records hit, got %d", len(hits))
	}
	// hits come back in snapshot order
	if hits[0].Index != 0 || hits[1].Index != 1 {
		t.Fatalf("hits not in snapshot order: %v %v", hits[0].Index, hits[1].Index)
	}
	if hits[0].Raw >= hits[1].Raw {
		t.Errorf("title match (%v) should beat tag-only match (%v)", hits[0].Raw, hits[1].Raw)
	}
}

func TestFuzzyShortAndEmptyQueries(t *testing.T) {
	idx := NewFuzzy(fuzzyCorpus(), DefaultWeights())

	if hits := idx.Search("p"); hits != nil {
		t.Errorf("one-char query should return nil, got %v", hits)
	}
	if hits := idx.Search("  "); hits != nil {
		t.Errorf("whitespace query should return nil, got %v", hits)
	}
	if hits := idx.Search("zzqqww"); len(hits) != 0 {
		t.Errorf("nonsense query should return nothing, got %v", hits)
	}
}

func TestFuzzyEmptyCorpus(t *testing.T) {
	idx := NewFuzzy(nil, DefaultWeights())
	if idx.Size() != 0 {
		t.Errorf("Size = %d, want 0", idx.Size())
	}
	if hits := idx.Search("python"); hits != nil {
		t.Errorf("empty corpus should return nil, got %v", hits)
	}
}

func TestFuzzyInvalidWeightsFallBack(t *testing.T) {
	// tags heavier than title violates the ordering and reverts to defaults
	bad := Weights{Title: 0.4, URL: 0.8, Summary: 0.6, Tags: 1.0}
	if bad.Valid() {
		t.Fatal("weights should be invalid")
	}

	records := []bookmark.Record{
		{ID: "a", Title: "golang weekly"},
		{ID: "b", Title: "xxxx", Tags: []string{"golang"}},
	}
	idx := NewFuzzy(records, bad)
	hits := idx.Search("golang")
	if len(hits) != 2 {
		t.Fatalf("want 2 hits, got %d", len(hits))
	}
	if hits[0].Raw >= hits[1].Raw {
		t.Error("fallback weights should still favor the title match")
	}
}

func TestToSpans(t *testing.T) {
	testCases := []struct {
		indexes  []int
		expected []Span
	}{
		{nil, nil},
		{[]int{0, 1, 2}, []Span{{0, 3}}},
		{[]int{0, 2, 3, 7}, []Span{{0, 1}, {2, 4}, {7, 8}}},
	}

	for _, tc := range testCases {
		got := toSpans(tc.indexes)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("toSpans(%v) = %v, want %v", tc.indexes, got, tc.expected)
		}
	}
}

func TestHighlight(t *testing.T) {
	got := highlight("python", []int{0, 1, 2})
	if got != "<mark>pyt</mark>hon" {
		t.Errorf("highlight = %q", got)
	}
	got = highlight("abc", []int{0, 2})
	if got != "<mark>a</mark>b<mark>c</mark>" {
		t.Errorf("highlight = %q", got)
	}
	if got := highlight("abc", nil); got != "abc" {
		t.Errorf("highlight with no indexes = %q", got)
	}
}
