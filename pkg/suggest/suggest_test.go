package suggest

import (
	"testing"

	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/dictionary"
)

func TestSuggestFromDictionary(t *testing.T) {
	s := NewSuggester(dictionary.Default())

	got := s.Suggest("pyth", 5)
	found := false
	for _, term := range got {
		if term == "python" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest(pyth) = %v, want python among them", got)
	}
}

func TestSuggestCorpusTermsRankFirst(t *testing.T) {
	s := NewSuggester(dictionary.Default())
	s.Rebuild([]bookmark.Record{
		{ID: "a", Title: "golang golang golang"},
	})

	got := s.Suggest("go", 3)
	if len(got) == 0 {
		t.Fatal("no suggestions for prefix go")
	}
	if got[0] != "golang" {
		t.Errorf("Suggest(go) = %v, corpus term golang should rank first", got)
	}
}

func TestSuggestExcludesExactInput(t *testing.T) {
	s := NewSuggester(dictionary.Default())

	for _, term := range s.Suggest("golang", 10) {
		if term == "golang" {
			t.Error("suggestions include the input itself")
		}
	}
}

func TestSuggestLimitAndEmptyInput(t *testing.T) {
	s := NewSuggester(dictionary.Default())

	if got := s.Suggest("", 5); got != nil {
		t.Errorf("empty input = %v, want nil", got)
	}
	if got := s.Suggest("go", 0); got != nil {
		t.Errorf("zero limit = %v, want nil", got)
	}
	if got := s.Suggest("go", 2); len(got) > 2 {
		t.Errorf("limit 2 returned %d terms", len(got))
	}
}

func TestSuggestTagsJoinThePool(t *testing.T) {
	s := NewSuggester(dictionary.Default())
	s.Rebuild([]bookmark.Record{
		{ID: "a", Title: "Reading list", Tags: []string{"zettelkasten"}},
	})

	got := s.Suggest("zettel", 5)
	found := false
	for _, term := range got {
		if term == "zettelkasten" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest(zettel) = %v, want the tag zettelkasten", got)
	}
}

func TestSuggestRebuildReplacesSnapshotTerms(t *testing.T) {
	s := NewSuggester(dictionary.Default())
	s.Rebuild([]bookmark.Record{{ID: "a", Tags: []string{"zettelkasten"}}})
	s.Rebuild(nil)

	if got := s.Suggest("zettel", 5); len(got) != 0 {
		t.Errorf("stale snapshot term survived rebuild: %v", got)
	}
}
