package search

import (
	"sort"
	"testing"

	"github.com/markserve/markserve/pkg/dictionary"
)

func contains(terms []string, want string) bool {
	for _, t := range terms {
		if t == want {
			return true
		}
	}
	return false
}

func TestExpand(t *testing.T) {
	dict := dictionary.Default()

	got := Expand(dict, "llm")
	for _, want := range []string{"llm", "ai", "gpt", "chatgpt", "claude", "transformer", "language model"} {
		if !contains(got, want) {
			t.Errorf("Expand(llm) = %v, missing %q", got, want)
		}
	}
}

func TestExpandMultiToken(t *testing.T) {
	dict := dictionary.Default()

	got := Expand(dict, "python tutorial")
	for _, want := range []string{"python", "tutorial", "django", "guide"} {
		if !contains(got, want) {
			t.Errorf("Expand(python tutorial) = %v, missing %q", got, want)
		}
	}
}

func TestExpandDeterministic(t *testing.T) {
	dict := dictionary.Default()

	got := Expand(dict, "docker kubernetes")
	if !sort.StringsAreSorted(got) {
		t.Errorf("Expand output is not sorted: %v", got)
	}

	seen := make(map[string]bool, len(got))
	for _, term := range got {
		if seen[term] {
			t.Errorf("duplicate term %q", term)
		}
		seen[term] = true
	}
}

func TestExpandUnknownAndEmpty(t *testing.T) {
	dict := dictionary.Default()

	got := Expand(dict, "qwxzv")
	if len(got) != 1 || got[0] != "qwxzv" {
		t.Errorf("Expand on unknown token = %v, want just the token back", got)
	}

	if got := Expand(dict, ""); len(got) != 0 {
		t.Errorf("Expand on empty query = %v, want empty", got)
	}
	// single chars never survive tokenization
	if got := Expand(dict, "a"); len(got) != 0 {
		t.Errorf("Expand on one-char query = %v, want empty", got)
	}
}
