package dictionary

import "testing"

func TestRelated(t *testing.T) {
	d := Default()

	testCases := []struct {
		token       string
		wantTerm    string
		description string
	}{
		{"llm", "gpt", "exact synonym key"},
		{"LLM", "gpt", "case insensitive lookup"},
		{"python", "django", "exact synonym key"},
		// "pytorch" has no entry but contains no key either way;
		// "torch" is not in the tables, so check the substring path
		// with something that is: "javascript" contains "js".
		{"javascript", "frontend", "key contained in token"},
		{"ai", "prompt", "category values join the expansion"},
	}

	for _, tc := range testCases {
		got := d.Related(tc.token)
		found := false
		for _, term := range got {
			if term == tc.wantTerm {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s: Related(%q) = %v, missing %q", tc.description, tc.token, got, tc.wantTerm)
		}
	}

	if got := d.Related("zzzzz"); len(got) != 0 {
		t.Errorf("Related on unknown token = %v, want empty", got)
	}
	if got := d.Related(""); got != nil {
		t.Errorf("Related on empty token = %v, want nil", got)
	}
}

func TestAssociated(t *testing.T) {
	d := Default()

	testCases := []struct {
		a, b string
		want bool
	}{
		{"llm", "gpt", true},
		{"gpt", "llm", true}, // symmetric
		{"ai", "AI", true},   // fold-equal
		{"llm", "recipe", false},
		{"", "gpt", false},
	}

	for _, tc := range testCases {
		if got := d.Associated(tc.a, tc.b); got != tc.want {
			t.Errorf("Associated(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCategoryHas(t *testing.T) {
	d := Default()

	if !d.CategoryHas("AI", "llm") {
		t.Error("category ai should contain llm")
	}
	if !d.CategoryHas("ai", "LLM") {
		t.Error("token lookup should fold case")
	}
	if d.CategoryHas("ai", "recipe") {
		t.Error("category ai should not contain recipe")
	}
	if d.CategoryHas("nonexistent", "llm") {
		t.Error("unknown category should have nothing")
	}
}

func TestNewCopiesInput(t *testing.T) {
	syn := map[string][]string{"Foo": {"BAR"}}
	d := New(syn, nil)

	// mutate the source after construction
	syn["foo"] = []string{"evil"}

	got := d.Synonyms("foo")
	if len(got) != 1 || got[0] != "bar" {
		t.Errorf("Synonyms(foo) = %v, want [bar]", got)
	}
}

func TestTerms(t *testing.T) {
	d := Default()
	terms := d.Terms()
	if len(terms) == 0 {
		t.Fatal("Terms returned nothing")
	}

	seen := make(map[string]int)
	for _, term := range terms {
		seen[term]++
		if seen[term] > 1 {
			t.Errorf("duplicate term %q", term)
		}
	}
	// keys and values both present
	if seen["llm"] == 0 {
		t.Error("missing synonym key llm")
	}
	if seen["prompt"] == 0 {
		t.Error("missing category value prompt")
	}
}
