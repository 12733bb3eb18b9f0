package utils

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"Python Tutorial", []string{"python", "tutorial"}},
		{"react-hooks_guide v2", []string{"react", "hooks", "guide", "v2"}},
		{"https://example.com/path", []string{"https", "example", "com", "path"}},
		// single-char runs are dropped
		{"a b cd", []string{"cd"}},
		{"", nil},
		{"!!! ???", nil},
		{"UTF8 and word2vec", []string{"utf8", "and", "word2vec"}},
	}

	for _, tc := range testCases {
		got := Tokenize(tc.input)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestUniqueTokens(t *testing.T) {
	got := UniqueTokens("go go GOLANG go")
	want := []string{"go", "golang"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueTokens = %v, want %v", got, want)
	}
}

func TestFoldHelpers(t *testing.T) {
	if !ContainsFold("Python Tutorial", "PYTHON") {
		t.Error("ContainsFold should be case-insensitive")
	}
	if ContainsFold("Python", "ruby") {
		t.Error("ContainsFold matched a missing substring")
	}
	if !HasPrefixFold("Dev/Work/AI", "dev/work") {
		t.Error("HasPrefixFold should be case-insensitive")
	}
	if HasPrefixFold("Dev/Work", "work") {
		t.Error("HasPrefixFold matched a non-prefix")
	}
	if !EqualsFold("AI", "ai") {
		t.Error("EqualsFold should fold case")
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}

	for _, tc := range testCases {
		if got := FormatWithCommas(tc.input); got != tc.expected {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
