package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple title", input: "Hello World", expected: "hello-world"},
		{name: "with punctuation", input: "Hello, World!", expected: "hello-world"},
		{name: "with numbers", input: "Top 10 Tips", expected: "top-10-tips"},
		{name: "with accents", input: "Café résumé", expected: "cafe-resume"},
		{name: "with multiple spaces", input: "Hello   World", expected: "hello-world"},
		{name: "with tabs and newlines", input: "Hello\t\nWorld", expected: "hello-world"},
		{name: "with hyphens", input: "Hello - World", expected: "hello-world"},
		{name: "leading and trailing spaces", input: "  Hello World  ", expected: "hello-world"},
		{name: "only symbols", input: "!@#$%^&*()", expected: ""},
		{name: "non-latin script", input: "Привет", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugifyTruncatesLongTitles(t *testing.T) {
	title := strings.Repeat("word ", 40)

	got := Slugify(title)

	if len(got) > MaxSlugLength {
		t.Fatalf("len(Slugify) = %d, want <= %d", len(got), MaxSlugLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("Slugify(long) = %q, must not end with a hyphen", got)
	}
	if !IsValidSlug(got) {
		t.Errorf("Slugify(long) = %q is not a valid slug", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"hello-world", true},
		{"post-2", true},
		{"a", true},
		{"", false},
		{"Hello", false},
		{"-hello", false},
		{"hello-", false},
		{"hello--world", false},
		{"hello_world", false},
		{"../etc", false},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.valid {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input  string
		wantID int64
		wantOK bool
	}{
		{"1", 1, true},
		{" 42 ", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, ok := ParseID(tt.input)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ParseID(%q) = (%d, %v), want (%d, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
