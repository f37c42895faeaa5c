package shingle

import (
	"strings"
	"testing"
)

func TestSetShortTextUsesNarrowShingles(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	set := Set(text)
	// 9 tokens, k=3, 7 windows, all distinct.
	if len(set) != 7 {
		t.Fatalf("expected 7 shingles, got %d", len(set))
	}
	if _, ok := set["the quick brown"]; !ok {
		t.Fatalf("expected first trigram shingle, got %v", set)
	}
}

func TestSetLongTextUsesDefaultWidth(t *testing.T) {
	words := make([]string, 60)
	for i := range words {
		words[i] = "w" + strings.Repeat("x", i%7)
	}
	text := strings.Join(words, " ")
	if k := K(len(Tokenize(text))); k != DefaultK {
		t.Fatalf("expected k=%d for 60 tokens, got %d", DefaultK, k)
	}
	set := Set(text)
	if len(set) == 0 || len(set) > 60-DefaultK+1 {
		t.Fatalf("unexpected shingle count %d", len(set))
	}
	for s := range set {
		if got := len(strings.Fields(s)); got != DefaultK {
			t.Fatalf("expected %d-word shingle, got %q", DefaultK, s)
		}
	}
}

func TestSetBelowWidthEmitsSingleShingle(t *testing.T) {
	set := Set("Hello World")
	if len(set) != 1 {
		t.Fatalf("expected single shingle, got %d", len(set))
	}
	if _, ok := set["hello world"]; !ok {
		t.Fatalf("expected joined lower-cased shingle, got %v", set)
	}
}

func TestSetEmptyText(t *testing.T) {
	if set := Set(""); len(set) != 0 {
		t.Fatalf("expected empty set for empty text, got %v", set)
	}
	if set := Set("!!! ???"); len(set) != 0 {
		t.Fatalf("expected empty set for punctuation-only text, got %v", set)
	}
}

func TestSetCollapsesDuplicates(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("alpha beta gamma ", 4))
	set := Set(text)
	// Repetition produces repeated windows; the set must collapse them.
	if len(set) > 3 {
		t.Fatalf("expected at most 3 distinct shingles, got %d", len(set))
	}
}

func TestTokenizeKeepsApostrophes(t *testing.T) {
	tokens := Tokenize("Don't stop, it's fine.")
	want := []string{"don't", "stop", "it's", "fine"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tokens)
		}
	}
}
