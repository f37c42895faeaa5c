package cache

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestKeyIsContentSensitive(t *testing.T) {
	a := Key("text", "desc", "")
	if a != Key("text", "desc", "") {
		t.Fatal("expected stable key for identical inputs")
	}
	if a == Key("text", "other desc", "") {
		t.Fatal("expected description to affect the key")
	}
	if a == Key("text", "desc", "supplement") {
		t.Fatal("expected supplement to affect the key")
	}
	// Field boundaries must not bleed into each other.
	if Key("ab", "c", "") == Key("a", "bc", "") {
		t.Fatal("expected distinct keys for shifted field boundaries")
	}
}

func TestMemoryFirstWriterWins(t *testing.T) {
	m := NewMemory()
	if err := m.Put("k", Result{Grade: 80, Feedback: "first"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := m.Put("k", Result{Grade: 10, Feedback: "second"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	r, ok, err := m.Get("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if r.Grade != 80 || r.Feedback != "first" {
		t.Fatalf("expected first write to win, got %+v", r)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
}

func TestMemoryConcurrentPutConverges(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(grade int) {
			defer wg.Done()
			_ = m.Put("shared", Result{Grade: grade})
		}(i)
	}
	wg.Wait()
	first, ok, _ := m.Get("shared")
	if !ok {
		t.Fatal("expected a cached value")
	}
	again, _, _ := m.Get("shared")
	if first != again {
		t.Fatalf("expected a single converged value, got %+v then %+v", first, again)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Put("k", Result{Grade: 77, Feedback: "solid work"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put("k", Result{Grade: 1, Feedback: "overwrite attempt"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	r, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if r.Grade != 77 || r.Feedback != "solid work" {
		t.Fatalf("expected first write to win, got %+v", r)
	}
}
