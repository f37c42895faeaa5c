package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunVisitsEveryIndex(t *testing.T) {
	const n = 9
	var called int32
	errs := Run(n, 3, func(i int) error {
		atomic.AddInt32(&called, 1)
		if i == 4 {
			return errors.New("test error")
		}
		return nil
	})

	if called != n {
		t.Fatalf("expected %d calls, got %d", n, called)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestRunWriteOnceSlots(t *testing.T) {
	out := make([]int, 50)
	errs := Run(len(out), 8, func(i int) error {
		out[i] = i * i
		return nil
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("slot %d not written: got %d", i, v)
		}
	}
}

func TestRunEmptyAndNil(t *testing.T) {
	if errs := Run(0, 4, func(int) error { return nil }); errs != nil {
		t.Fatalf("expected nil for empty run, got %v", errs)
	}
	if errs := Run(5, 4, nil); errs != nil {
		t.Fatalf("expected nil for nil fn, got %v", errs)
	}
}
