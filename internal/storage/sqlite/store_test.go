package sqlite

import (
	"testing"

	"github.com/msh-shiplu/GEM/internal/domain"
)

func TestSeenStore(t *testing.T) {
	store := NewSeenStore(openTestDB(t))

	if _, ok, err := store.Lookup(3); err != nil || ok {
		t.Fatalf("Lookup() on empty store = ok %v, err %v", ok, err)
	}

	if err := store.Remember(&domain.Submission{Pid: 3, Sid: 1, Uid: 9, Content: "first"}); err != nil {
		t.Fatalf("Remember() error = %v", err)
	}
	if err := store.Remember(&domain.Submission{Pid: 3, Sid: 2, Uid: 9, Content: "second"}); err != nil {
		t.Fatalf("Remember() error = %v", err)
	}

	content, ok, err := store.Lookup(3)
	if err != nil || !ok {
		t.Fatalf("Lookup() = ok %v, err %v", ok, err)
	}
	if content != "second" {
		t.Errorf("content = %q; want second", content)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Lookup(3); ok {
		t.Error("Lookup() after Clear() should miss")
	}
}

func TestAttemptStore(t *testing.T) {
	store := NewAttemptStore(openTestDB(t))

	if _, ok, err := store.Remaining(5); err != nil || ok {
		t.Fatalf("Remaining() on empty store = ok %v, err %v", ok, err)
	}

	if err := store.Set(5, 3); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(5, 2); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	n, ok, err := store.Remaining(5)
	if err != nil || !ok || n != 2 {
		t.Errorf("Remaining() = %d, %v, %v; want 2, true, nil", n, ok, err)
	}

	if err := store.Set(5, 0); err != nil {
		t.Fatalf("Set(0) error = %v", err)
	}
	if n, ok, _ := store.Remaining(5); !ok || n != 0 {
		t.Errorf("exhausted budget = %d, %v; want 0, true", n, ok)
	}

	if err := store.Set(5, -1); err == nil {
		t.Error("Set() should reject a negative budget")
	}
}
