package resource

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	handle, err := b.Create("t_INT", "test value")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	kind, ok := b.Kind(handle)
	if !ok || kind != "t_INT" {
		t.Fatalf("Kind = %q, %v", kind, ok)
	}

	val, ok = b.Drop(handle)
	if !ok {
		t.Fatal("Drop failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	if _, ok := b.Get(handle); ok {
		t.Fatal("Expected Get to fail after Drop")
	}
	if _, ok := b.Drop(handle); ok {
		t.Fatal("Expected second Drop to fail")
	}
}

func TestLocalBackend_StaleHandle(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create("t_INT", "first")
	b.Drop(h1)

	// The freed slot is reused with a new generation
	h2, _ := b.Create("t_INT", "second")
	if h2.slot() != h1.slot() {
		t.Fatalf("Expected slot reuse, got %d and %d", h1.slot(), h2.slot())
	}
	if h2 == h1 {
		t.Fatal("Reused slot must produce a different handle")
	}

	if _, ok := b.Get(h1); ok {
		t.Fatal("Stale handle must not resolve to the new value")
	}
	val, ok := b.Get(h2)
	if !ok || val != "second" {
		t.Fatalf("Get(h2) = %v, %v", val, ok)
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()

	h, _ := b.Create("t_INT", 1)
	b.Create("t_INT", 2)

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}

	if _, ok := b.Get(h); ok {
		t.Fatal("Handles must be invalid after Close")
	}

	_, err := b.Create("t_INT", "test")
	if !errors.Is(err, ErrClosed) {
		t.Fatal("Expected ErrClosed after Close")
	}
}

func TestLocalBackend_Counts(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create("t_INT", 1)
	h2, _ := b.Create("t_FFELT", 2)
	b.Create("t_INT", 3)

	if got := b.Counts(); got["t_INT"] != 2 || got["t_FFELT"] != 1 {
		t.Fatalf("Counts = %v", got)
	}

	b.Drop(h2)
	b.Drop(h2)
	if _, ok := b.Counts()["t_FFELT"]; ok {
		t.Fatal("Kind with no live values should disappear")
	}

	// A reused slot counts under its new kind
	b.Drop(h1)
	b.Create("t_POL", 4)
	if got := b.Counts(); got["t_INT"] != 1 || got["t_POL"] != 1 || b.Len() != 2 {
		t.Fatalf("Counts after reuse = %v, Len = %d", got, b.Len())
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, _ := b.Create("t_INT", id)
			if v, ok := b.Get(h); !ok || v != id {
				t.Errorf("Get(%d) = %v, %v", id, v, ok)
			}
			b.Drop(h)
		}(i)
	}

	wg.Wait()

	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend()

	if b.Len() != 0 {
		t.Fatal("Expected Len() == 0 initially")
	}

	h1, _ := b.Create("t_INT", "a")
	h2, _ := b.Create("t_INT", "b")
	b.Create("t_INT", "c")

	if b.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", b.Len())
	}

	b.Drop(h1)
	if b.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", b.Len())
	}

	b.Drop(h2)
	if b.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", b.Len())
	}
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	if _, ok := b.Get(0); ok {
		t.Fatal("Handle 0 should be invalid")
	}
	if _, ok := b.Kind(0); ok {
		t.Fatal("Handle 0 should be invalid for Kind")
	}
	if _, ok := b.Drop(0); ok {
		t.Fatal("Handle 0 should fail Drop")
	}

	if _, ok := b.Get(999); ok {
		t.Fatal("Non-existent handle should be invalid")
	}
	if _, ok := b.Get(makeHandle(0, 7)); ok {
		t.Fatal("Handle with unknown generation should be invalid")
	}
}
