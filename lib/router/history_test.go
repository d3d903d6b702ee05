package router

import "testing"

func TestMemoryHistory(t *testing.T) {
	h := NewMemoryHistory()
	if _, ok := h.Current(); ok {
		t.Fatal("empty history has a current entry")
	}
	if _, ok := h.Back(); ok {
		t.Fatal("Back() on empty history succeeded")
	}

	h.Replace(Entry{Path: "/"})
	h.Push(Entry{Path: "/a"})
	h.Push(Entry{Path: "/b"})
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	if e, _ := h.Back(); e.Path != "/a" {
		t.Errorf("Back() = %q", e.Path)
	}
	if e, _ := h.Back(); e.Path != "/" {
		t.Errorf("Back() = %q", e.Path)
	}
	if _, ok := h.Back(); ok {
		t.Error("Back() past the first entry succeeded")
	}
	if e, _ := h.Forward(); e.Path != "/a" {
		t.Errorf("Forward() = %q", e.Path)
	}

	// pushing drops forward entries
	h.Push(Entry{Path: "/c"})
	if h.Len() != 3 {
		t.Errorf("Len() = %d after push, want 3", h.Len())
	}
	if _, ok := h.Forward(); ok {
		t.Error("Forward() after push succeeded")
	}

	h.Replace(Entry{Path: "/d"})
	if e, _ := h.Current(); e.Path != "/d" {
		t.Errorf("Current() = %q after Replace", e.Path)
	}
}
