package router

import "sync"

// Entry is one history entry: the URL path shown and the encoded state.
type Entry struct {
	Path  string
	State string
}

// History is the session history the router keeps in sync.
type History interface {
	Current() (Entry, bool)
	Push(e Entry)
	Replace(e Entry)
}

// MemoryHistory is an in-process History with back and forward traversal.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []Entry
	index   int
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{index: -1}
}

func (h *MemoryHistory) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		return Entry{}, false
	}
	return h.entries[h.index], true
}

// Push drops any forward entries and appends e.
func (h *MemoryHistory) Push(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], e)
	h.index++
}

// Replace overwrites the current entry, or pushes into an empty history.
func (h *MemoryHistory) Replace(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		h.entries = append(h.entries[:0], e)
		h.index = 0
		return
	}
	h.entries[h.index] = e
}

// Back moves to the previous entry and returns it.
func (h *MemoryHistory) Back() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index <= 0 {
		return Entry{}, false
	}
	h.index--
	return h.entries[h.index], true
}

// Forward moves to the next entry and returns it.
func (h *MemoryHistory) Forward() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index+1 >= len(h.entries) {
		return Entry{}, false
	}
	h.index++
	return h.entries[h.index], true
}

// Len returns the number of entries, forward ones included.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
