package routestore

import "sync/atomic"

// Handle is the process-wide access point to the current store. The
// reload path is the single writer; request-handling goroutines read
// without locks and observe either the fully-old or fully-new store,
// never a partially populated one.
type Handle struct {
	ptr atomic.Pointer[Store]
}

// NewHandle creates a handle over an initial store.
func NewHandle(s *Store) *Handle {
	h := &Handle{}
	h.ptr.Store(s)
	return h
}

// Load returns the current store.
func (h *Handle) Load() *Store {
	return h.ptr.Load()
}

// Swap installs a new store and returns the previous one.
func (h *Handle) Swap(next *Store) *Store {
	return h.ptr.Swap(next)
}
