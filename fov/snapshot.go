package fov

import "sync/atomic"

// Snapshot hands an immutable slice from one writer to any number of readers.
// Readers must not modify what Load returns.
type Snapshot[T any] struct {
	v   atomic.Pointer[[]T]
	gen atomic.Uint64
}

// Store publishes a private copy of items.
func (s *Snapshot[T]) Store(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	s.v.Store(&cp)
	s.gen.Add(1)
}

// Load returns the latest published slice, or nil before the first Store.
func (s *Snapshot[T]) Load() []T {
	p := s.v.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Generation counts Store calls; readers use it to skip unchanged snapshots.
func (s *Snapshot[T]) Generation() uint64 {
	return s.gen.Load()
}
