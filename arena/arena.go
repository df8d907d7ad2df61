// Package arena provides the region-allocation bookkeeping described in
// spec.md §3. Go is garbage collected, so Arena does not manage raw bytes;
// it centralizes the "every AST node shares one parse-run lifetime"
// invariant (useful for debug-build accounting) and adopts host objects
// whose release must happen at parse teardown.
package arena

import (
	"io"
	"sync"
)

// Arena is a single-shot region: everything allocated through it is
// released together when Release is called. An Arena is not safe for
// concurrent use by design (spec.md §5: "the arena ... [is] owned
// exclusively by one parser state").
type Arena struct {
	mu       sync.Mutex
	live     int
	adopted  []io.Closer
	released bool
}

// New creates an empty Arena.
func New() *Arena {
	return &Arena{}
}

// Alloc allocates a zero-valued T whose lifetime is logically tied to a.
// Go's allocator and GC do the real memory management; Alloc exists so
// every AST/pair-struct constructor in this module goes through one
// choke point, matching spec.md's "all AST nodes ... live in the arena"
// invariant and giving debug builds an allocation counter.
func Alloc[T any](a *Arena) *T {
	v := new(T)
	a.mu.Lock()
	a.live++
	a.mu.Unlock()
	return v
}

// AllocSlice allocates a slice of length n whose backing array is owned
// by a, for arena-resident sequences (spec.md §4.4's Singleton/Prepend/
// Append/Join/Flatten family all bottom out here).
func AllocSlice[T any](a *Arena, n int) []T {
	s := make([]T, n)
	a.mu.Lock()
	a.live++
	a.mu.Unlock()
	return s
}

// Adopt takes shared ownership of a host heap object (e.g. an interned
// string handle that wraps a finalizer, or a nested tokenizer) so its
// Close is invoked when the arena is released. Matches the "adopt"
// contract in spec.md §6.
func (a *Arena) Adopt(obj io.Closer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		obj.Close()
		return
	}
	a.adopted = append(a.adopted, obj)
}

// LiveAllocations reports the number of Alloc/AllocSlice calls since
// creation (or since the last Release), for debug-build instrumentation.
func (a *Arena) LiveAllocations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Release tears the arena down: adopted host objects are closed in
// reverse-adoption order and the allocation counter resets. No AST node
// built through this arena may be used after Release (spec.md §3:
// "no AST object outlives the arena").
func (a *Arena) Release() {
	a.mu.Lock()
	adopted := a.adopted
	a.adopted = nil
	a.live = 0
	a.released = true
	a.mu.Unlock()

	for i := len(adopted) - 1; i >= 0; i-- {
		adopted[i].Close()
	}
}
