package hopscotch

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Table is the bucket array: a contiguous, power-of-two-sized slice
// of buckets plus a cached index mask and an atomic size counter. A
// Table is created with a fixed capacity; it never grows or rehashes.
//
// A Table has a single owner responsible for its lifetime. The owner
// must ensure no operation is in flight once the last reference is
// dropped; Go's garbage collector reclaims the backing slice, there is
// no explicit Destroy.
type Table struct {
	cells []bucket
	mask  uint64
	size  atomic.Uint64

	// dumpMu guards only Dump; it is never touched on the insert,
	// lookup, or remove paths.
	dumpMu sync.Mutex
}

// NewTable allocates a ready to use Table with the given capacity.
// capacity must be a non-zero power of two and at least HopRange,
// otherwise ErrInvalidCapacity is returned.
func NewTable(capacity uint64) (*Table, error) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%d: %w", capacity, ErrInvalidCapacity)
	}
	if capacity < HopRange {
		return nil, fmt.Errorf("%d: %w", capacity, ErrInvalidCapacity)
	}

	return &Table{
		cells: make([]bucket, capacity),
		mask:  capacity - 1,
	}, nil
}

// Zero resets every cell and the size counter to zero. It is intended
// only for use when no concurrent access to the table is possible.
func (t *Table) Zero() {
	for i := range t.cells {
		t.cells[i].meta.Store(0)
		t.cells[i].key = [KeySize]byte{}
		t.cells[i].value = [ValueSize]byte{}
	}
	t.size.Store(0)
}

// Len returns the approximate number of occupied cells. Under
// concurrent mutation this is a relaxed statistic, not a membership
// oracle; in quiescence it is exact.
func (t *Table) Len() uint64 {
	return t.size.Load()
}

// capacity returns the number of cells backing the table.
func (t *Table) capacity() uint64 {
	return uint64(len(t.cells))
}

// idx returns (home+i) mod capacity.
func (t *Table) idx(home, i uint64) uint64 {
	return (home + i) & t.mask
}
