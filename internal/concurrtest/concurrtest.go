// Package concurrtest collects helpers shared by the concurrent test
// suites for the hopscotch table: disjoint key-range partitioning
// across workers and deterministic key/value generation.
package concurrtest

import (
	"encoding/binary"

	"github.com/concurrenthopscotch/hopscotch"
)

// Range is a half-open index range [Start, End) assigned to one
// worker.
type Range struct {
	Start, End int
}

// Len reports the number of indices in the range.
func (r Range) Len() int { return r.End - r.Start }

// Partition splits the index range [0, n) into workers disjoint
// ranges whose sizes differ by at most one, distributing the
// remainder across the first ranges exactly like the original
// hashtable's thread_insert_worker partitioning.
func Partition(n, workers int) []Range {
	if workers <= 0 {
		return nil
	}
	base := n / workers
	rem := n % workers
	ranges := make([]Range, workers)
	start := 0
	for i := 0; i < workers; i++ {
		count := base
		if i < rem {
			count++
		}
		ranges[i] = Range{Start: start, End: start + count}
		start += count
	}
	return ranges
}

// KeyFromIndex deterministically derives a KEY_SIZE key from an
// integer index, used so concurrent workers can generate disjoint
// keys without a shared random source.
func KeyFromIndex(i int) [hopscotch.KeySize]byte {
	var key [hopscotch.KeySize]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(i)+1) // +1: never all-zero
	return key
}

// ValueFromIndex deterministically derives a VALUE_SIZE value from an
// integer index, distinct from KeyFromIndex's output so a test can
// tell key bytes and value bytes apart when debugging a failure.
func ValueFromIndex(i int) [hopscotch.ValueSize]byte {
	var value [hopscotch.ValueSize]byte
	binary.LittleEndian.PutUint64(value[:8], uint64(i)+1)
	value[8] = 0xAA
	return value
}
