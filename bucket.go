package hopscotch

import "sync/atomic"

const (
	// KeySize is the fixed width, in bytes, of every key.
	KeySize = 64
	// ValueSize is the fixed width, in bytes, of every value.
	ValueSize = 128
	// HopRange is H, the neighborhood width. It must fit the 32-bit
	// hop bitmap packed into the low half of a bucket's meta word.
	HopRange = 32
	// MaxRelocationFactor is F, the maximum displacement-search radius
	// expressed as a multiple of HopRange.
	MaxRelocationFactor = 5

	metaHopBits = 32
	hopMask     = uint64(1)<<metaHopBits - 1
)

// bucketPad rounds key+value+meta up to the next 64-byte cache-line
// multiple so adjacent buckets' meta words don't share a line.
const bucketPad = 64 - (KeySize+ValueSize+8)%64

// bucket is a single storage cell. meta carries both the occupant's
// hash (bits 63..32, zero means empty) and the hop bitmap (bits
// 31..0): bit i is set iff the entry currently living at index+i
// (mod capacity) has this bucket as its home.
//
// Only meta is a synchronization variable. key and value are plain
// byte arrays; their visibility to other goroutines is piggy-backed
// on release-stores to meta, never synchronized directly.
type bucket struct {
	key   [KeySize]byte
	value [ValueSize]byte
	meta  atomic.Uint64
	_     [bucketPad]byte
}

// packMeta combines a 32-bit hash and a 32-bit hop bitmap into one
// meta word.
func packMeta(hash uint32, hop uint32) uint64 {
	return uint64(hash)<<metaHopBits | uint64(hop)
}

// metaHash extracts the hash field from a loaded meta word.
func metaHash(m uint64) uint32 {
	return uint32(m >> metaHopBits)
}

// metaHop extracts the hop bitmap field from a loaded meta word.
func metaHop(m uint64) uint32 {
	return uint32(m & hopMask)
}

// isEmptyMeta reports whether a loaded meta word represents an empty
// bucket: the hash field is the reserved zero sentinel.
func isEmptyMeta(m uint64) bool {
	return metaHash(m) == 0
}
