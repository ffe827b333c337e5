// Package hash collects pluggable hopscotch.HashFn implementations.
// The core never picks a hash function for itself (see the package
// doc on hopscotch.HashFn); these are ready-to-use collaborators
// covering a MurmurHash3 finalizer variant, Bob Jenkins' one-at-a-time
// hash, a constant hash for collision-cluster testing, and an XXHash
// wrapper for callers that already depend on cespare/xxhash.
//
// Every function here remaps a zero digest to 1: zero is the table's
// reserved "empty" sentinel, and a hash function must never produce
// it.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/concurrenthopscotch/hopscotch"
)

func nonZero(h uint32) uint32 {
	if h == 0 {
		return 1
	}
	return h
}

// Murmur is a 64-byte-key variant of MurmurHash3's finalizer, mixed
// over eight 8-byte chunks of the key.
func Murmur(key [hopscotch.KeySize]byte) uint32 {
	var k [8]uint64
	for i := range k {
		k[i] = binary.LittleEndian.Uint64(key[i*8 : i*8+8])
	}

	h := k[0] ^ 0x9E3779B185EBCA87
	h = (h ^ k[1]) * 0xC6BC279692B5CC83
	h = (h ^ k[2]) * 0x9E3779B97F4A7C15
	h = (h ^ k[3]) * 0xC6BC279692B5CC83
	h = (h ^ k[4]) * 0x9E3779B185EBCA87
	h = (h ^ k[5]) * 0xC6BC279692B5CC83
	h = (h ^ k[6]) * 0x9E3779B97F4A7C15
	h = (h ^ k[7]) * 0xC6BC279692B5CC83

	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33

	return nonZero(uint32(h ^ (h >> 32)))
}

// Jenkins implements Bob Jenkins' one-at-a-time hash over the full key.
func Jenkins(key [hopscotch.KeySize]byte) uint32 {
	var h uint32
	for _, b := range key {
		h += uint32(b)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15

	return nonZero(h)
}

// Constant always returns the same digest, regardless of key. It
// exists to drive collision-cluster tests where every key deliberately
// lands in the same neighborhood, and is not meant for production use.
func Constant(key [hopscotch.KeySize]byte) uint32 {
	return 1
}

// XXHash wraps github.com/cespare/xxhash/v2, folding its 64-bit digest
// down to 32 bits. It is the hasher to reach for when throughput
// matters more than bit-for-bit parity with the original C sources.
func XXHash(key [hopscotch.KeySize]byte) uint32 {
	sum := xxhash.Sum64(key[:])
	return nonZero(uint32(sum ^ (sum >> 32)))
}
