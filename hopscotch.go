package hopscotch

import "math/bits"

// HashFn computes a 32-bit digest of a key. The core treats the hash
// function as an injected capability: it never caches or owns one,
// and a fresh HashFn value may be supplied on every call. Implementors
// must never return zero; zero is the table's reserved "empty"
// sentinel. See the hash subpackage for ready-to-use implementations
// that already remap a zero digest to one.
type HashFn func(key [KeySize]byte) uint32

// InsertResult is the outcome of an Insert call.
type InsertResult int

const (
	// InsertOk means the key was new and was placed in the table.
	InsertOk InsertResult = iota
	// InsertUpdated means the key already existed; its value was
	// overwritten in place.
	InsertUpdated
	// InsertFull means the neighborhood invariant could not be
	// restored within HopRange*MaxRelocationFactor probes. The table
	// is not necessarily 100% occupied; Hopscotch trades some
	// utilization for bounded probing. Callers should use a larger
	// table; Insert never retries internally.
	InsertFull
)

func (r InsertResult) String() string {
	switch r {
	case InsertOk:
		return "Ok"
	case InsertUpdated:
		return "Updated"
	case InsertFull:
		return "Full"
	default:
		return "InsertResult(?)"
	}
}

// LookupResult is the outcome of a Lookup call.
type LookupResult int

const (
	// LookupFound means the key was present.
	LookupFound LookupResult = iota
	// LookupMissing means the key was not present.
	LookupMissing
)

func (r LookupResult) String() string {
	if r == LookupFound {
		return "Found"
	}
	return "Missing"
}

// RemoveResult is the outcome of a Remove call.
type RemoveResult int

const (
	// RemoveRemoved means the key was present and was removed.
	RemoveRemoved RemoveResult = iota
	// RemoveMissing means the key was not present.
	RemoveMissing
)

func (r RemoveResult) String() string {
	if r == RemoveRemoved {
		return "Removed"
	}
	return "Missing"
}

// searchWindow is HopRange*MaxRelocationFactor, the bound within which
// Lookup, Remove, and Insert's duplicate check and displacement search
// must all complete.
const searchWindow = HopRange * MaxRelocationFactor

// distance returns (b-a) mod capacity.
func (t *Table) distance(a, b uint64) uint64 {
	return (b - a) & t.mask
}

// setHopBit CAS-loops bit into home's hop bitmap, leaving home's own
// hash field untouched. A bucket's bitmap is administrative: it
// describes occupants elsewhere in its neighborhood and is updated
// separately from whatever key, if any, lives in the bucket itself.
func (t *Table) setHopBit(home, bit uint64) {
	for {
		old := t.cells[home].meta.Load()
		newMeta := packMeta(metaHash(old), metaHop(old)|(1<<bit))
		if t.cells[home].meta.CompareAndSwap(old, newMeta) {
			return
		}
	}
}

// clearHopBit CAS-loops clearing bit from home's hop bitmap.
func (t *Table) clearHopBit(home, bit uint64) {
	for {
		old := t.cells[home].meta.Load()
		newMeta := packMeta(metaHash(old), metaHop(old)&^(1<<bit))
		if t.cells[home].meta.CompareAndSwap(old, newMeta) {
			return
		}
	}
}

// Insert places key/value into the table. If key already exists, its
// value is overwritten in place and InsertUpdated is returned; the
// overwrite is not atomic per byte (see the bucket type's doc), so callers
// that need an atomic replace must Remove then Insert instead.
//
// If key is new, Insert first looks for an empty cell in the home
// neighborhood (HopRange cells), then, failing that, searches up to
// HopRange*MaxRelocationFactor cells forward for an empty cell and
// hop-shuffles it back into the neighborhood. InsertFull is returned
// if the neighborhood invariant cannot be restored; Insert never
// retries a Full result internally.
func (t *Table) Insert(hash HashFn, key [KeySize]byte, value [ValueSize]byte) InsertResult {
	h32 := hash(key)
	home := uint64(h32) & t.mask

	// Step A: duplicate check. Scans the full search window (not just
	// the home neighborhood) so an insert whose prior copy sits in the
	// displacement tail is still recognized as a duplicate, matching
	// Lookup's window.
	for i := uint64(0); i < searchWindow; i++ {
		idx := t.idx(home, i)
		m := t.cells[idx].meta.Load()
		if metaHash(m) == h32 && t.cells[idx].key == key {
			t.cells[idx].value = value
			// Redundant release-store: closes the publication window
			// for the meta word even though the value bytes themselves
			// remain unsynchronized (in-place updates are best-effort;
			// strict atomicity requires Remove then Insert).
			t.cells[idx].meta.Store(m)
			return InsertUpdated
		}
	}

	// Step B: fast slot in the home neighborhood. A claimed cell's own
	// meta carries the new occupant's hash; the hop bit describing the
	// occupant's offset from home is a property of home's bucket, not
	// of the claimed cell (the two coincide only when idx == home).
	for i := uint64(0); i < HopRange; i++ {
		idx := t.idx(home, i)
		old := t.cells[idx].meta.Load()
		if !isEmptyMeta(old) {
			continue
		}
		desired := packMeta(h32, metaHop(old))
		if idx == home {
			desired = packMeta(h32, metaHop(old)|(1<<i))
		}
		if !t.cells[idx].meta.CompareAndSwap(old, desired) {
			continue
		}
		t.cells[idx].key = key
		t.cells[idx].value = value
		// Redundant release-store: the CAS above already published
		// desired, but that happened before key/value were written. A
		// concurrent Lookup acquire-loading meta and seeing h32 must
		// also see these byte writes, so meta is stored again after them
		// to close the publication window.
		t.cells[idx].meta.Store(desired)
		if idx != home {
			t.setHopBit(home, i)
		}
		t.size.Add(1)
		return InsertOk
	}

	// Step C: bounded displacement search for the first empty cell.
	f, found := t.findEmpty(home)
	if !found {
		return InsertFull
	}

	// Step D: hop-shuffle f backward until it falls within H of home.
	// Each successful shuffle strictly decreases f's distance from home,
	// so the loop is capped at searchWindow iterations as a backstop
	// against a donor bucket misbehaving under a transient concurrent
	// configuration (see findDonorBucket).
	for attempt := 0; t.distance(home, f) >= HopRange; attempt++ {
		if attempt >= searchWindow {
			return InsertFull
		}
		next, ok := t.hopShuffle(f)
		if !ok {
			return InsertFull
		}
		f = next
	}

	old := t.cells[f].meta.Load()
	t.cells[f].key = key
	t.cells[f].value = value
	t.cells[f].meta.Store(packMeta(h32, metaHop(old)))
	t.setHopBit(home, t.distance(home, f))
	t.size.Add(1)
	return InsertOk
}

// findEmpty scans forward from home over the full search window for
// the first empty cell.
func (t *Table) findEmpty(home uint64) (uint64, bool) {
	for i := uint64(0); i < searchWindow; i++ {
		idx := t.idx(home, i)
		if isEmptyMeta(t.cells[idx].meta.Load()) {
			return idx, true
		}
	}
	return 0, false
}

// hopShuffleMaxAttempts bounds the CAS-retry loop that resolves races
// against concurrent displacers picking the same donor. It is a
// generous multiple of HopRange, not a correctness requirement: losing
// every one of this many races to concurrent writers is not expected
// in practice.
const hopShuffleMaxAttempts = HopRange * 8

// hopShuffle moves an entry administered by some bucket c in the
// window [f-H+1, f] forward into the empty cell f, which still lies
// within c's neighborhood, freeing the entry's old slot closer to
// home. It returns the freed index.
//
// Ownership of the donor is decided by CAS-updating c's bitmap (clear
// the donor's old bit, set its new one) before the donor's bytes are
// copied to f: that CAS is the linearization point, so two displacers
// racing for the same donor cannot both move it. Claiming the bitmap
// before copying bytes, rather than copying first and claiming after,
// is what rules out two displacers both relocating the same donor;
// see DESIGN.md.
func (t *Table) hopShuffle(f uint64) (uint64, bool) {
	c0 := (f - (HopRange - 1)) & t.mask

	for attempt := 0; attempt < hopShuffleMaxAttempts; attempt++ {
		c, j, ok := t.findDonorBucket(c0, f)
		if !ok {
			return 0, false
		}

		donor := t.idx(c, uint64(j))
		newBit := t.distance(c, f)
		if newBit >= HopRange || uint64(j) >= newBit {
			// findDonorBucket only returns donors strictly closer to c
			// than f is; this is a defensive re-check against a donor
			// whose bitmap changed between the scan and here.
			continue
		}

		old := t.cells[c].meta.Load()
		if metaHop(old)&(1<<j) == 0 {
			// Another displacer already claimed this donor. Restart
			// the shuffle for the current f.
			continue
		}
		newHop := (metaHop(old) &^ (1 << j)) | (1 << newBit)
		newMeta := packMeta(metaHash(old), newHop)
		if !t.cells[c].meta.CompareAndSwap(old, newMeta) {
			// Candidate bitmap changed between scan and CAS. Retry on
			// ABA by restarting the shuffle for the current f.
			continue
		}

		donorHash := metaHash(t.cells[donor].meta.Load())
		if donorHash == 0 {
			// Raced with a remove of the donor between the scan and
			// the claim above. The bitmap update already committed;
			// there is no clean way to undo it, so this f is abandoned.
			return 0, false
		}

		// Publish the move at f before vacating donor, so a concurrent
		// lookup always finds the entry at one or both locations,
		// never neither.
		t.cells[f].key = t.cells[donor].key
		t.cells[f].value = t.cells[donor].value
		fOld := t.cells[f].meta.Load()
		t.cells[f].meta.Store(packMeta(donorHash, metaHop(fOld)))

		// Vacate donor's occupancy, preserving any administrative
		// bitmap it independently hosts (already updated above when
		// donor == c).
		for {
			dOld := t.cells[donor].meta.Load()
			dNew := packMeta(0, metaHop(dOld))
			if t.cells[donor].meta.CompareAndSwap(dOld, dNew) {
				break
			}
		}
		t.cells[donor].key = [KeySize]byte{}
		t.cells[donor].value = [ValueSize]byte{}

		return donor, true
	}
	return 0, false
}

// findDonorBucket scans the H-cell window starting at c0 for a bucket
// c whose hop bitmap has a set bit strictly closer to c than f is,
// returning c's index and that bit position. A bit at or beyond f's
// own distance from c marks an entry at or past f, whose move would
// free a slot no closer to home than f already is, so those bits are
// excluded: this is what keeps every
// hop-shuffle step strictly reducing f's distance from home instead of
// occasionally pushing it farther away.
func (t *Table) findDonorBucket(c0, f uint64) (uint64, uint32, bool) {
	for off := uint64(0); off < HopRange; off++ {
		cc := (c0 + off) & t.mask
		newBit := t.distance(cc, f)
		if newBit >= HopRange || newBit == 0 {
			continue
		}
		hop := metaHop(t.cells[cc].meta.Load())
		eligible := hop & (uint32(1)<<newBit - 1)
		if eligible != 0 {
			return cc, uint32(bits.TrailingZeros32(eligible)), true
		}
	}
	return 0, 0, false
}

// Lookup returns the value stored for key, if any. It scans the full
// HopRange*MaxRelocationFactor window rather than just the home
// neighborhood, so it does not race a concurrent displacement into a
// false negative: an entry mid-relocation may transiently be visible
// beyond its home window, and the wider scan still finds it.
func (t *Table) Lookup(hash HashFn, key [KeySize]byte) ([ValueSize]byte, LookupResult) {
	h32 := hash(key)
	home := uint64(h32) & t.mask

	for i := uint64(0); i < searchWindow; i++ {
		idx := t.idx(home, i)
		m := t.cells[idx].meta.Load()
		if metaHash(m) == h32 && t.cells[idx].key == key {
			return t.cells[idx].value, LookupFound
		}
	}
	var zero [ValueSize]byte
	return zero, LookupMissing
}

// Remove deletes key from the table, if present.
func (t *Table) Remove(hash HashFn, key [KeySize]byte) RemoveResult {
	h32 := hash(key)
	home := uint64(h32) & t.mask

	for i := uint64(0); i < searchWindow; i++ {
		idx := t.idx(home, i)
		m := t.cells[idx].meta.Load()
		if metaHash(m) != h32 || t.cells[idx].key != key {
			continue
		}

		// Clear the home bucket's hop bit for this entry. Every
		// occupant, including one mid-displacement, sits within
		// HopRange of its home, so the first match is found at
		// i < HopRange and i mod HopRange is simply its distance
		// from home.
		t.clearHopBit(home, i%HopRange)

		// Vacate idx, preserving any administrative bitmap it
		// independently hosts as some other key's home.
		for {
			cur := t.cells[idx].meta.Load()
			newMeta := packMeta(0, metaHop(cur))
			if t.cells[idx].meta.CompareAndSwap(cur, newMeta) {
				break
			}
		}
		t.cells[idx].key = [KeySize]byte{}
		t.cells[idx].value = [ValueSize]byte{}
		t.size.Add(^uint64(0)) // relaxed decrement (add -1)
		return RemoveRemoved
	}
	return RemoveMissing
}
