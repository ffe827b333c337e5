package hopscotch

import (
	"fmt"
	"io"
)

// Dump writes a human-readable rendering of every occupied bucket to
// w: index, home, hash, hop bitmap, and the first few key/value bytes.
// It is a diagnostic routine only, never called from the insert,
// lookup, or remove paths. dumpMu serializes concurrent Dump calls
// against each other; it is not used anywhere else, so it never
// contends with the hot path.
func (t *Table) Dump(w io.Writer) {
	t.dumpMu.Lock()
	defer t.dumpMu.Unlock()

	fmt.Fprintf(w, "Hopscotch Table (capacity=%d, size=%d)\n", t.capacity(), t.Len())
	fmt.Fprintf(w, "IDX    HOME   HASH       HOP       KEY       VALUE\n")
	for i := range t.cells {
		m := t.cells[i].meta.Load()
		h := metaHash(m)
		if h == 0 {
			continue
		}
		home := uint64(h) & t.mask
		fmt.Fprintf(w, "[%05d] %05d  %08x  %08x  %02x%02x..  %02x%02x..\n",
			i, home, h, metaHop(m),
			t.cells[i].key[0], t.cells[i].key[1],
			t.cells[i].value[0], t.cells[i].value[1],
		)
	}
}
