package solver

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/csnizik/gapbeater/move"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

// rough per-entry footprint: key, entry struct, map overhead.
const entrySize = 96

// minEntries keeps the table useful even on absurdly small memory
// fractions.
const minEntries = 1 << 16

// TableEntry is one cached search outcome, keyed externally by the
// board's full-state digest.
type TableEntry struct {
	score   float64
	depth   uint8
	flag    uint8
	play    move.Move
	hasPlay bool
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

// TranspositionTable maps board digests to previously computed search
// outcomes. Stores overwrite unconditionally; there is no
// depth-preferred replacement policy. The entry cap is derived from a
// fraction of system memory, and filling the table clears it wholesale.
//
// The table is owned by exactly one Solver and is not safe for
// concurrent use.
type TranspositionTable struct {
	table      map[uint64]TableEntry
	maxEntries int

	lookups uint64
	hits    uint64
	created uint64
}

func newTranspositionTable(fractionOfMemory float64) *TranspositionTable {
	t := &TranspositionTable{}
	maxEntries := int(fractionOfMemory * float64(memory.TotalMemory()) / entrySize)
	if maxEntries < minEntries {
		maxEntries = minEntries
	}
	t.maxEntries = maxEntries
	t.table = make(map[uint64]TableEntry)
	log.Debug().Int("max-entries", maxEntries).
		Uint64("total-system-memory-bytes", memory.TotalMemory()).
		Msg("transposition-table-size")
	return t
}

func (t *TranspositionTable) lookup(key uint64) TableEntry {
	t.lookups++
	entry, ok := t.table[key]
	if !ok {
		return TableEntry{}
	}
	t.hits++
	return entry
}

func (t *TranspositionTable) store(key uint64, entry TableEntry) {
	if _, exists := t.table[key]; !exists && len(t.table) >= t.maxEntries {
		// Wholesale clear when full; still no per-entry replacement
		// preference.
		log.Debug().Int("entries", len(t.table)).Msg("transposition-table-full-clearing")
		clear(t.table)
	}
	t.table[key] = entry
	t.created++
}

func (t *TranspositionTable) reset() {
	clear(t.table)
	t.lookups = 0
	t.hits = 0
	t.created = 0
}

// Size returns the number of live entries.
func (t *TranspositionTable) Size() int {
	return len(t.table)
}
