// Package marketstate implements the fixed-slot per-symbol market state
// store: a dense array indexed directly by SymbolId, updated by a single
// consumer thread from the stream of ring records.
package marketstate

import (
	"time"

	"github.com/aditya-git16/lithos/internal/wire"
)

// State is one symbol's slot in the index. The zero value is the "never
// updated" state: UpdateCount == 0.
type State struct {
	LastTOB      wire.TopOfBookEvent
	MidX2        int64
	SpreadTicks  int64
	UpdateCount  uint64
	LastUpdateNs uint64
	LastSeq      uint64
}

// DropReason names why Apply declined to update a slot.
type DropReason int

const (
	// Applied: the record was accepted.
	Applied DropReason = iota
	// DropOutOfRange: symbol_id >= N.
	DropOutOfRange
	// DropStale: seq <= the slot's current LastSeq on a slot that has
	// already been updated at least once.
	DropStale
	// DropMalformed: the record's derived spread is negative.
	DropMalformed
)

// Index is the dense, fixed-capacity MarketStateIndex. It never resizes.
type Index struct {
	slots []State

	outOfRange uint64
	stale      uint64
	malformed  uint64
	applied    uint64
}

// NewIndex creates an empty index with capacity N (typical values are 256
// or 65536 symbols).
func NewIndex(capacity int) *Index {
	return &Index{slots: make([]State, capacity)}
}

// Capacity returns N, the fixed slot count.
func (idx *Index) Capacity() int { return len(idx.slots) }

// Apply runs the update protocol for one consumed record at ring sequence
// seq. It bumps the matching counter category itself (see Counters) and
// returns the outcome.
func (idx *Index) Apply(rec wire.TopOfBookEvent, seq uint64) DropReason {
	return idx.applyAt(rec, seq, uint64(time.Now().UnixNano()))
}

// applyAt is Apply with an explicit receipt timestamp, split out for
// deterministic tests.
func (idx *Index) applyAt(rec wire.TopOfBookEvent, seq uint64, nowNs uint64) DropReason {
	s := int(rec.SymbolID)
	if s < 0 || s >= len(idx.slots) {
		idx.outOfRange++
		return DropOutOfRange
	}

	slot := &idx.slots[s]
	if seq <= slot.LastSeq && slot.UpdateCount > 0 {
		idx.stale++
		return DropStale
	}

	spread := rec.SpreadTicks()
	if spread < 0 {
		idx.malformed++
		return DropMalformed
	}

	slot.LastTOB = rec
	slot.MidX2 = rec.MidX2()
	slot.SpreadTicks = spread
	slot.LastSeq = seq
	slot.UpdateCount++
	slot.LastUpdateNs = nowNs

	idx.applied++
	return Applied
}

// Get returns the current state for symbolID and whether it has ever been
// updated.
func (idx *Index) Get(symbolID uint16) (State, bool) {
	if int(symbolID) >= len(idx.slots) {
		return State{}, false
	}
	s := idx.slots[symbolID]
	return s, s.UpdateCount > 0
}

// ActiveEntry is one (symbol, state) pair yielded by IterActive.
type ActiveEntry struct {
	SymbolID uint16
	State    State
}

// IterActive returns every slot with UpdateCount > 0, ordered by symbol id.
// Intended for snapshots and diagnostics, not the hot path.
func (idx *Index) IterActive() []ActiveEntry {
	var out []ActiveEntry
	for i, s := range idx.slots {
		if s.UpdateCount > 0 {
			out = append(out, ActiveEntry{SymbolID: uint16(i), State: s})
		}
	}
	return out
}

// Counters is the cumulative per-category drop/accept summary.
type Counters struct {
	Applied    uint64
	OutOfRange uint64
	Stale      uint64
	Malformed  uint64
}

// Counters returns the cumulative per-category counts.
func (idx *Index) Counters() Counters {
	return Counters{
		Applied:    idx.applied,
		OutOfRange: idx.outOfRange,
		Stale:      idx.stale,
		Malformed:  idx.malformed,
	}
}
