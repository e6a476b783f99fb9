package marketstate

import (
	"testing"

	"github.com/aditya-git16/lithos/internal/wire"
)

func tob(symbolID uint16, bid, ask int64) wire.TopOfBookEvent {
	return wire.TopOfBookEvent{SymbolID: symbolID, BidPx: bid, AskPx: ask, BidQty: 1, AskQty: 1}
}

func TestApplySingleRecord(t *testing.T) {
	idx := NewIndex(16)
	reason := idx.applyAt(tob(3, 100, 106), 0, 1000)
	if reason != Applied {
		t.Fatalf("applyAt reason = %v, want Applied", reason)
	}

	st, ok := idx.Get(3)
	if !ok {
		t.Fatal("Get(3) ok = false, want true")
	}
	if st.MidX2 != 206 || st.SpreadTicks != 6 || st.UpdateCount != 1 || st.LastSeq != 0 {
		t.Fatalf("state = %+v, unexpected", st)
	}
}

func TestApplyOrderingAcrossSymbols(t *testing.T) {
	idx := NewIndex(16)
	idx.applyAt(tob(1, 100, 102), 0, 1)
	idx.applyAt(tob(2, 200, 204), 0, 2)
	idx.applyAt(tob(1, 101, 103), 1, 3)

	s1, _ := idx.Get(1)
	s2, _ := idx.Get(2)
	if s1.UpdateCount != 2 || s1.LastSeq != 1 {
		t.Fatalf("symbol 1 state = %+v", s1)
	}
	if s2.UpdateCount != 1 || s2.LastSeq != 0 {
		t.Fatalf("symbol 2 state = %+v", s2)
	}
}

func TestApplyDuplicateSuppression(t *testing.T) {
	idx := NewIndex(16)
	idx.applyAt(tob(5, 100, 104), 10, 1)
	reason := idx.applyAt(tob(5, 100, 104), 10, 2)
	if reason != DropStale {
		t.Fatalf("reason = %v, want DropStale", reason)
	}
	reason = idx.applyAt(tob(5, 100, 104), 9, 3)
	if reason != DropStale {
		t.Fatalf("reason = %v, want DropStale for an out-of-order seq", reason)
	}
	if idx.Counters().Stale != 2 {
		t.Fatalf("Stale = %d, want 2", idx.Counters().Stale)
	}
}

func TestApplyMalformedCrossedBook(t *testing.T) {
	idx := NewIndex(16)
	reason := idx.applyAt(tob(2, 110, 100), 0, 1)
	if reason != DropMalformed {
		t.Fatalf("reason = %v, want DropMalformed", reason)
	}
	if _, ok := idx.Get(2); ok {
		t.Fatal("Get(2) ok = true after a malformed record, want false")
	}
	if idx.Counters().Malformed != 1 {
		t.Fatalf("Malformed = %d, want 1", idx.Counters().Malformed)
	}
}

func TestApplyOutOfRangeSymbol(t *testing.T) {
	idx := NewIndex(4)
	reason := idx.applyAt(tob(10, 100, 102), 0, 1)
	if reason != DropOutOfRange {
		t.Fatalf("reason = %v, want DropOutOfRange", reason)
	}
	if idx.Counters().OutOfRange != 1 {
		t.Fatalf("OutOfRange = %d, want 1", idx.Counters().OutOfRange)
	}
}

func TestIterActiveOrderedBySymbolID(t *testing.T) {
	idx := NewIndex(8)
	idx.applyAt(tob(5, 100, 102), 0, 1)
	idx.applyAt(tob(1, 200, 202), 0, 2)
	idx.applyAt(tob(3, 300, 302), 0, 3)

	active := idx.IterActive()
	if len(active) != 3 {
		t.Fatalf("len(IterActive()) = %d, want 3", len(active))
	}
	for i := 1; i < len(active); i++ {
		if active[i-1].SymbolID >= active[i].SymbolID {
			t.Fatalf("IterActive() not ordered by symbol id: %+v", active)
		}
	}
}

func TestRestartReplaysFromZeroIsNotStale(t *testing.T) {
	idx := NewIndex(4)
	reason := idx.applyAt(tob(0, 100, 102), 0, 1)
	if reason != Applied {
		t.Fatalf("first apply at seq 0 on a fresh index should be Applied, got %v", reason)
	}
}
