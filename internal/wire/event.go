// Package wire defines the on-the-wire record transported by the ring: a
// fixed-size, bit-addressable TopOfBookEvent whose in-memory layout equals
// its in-slot layout. Producer and consumer must be ABI-compatible (same
// architecture, same layout_version); see internal/ring for the slot that
// carries this record.
package wire

import (
	"fmt"
	"unsafe"
)

// RecordSize is the fixed, padded size of TopOfBookEvent in bytes. It must
// stay well under one cache line so that RecordSize + the slot's sequence
// word still fits in SlotSize (see internal/ring.Layout).
const RecordSize = 56

// TopOfBookEvent is the best-bid/best-ask snapshot for one symbol at one
// instant. Do not reorder these fields without bumping the ring's
// layout_version.
//
// No floating point: prices and quantities are pre-scaled integers (ticks,
// lots) by the time a TopOfBookEvent is constructed. The mid price is
// carried implicitly as BidPx+AskPx (twice the mid) so consumers never
// divide.
type TopOfBookEvent struct {
	SymbolID     uint16 // dense per-symbol index
	Flags        uint16 // reserved; producers must zero
	BidPx        int64  // integer price ticks
	AskPx        int64  // integer price ticks, >= BidPx
	BidQty       int64  // integer lots, >= 0
	AskQty       int64  // integer lots, >= 0
	TsEventNs    uint64 // producer wall clock (time.Now().UnixNano()), stamped immediately before publish
	TsExchangeNs uint64 // upstream exchange timestamp, ns since epoch, or 0 if absent
}

func init() {
	if unsafe.Sizeof(TopOfBookEvent{}) != RecordSize {
		panic(fmt.Sprintf("wire: TopOfBookEvent size is %d, expected %d", unsafe.Sizeof(TopOfBookEvent{}), RecordSize))
	}
}

// MidX2 returns twice the mid price (BidPx+AskPx), avoiding division.
func (e TopOfBookEvent) MidX2() int64 {
	return e.BidPx + e.AskPx
}

// SpreadTicks returns AskPx-BidPx. A well-formed event has SpreadTicks >= 0.
func (e TopOfBookEvent) SpreadTicks() int64 {
	return e.AskPx - e.BidPx
}

// AsBytes views e as its RecordSize-byte wire representation. The returned
// slice aliases e; callers that need an independent copy must copy it out
// before e is reused.
func AsBytes(e *TopOfBookEvent) []byte {
	return (*[RecordSize]byte)(unsafe.Pointer(e))[:]
}

// FromBytes decodes a RecordSize-byte wire representation into dst. b must
// be at least RecordSize bytes; it panics otherwise, matching the
// construction-time (not hot-path) nature of malformed-length input.
func FromBytes(dst *TopOfBookEvent, b []byte) {
	_ = b[RecordSize-1]
	*dst = *(*TopOfBookEvent)(unsafe.Pointer(&b[0]))
}
