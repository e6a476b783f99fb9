package ring

import (
	"sync/atomic"
	"unsafe"

	"github.com/aditya-git16/lithos/internal/wire"
)

// slotView is a thin accessor over one SlotSize-byte slot: an atomic
// sequence word followed by the fixed record bytes and trailing padding.
type slotView struct {
	buf []byte // exactly SlotSize bytes
}

func slotAt(region []byte, l Layout, i uint64) slotView {
	off := l.SlotOffset(i)
	return slotView{buf: region[off : off+int64(SlotSize) : off+int64(SlotSize)]}
}

func (s slotView) seqPtr() *uint64 {
	return (*uint64)(unsafe.Pointer(&s.buf[0]))
}

// loadSeq loads the slot's sequence word with acquire semantics.
func (s slotView) loadSeq() uint64 {
	return atomic.LoadUint64(s.seqPtr())
}

// storeSeq stores the slot's sequence word with release semantics.
func (s slotView) storeSeq(v uint64) {
	atomic.StoreUint64(s.seqPtr(), v)
}

// recordBytes views the record portion of the slot (plain, non-atomic
// access; callers must bracket use with seqlock validation).
func (s slotView) recordBytes() []byte {
	return s.buf[seqWordSize : seqWordSize+RecordSize]
}

// writeRecord copies e into the slot's record bytes with plain stores; the
// odd sequence word already excludes readers, so no atomics are needed here.
func (s slotView) writeRecord(e *wire.TopOfBookEvent) {
	copy(s.recordBytes(), wire.AsBytes(e))
}

// readRecord copies the slot's record bytes into dst with plain loads; the
// caller is responsible for bracketing this with seqlock validation.
func (s slotView) readRecord(dst *wire.TopOfBookEvent) {
	wire.FromBytes(dst, s.recordBytes())
}
