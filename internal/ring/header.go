package ring

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// Header offsets within the mapped region's first HeaderSize bytes.
// Bytes beyond offWriteCursor+8 are reserved padding.
const (
	offCapacity      = 0
	offRecordSize    = 8
	offLayoutVersion = 12
	offWriteCursor   = 16
)

// Header is a thin view over the first HeaderSize bytes of a mapped
// region. It does not own the memory; the region outlives it.
type Header struct {
	buf []byte
}

// newHeader wraps buf[0:HeaderSize] as a Header view.
func newHeader(buf []byte) Header {
	return Header{buf: buf[:HeaderSize:HeaderSize]}
}

// initHeader stamps a freshly-created region's header with the given
// layout. Only called by the writer on first creation of the file.
func initHeader(buf []byte, l Layout) {
	h := newHeader(buf)
	binary.LittleEndian.PutUint64(h.buf[offCapacity:], l.Capacity)
	binary.LittleEndian.PutUint32(h.buf[offRecordSize:], uint32(RecordSize))
	binary.LittleEndian.PutUint32(h.buf[offLayoutVersion:], l.LayoutVersion)
	atomic.StoreUint64(h.writeCursorPtr(), 0)
}

// Capacity returns the constant ring slot count.
func (h Header) Capacity() uint64 {
	return binary.LittleEndian.Uint64(h.buf[offCapacity:])
}

// RecordSize returns the constant payload size stamped at creation.
func (h Header) RecordSize() uint32 {
	return binary.LittleEndian.Uint32(h.buf[offRecordSize:])
}

// LayoutVersion returns the constant layout version stamped at creation.
func (h Header) LayoutVersion() uint32 {
	return binary.LittleEndian.Uint32(h.buf[offLayoutVersion:])
}

func (h Header) writeCursorPtr() *uint64 {
	return (*uint64)(unsafe.Pointer(&h.buf[offWriteCursor]))
}

// WriteCursor loads write_cursor with acquire semantics.
func (h Header) WriteCursor() uint64 {
	return atomic.LoadUint64(h.writeCursorPtr())
}

// setWriteCursor stores write_cursor with release semantics. Only the
// Writer calls this; it is the sole mutator of the cursor.
func (h Header) setWriteCursor(v uint64) {
	atomic.StoreUint64(h.writeCursorPtr(), v)
}
