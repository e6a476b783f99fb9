package ring

import (
	"os"

	"github.com/aditya-git16/lithos/internal/shmregion"
	"github.com/aditya-git16/lithos/internal/wire"
)

// StartPolicy selects where a freshly-opened Reader's private cursor
// begins.
type StartPolicy int

const (
	// StartNewOnly begins at the current write_cursor: the reader only
	// observes records published after it opened.
	StartNewOnly StartPolicy = iota
	// StartFromRetained begins at max(0, write_cursor-capacity): the reader
	// replays as much retained history as the ring still holds.
	StartFromRetained
)

// overrunMargin is the constant added when recovering from a lap so the
// reader does not immediately re-lap mid-catchup.
const overrunMargin = 1

// Status is the outcome of a TryRead call.
type Status int

const (
	StatusEmpty Status = iota
	StatusReady
	StatusOverrun
)

// ReadResult is the value TryRead returns: exactly one of Empty, a Ready
// record, or an Overrun with the number of records lost.
type ReadResult struct {
	Status Status
	Record wire.TopOfBookEvent
	Lost   uint64
}

// Reader is one of N independent consumers of a ring. Its cursor (next) is
// thread-private; Readers never mutate shared state.
type Reader struct {
	region       *shmregion.Region
	layout       Layout
	header       Header
	next         uint64
	overrunCount uint64
}

// OpenReader maps an existing ring file at path. expectedLayoutVersion, if
// nonzero, is validated against the file's stamped layout_version
// (*ErrLayoutMismatch on mismatch). The reader's initial cursor is chosen
// by policy.
func OpenReader(path string, expectedLayoutVersion uint32, policy StartPolicy) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ErrPathUnavailable{Path: path, Err: err}
	}

	// Map just enough to read the header first, then remap at full size
	// once we know the stamped capacity.
	probe, err := shmregion.Open(path, HeaderSize)
	if err != nil {
		return nil, &ErrPathUnavailable{Path: path, Err: err}
	}
	h := newHeader(probe.Bytes())
	capacity := h.Capacity()
	recordSize := h.RecordSize()
	layoutVersion := h.LayoutVersion()
	probe.Close()

	if recordSize != uint32(RecordSize) {
		return nil, &ErrLayoutMismatch{Field: "record_size", Got: uint64(recordSize), Expected: uint64(RecordSize)}
	}
	if expectedLayoutVersion != 0 && layoutVersion != expectedLayoutVersion {
		return nil, &ErrLayoutMismatch{Field: "layout_version", Got: uint64(layoutVersion), Expected: uint64(expectedLayoutVersion)}
	}

	layout, err := NewLayout(capacity, layoutVersion)
	if err != nil {
		return nil, &ErrLayoutMismatch{Field: "capacity", Got: capacity, Expected: 0}
	}
	size := shmregion.RoundUpToPage(int(layout.TotalSize()))
	if int64(size) > info.Size() {
		return nil, &ErrLayoutMismatch{Field: "file_size", Got: uint64(info.Size()), Expected: uint64(size)}
	}

	region, err := shmregion.Open(path, size)
	if err != nil {
		return nil, &ErrPathUnavailable{Path: path, Err: err}
	}
	header := newHeader(region.Bytes())

	r := &Reader{region: region, layout: layout, header: header}
	w := header.WriteCursor()
	switch policy {
	case StartFromRetained:
		if w > layout.Capacity {
			r.next = w - layout.Capacity
		}
	default:
		r.next = w
	}
	return r, nil
}

// TryRead implements a wait-free try-read with overrun detection. It never
// blocks.
func (r *Reader) TryRead() ReadResult {
	w := r.header.WriteCursor()
	if w <= r.next {
		return ReadResult{Status: StatusEmpty}
	}

	if w-r.next > r.layout.Capacity {
		lost := w - r.next
		r.next = w - r.layout.Capacity + overrunMargin
		r.overrunCount += lost
		return ReadResult{Status: StatusOverrun, Lost: lost}
	}

	target := r.next
	slot := slotAt(r.region.Bytes(), r.layout, target)

	seq1 := slot.loadSeq()
	if seq1 != 2*target+2 {
		return ReadResult{Status: StatusEmpty}
	}

	var rec wire.TopOfBookEvent
	slot.readRecord(&rec)

	seq2 := slot.loadSeq()
	if seq2 != seq1 {
		r.next = r.header.WriteCursor() - r.layout.Capacity + overrunMargin
		r.overrunCount++
		return ReadResult{Status: StatusOverrun, Lost: 1}
	}

	r.next++
	return ReadResult{Status: StatusReady, Record: rec}
}

// Position returns the reader's current next (diagnostics only).
func (r *Reader) Position() uint64 { return r.next }

// OverrunCount returns the cumulative count of records lost to overrun.
func (r *Reader) OverrunCount() uint64 { return r.overrunCount }

// Capacity returns the ring's slot count.
func (r *Reader) Capacity() uint64 { return r.layout.Capacity }

// Close unmaps the reader's view of the ring.
func (r *Reader) Close() error { return r.region.Close() }
