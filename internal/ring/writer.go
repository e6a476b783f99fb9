package ring

import (
	"os"

	"github.com/aditya-git16/lithos/internal/shmregion"
	"github.com/aditya-git16/lithos/internal/wire"
)

// Writer is the single producer attached to a ring. At most one Writer
// should exist per ring path at a time; this relies on deployment
// convention, not on any arbitration mechanism in the package itself.
type Writer struct {
	region *shmregion.Region
	layout Layout
	header Header
	cursor uint64 // local copy of write_cursor; writer is the sole mutator
}

// NewWriter creates or reuses the backing file at path. If the file
// already exists its header is validated against (capacity, layoutVersion);
// a mismatch is an *ErrLayoutMismatch. If it does not exist (or is empty),
// it is created, zero-filled, and its header is initialized.
//
// On reuse, the writer resumes publishing at the file's stamped
// write_cursor, the sequence that follows the last record published. The
// cursor is not persisted anywhere outside the ring file itself, but a
// reused file's header still records it, so a restarted Writer resumes
// from there instead of unconditionally resetting to zero.
func NewWriter(path string, capacity uint64, layoutVersion uint32) (*Writer, error) {
	layout, err := NewLayout(capacity, layoutVersion)
	if err != nil {
		return nil, err
	}
	size := shmregion.RoundUpToPage(int(layout.TotalSize()))

	existing, statErr := fileSize(path)
	var region *shmregion.Region
	var created bool
	if statErr == nil && existing >= int64(size) {
		region, err = shmregion.Open(path, size)
	} else if statErr == nil && existing > 0 {
		// An existing ring too small for this layout was stamped with a
		// different capacity; never re-initialize it in place.
		return nil, &ErrLayoutMismatch{Field: "file_size", Got: uint64(existing), Expected: uint64(size)}
	} else {
		region, err = shmregion.Create(path, size)
		created = true
	}
	if err != nil {
		return nil, &ErrPathUnavailable{Path: path, Err: err}
	}

	buf := region.Bytes()
	var header Header
	if created {
		initHeader(buf, layout)
		header = newHeader(buf)
	} else {
		header = newHeader(buf)
		if err := validateHeader(header, layout); err != nil {
			region.Close()
			return nil, err
		}
	}

	w := &Writer{
		region: region,
		layout: layout,
		header: header,
		cursor: header.WriteCursor(),
	}
	return w, nil
}

func validateHeader(h Header, want Layout) error {
	if h.Capacity() != want.Capacity {
		return &ErrLayoutMismatch{Field: "capacity", Got: h.Capacity(), Expected: want.Capacity}
	}
	if h.RecordSize() != uint32(RecordSize) {
		return &ErrLayoutMismatch{Field: "record_size", Got: uint64(h.RecordSize()), Expected: uint64(RecordSize)}
	}
	if h.LayoutVersion() != want.LayoutVersion {
		return &ErrLayoutMismatch{Field: "layout_version", Got: uint64(h.LayoutVersion()), Expected: uint64(want.LayoutVersion)}
	}
	return nil
}

// Publish writes one record using the seqlock protocol: mark in-progress,
// copy the record, publish, advance the cursor. It never fails and never
// blocks.
func (w *Writer) Publish(e wire.TopOfBookEvent) {
	wr := w.cursor
	slot := slotAt(w.region.Bytes(), w.layout, wr)

	// Phase 1: mark in-progress (odd sequence).
	slot.storeSeq(2*wr + 1)

	// Phase 2: copy the record (plain stores; odd sequence excludes readers).
	slot.writeRecord(&e)

	// Phase 3: publish (even sequence).
	slot.storeSeq(2*wr + 2)

	// Phase 4: advance the shared cursor.
	w.cursor = wr + 1
	w.header.setWriteCursor(w.cursor)
}

// Capacity returns the ring's slot count.
func (w *Writer) Capacity() uint64 { return w.layout.Capacity }

// Cursor returns the writer's current local cursor (diagnostics only).
func (w *Writer) Cursor() uint64 { return w.cursor }

// Close unmaps the backing region. The file itself persists on disk.
func (w *Writer) Close() error { return w.region.Close() }

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
