package ring

import (
	"path/filepath"
	"testing"

	"github.com/aditya-git16/lithos/internal/wire"
)

func newTestRing(t *testing.T, capacity uint64) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ring")
	w, err := NewWriter(path, capacity, DefaultLayoutVersion)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, path
}

func sampleEvent(symbolID uint16) wire.TopOfBookEvent {
	return wire.TopOfBookEvent{
		SymbolID: symbolID,
		BidPx:    100,
		AskPx:    101,
		BidQty:   10,
		AskQty:   10,
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	w, path := newTestRing(t, 8)

	r, err := OpenReader(path, DefaultLayoutVersion, StartFromRetained)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	w.Publish(sampleEvent(3))
	w.Publish(sampleEvent(4))

	res := r.TryRead()
	if res.Status != StatusReady || res.Record.SymbolID != 3 {
		t.Fatalf("first read = %+v, want ready symbol 3", res)
	}
	res = r.TryRead()
	if res.Status != StatusReady || res.Record.SymbolID != 4 {
		t.Fatalf("second read = %+v, want ready symbol 4", res)
	}
	res = r.TryRead()
	if res.Status != StatusEmpty {
		t.Fatalf("third read = %+v, want empty", res)
	}
}

func TestReaderStartNewOnlySkipsBacklog(t *testing.T) {
	w, path := newTestRing(t, 8)
	w.Publish(sampleEvent(1))

	r, err := OpenReader(path, DefaultLayoutVersion, StartNewOnly)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	if res := r.TryRead(); res.Status != StatusEmpty {
		t.Fatalf("TryRead() = %+v, want empty (backlog should not replay)", res)
	}

	w.Publish(sampleEvent(2))
	if res := r.TryRead(); res.Status != StatusReady || res.Record.SymbolID != 2 {
		t.Fatalf("TryRead() = %+v, want ready symbol 2", res)
	}
}

func TestOverrunFullLapInOneStep(t *testing.T) {
	const capacity = 4
	w, path := newTestRing(t, capacity)

	r, err := OpenReader(path, DefaultLayoutVersion, StartFromRetained)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	for i := uint16(0); i < capacity+2; i++ {
		w.Publish(sampleEvent(i))
	}

	res := r.TryRead()
	if res.Status != StatusOverrun {
		t.Fatalf("TryRead() = %+v, want overrun", res)
	}
	if res.Lost != capacity+2 {
		t.Fatalf("Lost = %d, want %d", res.Lost, capacity+2)
	}
	if r.OverrunCount() != capacity+2 {
		t.Fatalf("OverrunCount() = %d, want %d", r.OverrunCount(), capacity+2)
	}

	res = r.TryRead()
	if res.Status != StatusReady || res.Record.SymbolID != 3 {
		t.Fatalf("recovery read = %+v, want ready symbol 3", res)
	}
}

func TestLayoutMismatchOnReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mismatch.ring")
	w, err := NewWriter(path, 8, DefaultLayoutVersion)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	w.Close()

	_, err = NewWriter(path, 16, DefaultLayoutVersion)
	if err == nil {
		t.Fatal("expected an ErrLayoutMismatch when capacity changes across restarts")
	}
	if _, ok := err.(*ErrLayoutMismatch); !ok {
		t.Fatalf("err = %v (%T), want *ErrLayoutMismatch", err, err)
	}
}

func TestNewLayoutRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := NewLayout(3, DefaultLayoutVersion); err == nil {
		t.Fatal("expected an error for a non-power-of-two capacity")
	}
	if _, err := NewLayout(0, DefaultLayoutVersion); err == nil {
		t.Fatal("expected an error for a zero capacity")
	}
}

func TestWriterResumesCursorAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.ring")
	w1, err := NewWriter(path, 8, DefaultLayoutVersion)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	w1.Publish(sampleEvent(1))
	w1.Publish(sampleEvent(2))
	w1.Close()

	w2, err := NewWriter(path, 8, DefaultLayoutVersion)
	if err != nil {
		t.Fatalf("NewWriter (reopen): %v", err)
	}
	defer w2.Close()
	if w2.Cursor() != 2 {
		t.Fatalf("Cursor() after reopen = %d, want 2", w2.Cursor())
	}
}
