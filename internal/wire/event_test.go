package wire

import (
	"testing"
	"unsafe"
)

func TestRecordSizeMatchesStruct(t *testing.T) {
	if got := unsafe.Sizeof(TopOfBookEvent{}); got != RecordSize {
		t.Fatalf("TopOfBookEvent size is %d, want %d", got, RecordSize)
	}
}

func TestRoundTrip(t *testing.T) {
	in := TopOfBookEvent{
		SymbolID:     7,
		Flags:        0,
		BidPx:        6_310_000_000_000,
		AskPx:        6_310_500_000_000,
		BidQty:       100,
		AskQty:       250,
		TsEventNs:    1234567890,
		TsExchangeNs: 1234567000,
	}

	b := AsBytes(&in)
	if len(b) != RecordSize {
		t.Fatalf("AsBytes length = %d, want %d", len(b), RecordSize)
	}

	var out TopOfBookEvent
	FromBytes(&out, b)
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestMidX2AndSpreadTicks(t *testing.T) {
	e := TopOfBookEvent{BidPx: 100, AskPx: 106}
	if got := e.MidX2(); got != 206 {
		t.Errorf("MidX2() = %d, want 206", got)
	}
	if got := e.SpreadTicks(); got != 6 {
		t.Errorf("SpreadTicks() = %d, want 6", got)
	}
}

func TestSpreadTicksNegativeOnCrossedBook(t *testing.T) {
	e := TopOfBookEvent{BidPx: 106, AskPx: 100}
	if got := e.SpreadTicks(); got >= 0 {
		t.Errorf("SpreadTicks() = %d, want negative for a crossed book", got)
	}
}
