package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aditya-git16/lithos/internal/marketstate"
	"github.com/aditya-git16/lithos/internal/ring"
	"github.com/aditya-git16/lithos/internal/wire"
)

func TestProducerConsumerWiring(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.ring")

	writer, err := ring.NewWriter(path, 8, ring.DefaultLayoutVersion)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer writer.Close()
	producer := NewProducer(writer)

	reader, err := ring.OpenReader(path, ring.DefaultLayoutVersion, ring.StartFromRetained)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	index := marketstate.NewIndex(16)
	consumer := NewConsumer(reader, index, time.Millisecond)
	defer consumer.Close()

	producer.Publish(wire.TopOfBookEvent{SymbolID: 2, BidPx: 100, AskPx: 102, BidQty: 1, AskQty: 1})
	producer.Publish(wire.TopOfBookEvent{SymbolID: 2, BidPx: 101, AskPx: 103, BidQty: 1, AskQty: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		consumer.Run(ctx)
		close(done)
	}()
	<-done

	summary := consumer.Summary()
	if summary.EventsApplied != 2 {
		t.Fatalf("EventsApplied = %d, want 2", summary.EventsApplied)
	}
	if producer.Published() != 2 {
		t.Fatalf("Published() = %d, want 2", producer.Published())
	}

	st, ok := index.Get(2)
	if !ok || st.MidX2 != 204 {
		t.Fatalf("index.Get(2) = %+v, %v", st, ok)
	}
}
