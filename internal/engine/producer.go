// Package engine binds a ring.Writer to an external record source (the
// producer loop) and a ring.Reader to a marketstate.Index (the consumer
// loop).
package engine

import (
	"github.com/aditya-git16/lithos/internal/ring"
	"github.com/aditya-git16/lithos/internal/wire"
)

// Producer is the tight writer-loop body: publish(R) and nothing else. It
// must not allocate after construction.
type Producer struct {
	writer *ring.Writer

	published uint64
}

// NewProducer wraps a ring.Writer for use by exchange collaborators.
func NewProducer(w *ring.Writer) *Producer {
	return &Producer{writer: w}
}

// Publish hands one decoded record to the ring. Never fails, never blocks.
func (p *Producer) Publish(e wire.TopOfBookEvent) {
	p.writer.Publish(e)
	p.published++
}

// Published returns the cumulative count of records handed to the ring.
func (p *Producer) Published() uint64 { return p.published }

// Close releases the underlying ring.Writer.
func (p *Producer) Close() error { return p.writer.Close() }
