package engine

import (
	"context"
	"time"

	"github.com/aditya-git16/lithos/internal/marketstate"
	"github.com/aditya-git16/lithos/internal/ring"
)

// Consumer binds a ring.Reader to a marketstate.Index: the tight
// try-read loop. On Ready it applies to the index; on Empty it backs off
// briefly; on Overrun it counts and continues.
type Consumer struct {
	reader  *ring.Reader
	index   *marketstate.Index
	backoff time.Duration

	overruns uint64
}

// NewConsumer wraps a ring.Reader and the marketstate.Index it feeds.
// backoff is the sleep applied after an Empty try-read; pass 0 to busy-spin
// instead.
func NewConsumer(r *ring.Reader, idx *marketstate.Index, backoff time.Duration) *Consumer {
	return &Consumer{reader: r, index: idx, backoff: backoff}
}

// Run loops until ctx is cancelled. It never returns an error: all
// hot-path conditions (Empty, Overrun, drops) are absorbed into counters.
func (c *Consumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch res := c.reader.TryRead(); res.Status {
		case ring.StatusReady:
			seq := c.reader.Position() - 1
			c.index.Apply(res.Record, seq)
		case ring.StatusOverrun:
			c.overruns += res.Lost
		case ring.StatusEmpty:
			if c.backoff > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.backoff):
				}
			}
		}
	}
}

// Summary is the cumulative shutdown report: events applied, duplicates,
// malformed records, out-of-range records, and overruns.
type Summary struct {
	EventsApplied uint64
	Duplicates    uint64
	Malformed     uint64
	OutOfRange    uint64
	Overruns      uint64
}

// Summary returns the cumulative counters for this consumer's run.
func (c *Consumer) Summary() Summary {
	counters := c.index.Counters()
	return Summary{
		EventsApplied: counters.Applied,
		Duplicates:    counters.Stale,
		Malformed:     counters.Malformed,
		OutOfRange:    counters.OutOfRange,
		Overruns:      c.overruns,
	}
}

// Close releases the underlying ring.Reader.
func (c *Consumer) Close() error { return c.reader.Close() }
